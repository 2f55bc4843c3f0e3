// internal/view/render.go
//
// Central view engine: template lookup, func-map injection, and an LRU of
// parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Render         – write rendered HTML to an http.ResponseWriter.
//   - RenderToString – return template.HTML (fragments, tests).
//
// Layout
// ------
// A component ships its templates as an fs.FS (normally go:embed).  Every
// page set is parsed from three groups of files:
//
//  1. layout.html       – the shell; defines "layout" and calls "content".
//  2. _*.html           – shared partials (indicator, alert banner).
//  3. <name>.html       – the page; defines "content".
//
// Parsed sets are cached by page name unless the Renderer was built with
// caching off (development reload).
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/yanizio/survey/internal/cache"
)

// setCapacity bounds parsed template sets; one per page is plenty.
const setCapacity = 64

// Renderer executes page templates from one fs.FS.
type Renderer struct {
	fsys    fs.FS
	funcs   template.FuncMap
	sets    *cache.LRU[string, *template.Template]
	noCache bool
}

// Option tweaks a Renderer.
type Option func(*Renderer)

// WithoutCache re-parses templates on every render.
func WithoutCache() Option { return func(r *Renderer) { r.noCache = true } }

// WithFuncs merges extra template functions into the default map.
func WithFuncs(fm template.FuncMap) Option {
	return func(r *Renderer) {
		for k, v := range fm {
			r.funcs[k] = v
		}
	}
}

// New returns a Renderer reading templates from fsys.
func New(fsys fs.FS, opts ...Option) *Renderer {
	r := &Renderer{
		fsys:  fsys,
		funcs: buildFuncMap(),
		sets:  cache.New[string, *template.Template](setCapacity),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

//
// public helpers
//

// Render executes page name inside the layout and streams it to w with
// the given status.  Output is buffered so a template error still yields a
// clean 500 instead of a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := r.execute(&buf, name, data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// RenderToString executes and returns HTML.  It mirrors Render, but writes
// to a buffer instead of w.
func (r *Renderer) RenderToString(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.execute(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

//
// internal: load
//

func (r *Renderer) execute(buf *bytes.Buffer, name string, data any) error {
	t, err := r.load(name)
	if err != nil {
		return err
	}
	if err := t.ExecuteTemplate(buf, "layout", data); err != nil {
		return fmt.Errorf("view: execute %s: %w", name, err)
	}
	return nil
}

// load finds and (if necessary) parses the template set for page name.
func (r *Renderer) load(name string) (*template.Template, error) {
	if !r.noCache {
		if t, ok := r.sets.Get(name); ok {
			return t, nil
		}
	}

	page := name + ".html"
	if _, err := fs.Stat(r.fsys, page); err != nil {
		return nil, fmt.Errorf("view: page %q: %w", name, err)
	}

	patterns := []string{"layout.html"}
	if partials, _ := fs.Glob(r.fsys, "_*.html"); len(partials) > 0 {
		patterns = append(patterns, "_*.html")
	}
	patterns = append(patterns, page)

	t, err := template.New(name).Funcs(r.funcs).ParseFS(r.fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("view: parse %s: %w", name, err)
	}

	if !r.noCache {
		r.sets.Add(name, t)
	}
	return t, nil
}

//
// func-map builders
//

func buildFuncMap() template.FuncMap {
	fm := template.FuncMap{
		"dict": dict,
	}
	for k, v := range uaFuncMap() { // UA helpers (device class, bot flag)
		fm[k] = v
	}
	return fm
}

//
// helpers
//

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
