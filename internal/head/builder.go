// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page’s
// <head> element.  It is scoped to a single render call.  Handlers push the
// title and meta tags, then the layout template emits them.
//
// Features
// --------
//   - SetTitle – single <title> tag (last call wins).
//   - Meta     – name/content pairs, deduplicated by name (first call wins).
//   - Render   – one template.HTML with the title followed by the metas.
//
// Every value is escaped on the way in, so the output is safe to emit
// verbatim.
package head

import (
	"html/template"
	"strings"
)

// Builder is not safe for concurrent use; build it in the handler that
// renders the page.
type Builder struct {
	title string
	metas []string
	seen  map[string]struct{}
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// SetTitle overrides the page <title>.  Empty parts are skipped and the
// rest are joined with " – ".
func (b *Builder) SetTitle(parts ...string) *Builder {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	b.title = strings.Join(kept, " – ")
	return b
}

// Meta adds <meta name=… content=…>.  A repeated name is ignored.
func (b *Builder) Meta(name, content string) *Builder {
	if name == "" || content == "" {
		return b
	}
	if _, dup := b.seen[name]; dup {
		return b
	}
	b.seen[name] = struct{}{}
	b.metas = append(b.metas, `<meta name="`+template.HTMLEscapeString(name)+
		`" content="`+template.HTMLEscapeString(content)+`">`)
	return b
}

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(b.title) + "</title>")
}

// Render returns the title and every meta tag.
func (b *Builder) Render() template.HTML {
	return b.Title() + template.HTML(strings.Join(b.metas, "\n"))
}
