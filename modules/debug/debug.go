// modules/debug/debug.go
//
// Development module that dumps the caller's survey session as JSON:
// current step, pending flag, the recorded response, and the parsed
// request info.  Mounted only when `survey.debug` is true.
package debug

import (
	"encoding/json"
	"net/http"

	"github.com/yanizio/survey/internal/module"
	"github.com/yanizio/survey/internal/requestinfo"
)

// Path is the exact URL the module answers on.
const Path = "/debug/survey"

func init() {
	module.Register(Path, handler)
}

// handler writes a JSON blob with the session state.  Requests without a
// live session get 404; the module never creates sessions.
func handler(env *module.Env, w http.ResponseWriter, r *http.Request) {
	ent, ok := env.Sessions.Lookup(r)
	if !ok {
		http.Error(w, "no active survey session", http.StatusNotFound)
		return
	}

	out := map[string]any{
		"session":  ent.ID,
		"busy":     ent.Wizard.Busy(),
		"response": ent.Wizard.Snapshot(),
		"errors":   ent.Errors.Fields(),
		"request":  requestinfo.FromContext(r.Context()),
		"sessions": env.Sessions.Len(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
