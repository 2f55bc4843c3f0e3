// internal/view/uahelpers.go
//
// User-Agent-related template helpers.  Templates receive the request's
// *requestinfo.RequestInfo (which may be nil) and use these to pick layout
// classes, e.g. a compact rating grid on phones.
package view

import (
	"html/template"

	"github.com/yanizio/survey/internal/requestinfo"
)

// uaFuncMap returns helpers keyed off *requestinfo.RequestInfo.
func uaFuncMap() template.FuncMap {
	return template.FuncMap{
		"device": func(i *requestinfo.RequestInfo) string {
			if i == nil {
				return "Other"
			}
			return i.UA.Device
		},
		"isMobile": func(i *requestinfo.RequestInfo) bool {
			return i != nil && (i.UA.Device == "Mobile" || i.UA.Device == "Tablet")
		},
		"isBot": func(i *requestinfo.RequestInfo) bool { return i != nil && i.UA.IsBot },
	}
}
