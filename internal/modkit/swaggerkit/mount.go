// Package swaggerkit serves the xfriends api document and a browsable UI for it
package swaggerkit

import (
	"net/http"

	phttp "xfriends/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Paths under which the document lives; the UI fetches DocJSON
const (
	UIRoot  = "/api/docs"
	DocJSON = UIRoot + "/doc.json"
)

// Mount wires the UI and the decorated document; off in production unless CORE_API_SWAGGER is set
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get(UIRoot, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, UIRoot+"/", http.StatusPermanentRedirect)
	})
	r.Get(DocJSON, serveDocJSON())
	ui := httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL(DocJSON),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DeepLinking(true),
	)
	r.Handle(UIRoot+"/*", ui)
}
