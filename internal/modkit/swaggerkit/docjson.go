package swaggerkit

import (
	"net/http"

	"xfriends/internal/platform/config"
	"xfriends/internal/services/api/docs"

	"github.com/bytedance/sonic"
)

var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// every route can fail with the error envelope
var errorResponse = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "integer"},
		"error":       map[string]any{"type": "string"},
		"details":     map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
	},
	"required": []any{"status_code", "status"},
}

var defaultErrors = map[string]string{
	"400": "Bad Request",
	"429": "Too Many Requests",
	"500": "Internal Server Error",
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := sonic.UnmarshalString(docReader(), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		decorate(spec, config.New().Prefix("CORE_API_").MayString("PUBLIC_HOST", ""))

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = sonic.ConfigStd.NewEncoder(w).Encode(spec)
	}
}

// decorate adds the error envelope definition and a default error response per operation
func decorate(spec map[string]any, host string) {
	if host != "" {
		spec["host"] = host
	}
	defs, _ := spec["definitions"].(map[string]any)
	if defs == nil {
		defs = map[string]any{}
		spec["definitions"] = defs
	}
	if _, ok := defs["ErrorResponse"]; !ok {
		defs["ErrorResponse"] = errorResponse
	}

	paths, _ := spec["paths"].(map[string]any)
	for _, p := range paths {
		ops, _ := p.(map[string]any)
		for _, o := range ops {
			op, ok := o.(map[string]any)
			if !ok {
				continue
			}
			resps, _ := op["responses"].(map[string]any)
			if resps == nil {
				resps = map[string]any{}
				op["responses"] = resps
			}
			for code, desc := range defaultErrors {
				if _, ok := resps[code]; !ok {
					resps[code] = map[string]any{
						"description": desc,
						"schema":      map[string]any{"$ref": "#/definitions/ErrorResponse"},
					}
				}
			}
		}
	}
}
