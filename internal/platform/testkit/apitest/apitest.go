// Package apitest mounts modules on a real router and decodes the response envelope
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "xfriends/internal/platform/net/http"
)

// Envelope mirrors the platform envelope with data left raw
type Envelope struct {
	StatusCode int             `json:"status_code"`
	Code       int             `json:"code"`
	Error      string          `json:"error"`
	Details    string          `json:"details"`
	Data       json.RawMessage `json:"data"`
}

// Reply is a decoded response
type Reply struct {
	Status int
	Env    Envelope
	Raw    string
}

// Into decodes the envelope data into dst
func (r Reply) Into(t *testing.T, dst any) {
	t.Helper()
	if err := json.Unmarshal(r.Env.Data, dst); err != nil {
		t.Fatalf("decode data %q: %v", r.Env.Data, err)
	}
}

// Mount builds a chi router and lets mount register routes on it
func Mount(mount func(phttp.Router)) http.Handler {
	mux := chi.NewRouter()
	mount(phttp.AdaptChi(mux))
	return mux
}

// Request is one call against a handler
type Request struct {
	Method string
	Path   string
	Body   string
	Header http.Header
}

// Do runs req against h and decodes the envelope when the body is json
func Do(t *testing.T, h http.Handler, req Request) Reply {
	t.Helper()
	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}
	r := httptest.NewRequest(req.Method, req.Path, body)
	if req.Body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	out := Reply{Status: rec.Code, Raw: rec.Body.String()}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out.Env); err != nil {
			t.Fatalf("decode envelope %q: %v", out.Raw, err)
		}
	}
	return out
}
