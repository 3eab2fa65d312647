package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "xfriends/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestMountProfiler(t *testing.T) {
	cases := []struct {
		enabled bool
		path    string
		want    int
	}{
		{true, "/debug/pprof/", http.StatusOK},
		{true, "/debug/pprof/cmdline", http.StatusOK},
		{true, "/debug/vars", http.StatusOK},
		{false, "/debug/pprof/", http.StatusNotFound},
	}
	for _, c := range cases {
		r := phttp.AdaptChi(chi.NewRouter())
		phttp.MountProfiler(r, "/debug", c.enabled)

		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, c.path, nil))
		assert.Equal(t, c.want, rec.Code, "%s enabled=%v", c.path, c.enabled)
	}
}
