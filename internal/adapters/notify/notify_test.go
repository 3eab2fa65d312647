package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xfriends/internal/platform/upstream"
)

func newSender(t *testing.T, h http.HandlerFunc) (*Sender, string) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	s := New(Options{TargetURL: "https://app.example"}, upstream.WithHTTPClient(srv.Client()))
	s.newID = func() string { return "id-1" }
	return s, srv.URL
}

func TestSend_Success(t *testing.T) {
	var got wireBody
	s, url := newSender(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, sonic.Unmarshal(b, &got))
		w.WriteHeader(http.StatusOK)
	})

	res := s.Send(context.Background(), Details{URL: url, Token: "tok"}, Notification{Title: "Hi", Body: "there"})
	assert.Equal(t, StateSuccess, res.State)
	assert.Equal(t, wireBody{
		NotificationID: "id-1",
		Title:          "Hi",
		Body:           "there",
		TargetURL:      "https://app.example",
		Tokens:         []string{"tok"},
	}, got)
}

func TestSend_ExplicitTargetWins(t *testing.T) {
	var got wireBody
	s, url := newSender(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(b, &got)
	})
	s.Send(context.Background(), Details{URL: url, Token: "t"}, Notification{TargetURL: "https://other"})
	assert.Equal(t, "https://other", got.TargetURL)
}

func TestSend_NonOKIsErrorWithBody(t *testing.T) {
	cases := []int{http.StatusAccepted, http.StatusBadRequest, http.StatusInternalServerError}
	for _, status := range cases {
		t.Run(http.StatusText(status), func(t *testing.T) {
			s, url := newSender(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
				_, _ = io.WriteString(w, `{"error":"bad token"}`)
			})
			res := s.Send(context.Background(), Details{URL: url, Token: "t"}, Notification{})
			assert.Equal(t, StateError, res.State)
			assert.Equal(t, `{"error":"bad token"}`, res.Error)
		})
	}
}

func TestSend_BodyCapturedUpTo2KiB(t *testing.T) {
	s, url := newSender(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, strings.Repeat("x", 10_000))
	})
	res := s.Send(context.Background(), Details{URL: url, Token: "t"}, Notification{})
	assert.Len(t, res.Error, 2048)
}

func TestSend_MissingDetails(t *testing.T) {
	s := New(Options{})
	assert.Equal(t, StateNoToken, s.Send(context.Background(), Details{URL: "http://x"}, Notification{}).State)
}

func TestSend_TransportError(t *testing.T) {
	s := New(Options{})
	res := s.Send(context.Background(), Details{URL: "http://127.0.0.1:1", Token: "t"}, Notification{})
	assert.Equal(t, StateError, res.State)
	assert.NotEmpty(t, res.Error)
}
