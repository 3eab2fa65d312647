// Package notify pushes mini app notifications to the url a client registered through the webhook
package notify

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/logger"
	"xfriends/internal/platform/upstream"
)

// DefaultTimeout bounds one push
const DefaultTimeout = 5 * time.Second

// State is the outcome of a push
type State string

// Push outcomes
const (
	StateSuccess State = "success"
	StateError   State = "error"
	StateNoToken State = "no_token"
)

// Details is the credential a client hands us when notifications are enabled
type Details struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// Valid reports whether both url and token are present
func (d Details) Valid() bool { return d.URL != "" && d.Token != "" }

// Notification is the user visible content
type Notification struct {
	Title     string
	Body      string
	TargetURL string
}

// Result reports a push outcome; Error holds the response body or transport error text
type Result struct {
	State State  `json:"state"`
	Error string `json:"error,omitempty"`
}

type wireBody struct {
	NotificationID string   `json:"notificationId"`
	Title          string   `json:"title"`
	Body           string   `json:"body"`
	TargetURL      string   `json:"targetUrl"`
	Tokens         []string `json:"tokens"`
}

// Options configures a Sender
type Options struct {
	// TargetURL is used when a notification has none
	TargetURL string
	Timeout   time.Duration
}

// Sender posts notifications
type Sender struct {
	http   *upstream.Client
	target string
	newID  func() string
	log    logger.Logger
}

// New builds a Sender
func New(o Options, opts ...upstream.Option) *Sender {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return &Sender{
		http: upstream.New(upstream.Options{
			Name:       "notify",
			Timeout:    o.Timeout,
			MaxRetries: upstream.NoRetries,
			Accept:     func(s int) bool { return s == http.StatusOK },
		}, opts...),
		target: o.TargetURL,
		newID:  uuid.NewString,
		log:    *logger.Named("notify"),
	}
}

// Send delivers n to the client behind d
// only a 200 counts as delivered; the error never escapes as a go error since callers are fire and forget
func (s *Sender) Send(ctx context.Context, d Details, n Notification) Result {
	if !d.Valid() {
		return Result{State: StateNoToken}
	}
	target := n.TargetURL
	if target == "" {
		target = s.target
	}
	payload, err := sonic.Marshal(wireBody{
		NotificationID: s.newID(),
		Title:          n.Title,
		Body:           n.Body,
		TargetURL:      target,
		Tokens:         []string{d.Token},
	})
	if err != nil {
		return Result{State: StateError, Error: err.Error()}
	}

	if _, err := s.http.PostJSON(ctx, d.URL, nil, payload); err != nil {
		res := Result{State: StateError, Error: perr.Public(err)}
		var se *upstream.StatusError
		if errors.As(err, &se) && se.Body != "" {
			res.Error = se.Body
		}
		s.log.Warn().Err(err).Str("title", n.Title).Msg("notification push failed")
		return res
	}
	return Result{State: StateSuccess}
}
