// Package httpkit is the http surface modules build routes with
// modules import it instead of internal/platform/net/http
package httpkit

import (
	"net/http"

	phttp "xfriends/internal/platform/net/http"
	"xfriends/internal/platform/net/http/bind"
)

type (
	// Envelope is the {data, error} body every route answers with
	Envelope = phttp.Envelope

	// Response is a status plus envelope
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// JSON binds and validates T then envelopes the handler result
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return phttp.Error(err)
		}
		return respond(fn(r, in))
	})
}

// Call adapts a handler that reads no JSON body
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) Response {
		return respond(fn(r))
	})
}

func respond(out any, err error) Response {
	if err != nil {
		return phttp.Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return phttp.OK(out)
}
