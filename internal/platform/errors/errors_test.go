package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForEachCode(t *testing.T) {
	want := map[error]int{
		Validationf("Twitter username is required"): http.StatusBadRequest,
		JSONErrf("Invalid JSON body"):               http.StatusBadRequest,
		Unauthorizedf("Please sign in"):             http.StatusUnauthorized,
		Forbiddenf("Payment required"):              http.StatusForbidden,
		NotFoundf("no such user"):                   http.StatusNotFound,
		InvalidArgf("bad fid"):                      http.StatusUnprocessableEntity,
		TooManyf("slow down"):                       http.StatusTooManyRequests,
		Unavailablef("cache down"):                  http.StatusServiceUnavailable,
		Upstreamf("Failed to follow user"):          http.StatusInternalServerError,
		PanicErrf("panic recovered"):                http.StatusInternalServerError,
		stderrs.New("foreign"):                      http.StatusInternalServerError,
	}
	for err, status := range want {
		assert.Equal(t, status, HTTPStatus(err), err.Error())
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusCode(ErrorCode(999)))
}

func TestWrapKeepsCausePrivate(t *testing.T) {
	cause := stderrs.New("GET https://api.neynar.com?api_key=sk_123: 502")
	err := Wrap(cause, ErrorCodeUpstream, "Failed to match Farcaster users")

	assert.Equal(t, "Failed to match Farcaster users: "+cause.Error(), err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Same(t, cause, Root(fmt.Errorf("svc: %w", err)))
	assert.Equal(t, "Failed to match Farcaster users", Public(err))
	assert.Equal(t, Wire{Code: ErrorCodeUnknown, Message: "internal error"}, WireFrom(cause))
	assert.Equal(t, Wire{}, WireFrom(nil))

	var nilErr *Error
	assert.Equal(t, "<nil>", nilErr.Error())
}

func TestCodeOfSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("social: %w", Wrapf(stderrs.New("x"), ErrorCodeForbidden, "paid %s only", "users"))
	assert.Equal(t, ErrorCodeForbidden, CodeOf(err))
	assert.True(t, IsCode(err, ErrorCodeForbidden))
	assert.Equal(t, "paid users only", Public(err))
	assert.Equal(t, ErrorCodeUnknown, CodeOf(stderrs.New("x")))
}

func TestMutatorsCopy(t *testing.T) {
	base := New(ErrorCodeValidation, "address is a required field")
	withField := WithField(base, "address")
	withBoth := WithDetails(withField, "expected 0x prefixed hex")

	e, ok := As(withBoth)
	require.True(t, ok)
	assert.Equal(t, "address", e.Field())
	assert.Equal(t, "expected 0x prefixed hex", e.Details())
	assert.Equal(t, Wire{Code: ErrorCodeValidation, Message: "address is a required field", Details: "expected 0x prefixed hex", Field: "address"}, WireFrom(withBoth))

	orig, _ := As(base)
	assert.Empty(t, orig.Field())
	assert.Empty(t, orig.Details())

	foreign := stderrs.New("boom")
	assert.Same(t, foreign, WithField(foreign, "x"))
	w := WireFrom(WithDetails(foreign, "hint"))
	assert.Equal(t, ErrorCodeUnknown, w.Code)
	assert.Equal(t, "hint", w.Details)
	assert.Nil(t, WithDetails(nil, "x"))
}
