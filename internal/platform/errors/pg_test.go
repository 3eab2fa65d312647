package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestFromPostgres(t *testing.T) {
	assert.Nil(t, FromPostgres(nil, "cache: pg get"))

	cases := map[string]ErrorCode{
		"25006": ErrorCodeUnavailable,
		"57P01": ErrorCodeUnavailable,
		"57P03": ErrorCodeUnavailable,
		"23505": ErrorCodeDB,
		"40001": ErrorCodeDB,
	}
	for state, code := range cases {
		err := FromPostgres(fmt.Errorf("exec: %w", &pgconn.PgError{Code: state}), "cache: pg set")
		assert.Equal(t, code, CodeOf(err), state)
		assert.Equal(t, "cache: pg set", Public(err))
	}
	assert.Equal(t, ErrorCodeDB, CodeOf(FromPostgres(stderrs.New("conn reset"), "cache: pg set")))
}

func TestIsUndefinedTable(t *testing.T) {
	assert.True(t, IsUndefinedTable(fmt.Errorf("q: %w", &pgconn.PgError{Code: "42P01"})))
	assert.False(t, IsUndefinedTable(&pgconn.PgError{Code: "42703"}))
	assert.False(t, IsUndefinedTable(stderrs.New("relation kv_cache does not exist")))
}
