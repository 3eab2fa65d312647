package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_RedisOnly(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := Open(ctx, Config{
		AppName: "xfriends-test",
		RDS:     RedisConfig{Enabled: true, Addr: mr.Addr(), DisableCache: true},
	}, WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	require.NotNil(t, s.RDS)
	assert.Nil(t, s.PG)
	assert.Nil(t, s.CH)

	require.NoError(t, s.Guard(ctx))
	require.NoError(t, s.Close(ctx))
}

func TestOpen_Empty(t *testing.T) {
	s, err := Open(context.Background(), Config{})
	require.NoError(t, err)
	assert.NoError(t, s.Guard(context.Background()))
	assert.NoError(t, s.Close(context.Background()))
}

func TestOpen_Failures(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"pg bad url", Config{PG: PGConfig{Enabled: true, URL: "://bad"}}, "store: open pg"},
		{"ch empty url", Config{CH: CHConfig{Enabled: true}}, "store: open ch"},
		{"pg first", Config{
			PG: PGConfig{Enabled: true, URL: "://bad"},
			CH: CHConfig{Enabled: true, URL: "clickhouse://localhost:9000/default"},
		}, "store: open pg"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := Open(context.Background(), c.cfg)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.Contains(t, err.Error(), c.want)
		})
	}
}
