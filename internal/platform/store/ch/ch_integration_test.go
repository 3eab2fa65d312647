//go:build integration_ch
// +build integration_ch

package ch

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startClickhouse(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.8-alpine",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"CLICKHOUSE_DB":       "xfriends",
			"CLICKHOUSE_USER":     "default",
			"CLICKHOUSE_PASSWORD": "secret",
		},
		WaitingFor: wait.ForListeningPort("9000/tcp").WithStartupTimeout(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		cancel()
		t.Fatalf("failed to start clickhouse container: %v", err)
	}
	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "9000/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("mapped port: %v", err)
	}
	dsn = fmt.Sprintf("clickhouse://default:secret@%s:%s/xfriends", host, mapped.Port())
	return dsn, func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
}

func TestInsertAndQuery_Integration(t *testing.T) {
	dsn, stop := startClickhouse(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c, err := Open(ctx, Config{URL: dsn, Role: "test"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = c.Close() }()

	deadline := time.Now().Add(30 * time.Second)
	for {
		if err = c.Ping(ctx); err == nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("ping: %v", err)
	}

	if err := c.Exec(ctx, `CREATE TABLE IF NOT EXISTS kv_probe (k String, n UInt32) ENGINE = Memory`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := c.Insert(ctx, "kv_probe", [][]any{{"a", uint32(1)}, {"b", uint32(2)}}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := c.Query(ctx, `SELECT count() FROM kv_probe`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		t.Fatalf("no rows")
	}
	var n uint64
	if err := rows.Scan(&n); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}
