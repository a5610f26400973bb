package server

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/logging"
	"github.com/dmitrijs2005/keyregistry/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())
	return addr
}

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDriver = "sqlite"
	cfg.DatabaseDSN = "file:" + filepath.Join(t.TempDir(), "registry.db") + "?_pragma=busy_timeout(5000)"
	cfg.EndpointAddrGRPC = freeAddr(t)
	cfg.EndpointAddrHTTP = freeAddr(t)
	return cfg
}

func TestOpenDB_UnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.DatabaseDriver = "mysql"
	_, _, err := openDB(context.Background(), cfg)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestNewApp_MigratesSQLite(t *testing.T) {
	app, err := NewApp(context.Background(), sqliteConfig(t), logging.NewDiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	var n int
	require.NoError(t, app.db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&n))
	assert.Zero(t, n)
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	cfg := sqliteConfig(t)
	app, err := NewApp(context.Background(), cfg, logging.NewDiscardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + cfg.EndpointAddrHTTP + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
