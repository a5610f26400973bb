package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvPrefix+"GRPC_ADDRESS", ":6000")
	t.Setenv(EnvPrefix+"HTTP_ADDRESS", "")
	t.Setenv(EnvPrefix+"ACCESS_TOKEN_VALIDITY", "45s")
	t.Setenv(EnvPrefix+"DEPOSIT_RATE", "1")
	t.Setenv(EnvPrefix+"ARCHIVE_BATCH_SIZE", "9")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, ":6000", cfg.EndpointAddrGRPC)
	assert.Equal(t, "", cfg.EndpointAddrHTTP)
	assert.Equal(t, 45*time.Second, cfg.AccessTokenValidityDuration)
	assert.Equal(t, int64(1), cfg.DepositRate)
	assert.Equal(t, 9, cfg.ArchiveBatchSize)
	assert.Equal(t, "pgx", cfg.DatabaseDriver, "unset variables leave values alone")
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	isolate(t)
	dotEnvFile = filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotEnvFile, []byte("KEYREGISTRY_LOG_LEVEL=debug\nKEYREGISTRY_S3_BUCKET=audit\n"), 0o600))
	t.Setenv(EnvPrefix+"S3_BUCKET", "from-process")
	t.Cleanup(func() { _ = os.Unsetenv(EnvPrefix + "LOG_LEVEL") })

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "from-process", cfg.S3Bucket, "process environment wins over .env")
}

func TestParseEnv_BadValues(t *testing.T) {
	for _, kv := range [][2]string{
		{"CHALLENGE_VALIDITY", "soon"},
		{"DEPOSIT_RATE", "lots"},
		{"ARCHIVE_BATCH_SIZE", "many"},
	} {
		t.Run(kv[0], func(t *testing.T) {
			isolate(t)
			t.Setenv(EnvPrefix+kv[0], kv[1])
			require.Error(t, parseEnv(&Config{}))
		})
	}
}
