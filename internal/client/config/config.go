package config

import (
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/registry"
)

// Config holds runtime settings for the keyregistry CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: deadline applied to every command sent to the server.
//   - KeyFile: path of the base58 Ed25519 seed used to sign in.
//   - CacheFile: SQLite file holding verified contacts and local metadata.
//   - ProgramID: base58 program id slots are derived from; lookups are
//     re-derived locally against it.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	KeyFile             string
	CacheFile           string
	ProgramID           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.KeyFile = "identity.key"
	c.CacheFile = "keyregistry.db"
	c.ProgramID = registry.DefaultProgramID
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
