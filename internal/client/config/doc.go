// Package config loads runtime configuration for the keyregistry CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-i int      online status check interval (seconds)
//	-t int      request timeout (seconds)
//	-k string   identity key file
//	-program    base58 program id used to verify slots
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s",
//	  "key_file": "identity.key",
//	  "cache_file": "keyregistry.db",
//	  "program_id": "96hG67JxhNEptr1LkdtDcrqvtWiHH3x4GibDBcdh4MYQ"
//	}
package config
