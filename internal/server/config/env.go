package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every environment variable the server reads.
const EnvPrefix = "KEYREGISTRY_"

// dotEnvFile is loaded, when present, before the environment is read.
// Variables already set in the process environment win.
var dotEnvFile = ".env"

// parseEnv overlays KEYREGISTRY_* variables onto config.
func parseEnv(config *Config) error {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotEnvFile, err)
	}

	strs := map[string]*string{
		"GRPC_ADDRESS":     &config.EndpointAddrGRPC,
		"HTTP_ADDRESS":     &config.EndpointAddrHTTP,
		"DATABASE_DRIVER":  &config.DatabaseDriver,
		"DATABASE_DSN":     &config.DatabaseDSN,
		"SECRET_KEY":       &config.SecretKey,
		"PROGRAM_ID":       &config.ProgramID,
		"LOG_LEVEL":        &config.LogLevel,
		"S3_ROOT_USER":     &config.S3RootUser,
		"S3_ROOT_PASSWORD": &config.S3RootPassword,
		"S3_BUCKET":        &config.S3Bucket,
		"S3_REGION":        &config.S3Region,
		"S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"ACCESS_TOKEN_VALIDITY":  &config.AccessTokenValidityDuration,
		"REFRESH_TOKEN_VALIDITY": &config.RefreshTokenValidityDuration,
		"CHALLENGE_VALIDITY":     &config.ChallengeValidityDuration,
		"ARCHIVE_INTERVAL":       &config.ArchiveInterval,
	}
	for name, dst := range durations {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = d
	}

	if v, ok := os.LookupEnv(EnvPrefix + "DEPOSIT_RATE"); ok {
		rate, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sDEPOSIT_RATE: %w", EnvPrefix, err)
		}
		config.DepositRate = rate
	}
	if v, ok := os.LookupEnv(EnvPrefix + "ARCHIVE_BATCH_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sARCHIVE_BATCH_SIZE: %w", EnvPrefix, err)
		}
		config.ArchiveBatchSize = n
	}
	return nil
}
