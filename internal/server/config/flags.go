package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/flagx"
)

var serverFlags = []string{
	"-a", "-http", "-driver", "-d", "-s", "-t", "-r", "-challenge", "-program", "-rate", "-l",
	"-archive-interval", "-archive-batch", "-u", "-p", "-b", "-g", "-e",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string                 gRPC bind address (e.g., ":50051")
//	-http string              HTTP gateway bind address, empty to disable
//	-driver string            database driver: pgx or sqlite
//	-d string                 database DSN
//	-s string                 JWT HMAC secret key
//	-t int                    access token validity, minutes
//	-r int                    refresh token validity, minutes
//	-challenge duration       login challenge validity
//	-program string           base58 program id
//	-rate int                 deposit rate per byte
//	-l string                 log level
//	-archive-interval duration
//	-archive-batch int
//	-u, -p, -b, -g, -e        S3 user, password, bucket, region, base endpoint
//
// Only the flags above are considered; os.Args is filtered with
// flagx.FilterArgs first so -c / -config do not trip the parser.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&config.EndpointAddrHTTP, "http", config.EndpointAddrHTTP, "address and port to run HTTP gateway")
	fs.StringVar(&config.DatabaseDriver, "driver", config.DatabaseDriver, "database driver (pgx, sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.DurationVar(&config.ChallengeValidityDuration, "challenge", config.ChallengeValidityDuration, "login challenge validity")
	fs.StringVar(&config.ProgramID, "program", config.ProgramID, "program id (base58)")
	fs.Int64Var(&config.DepositRate, "rate", config.DepositRate, "deposit rate per byte")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")
	fs.DurationVar(&config.ArchiveInterval, "archive-interval", config.ArchiveInterval, "audit archive interval")
	fs.IntVar(&config.ArchiveBatchSize, "archive-batch", config.ArchiveBatchSize, "audit archive batch size")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket, empty disables archiving")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// minute flags only override when given, so "90s" from a file survives
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
		}
	})
	return nil
}
