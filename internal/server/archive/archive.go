// Package archive copies the audit journal to S3-compatible object storage.
//
// Events are shipped in Seq order as JSON lines, one object per batch under
// events/<first>-<last>.jsonl. The highest shipped Seq is kept in the
// metadata table, so a restart resumes where the last upload succeeded.
package archive

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/keyregistry/internal/common"
	"github.com/dmitrijs2005/keyregistry/internal/logging"
	"github.com/dmitrijs2005/keyregistry/internal/server/config"
	"github.com/dmitrijs2005/keyregistry/internal/server/models"
	"github.com/dmitrijs2005/keyregistry/internal/server/repositories/repomanager"
)

// CursorKey is the metadata key holding the last archived Seq.
const CursorKey = "archive_cursor"

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// ObjectStore is the part of *s3.Client the archiver uses.
type ObjectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds a client for the configured S3-compatible endpoint
// with static credentials and path-style addressing.
func NewS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	return newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	}), nil
}

type Archiver struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	bucket      string
	interval    time.Duration
	batchSize   int
	logger      logging.Logger
}

func NewArchiver(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore, cfg *config.Config, l logging.Logger) *Archiver {
	return &Archiver{
		db:          db,
		repomanager: m,
		store:       store,
		bucket:      cfg.S3Bucket,
		interval:    cfg.ArchiveInterval,
		batchSize:   cfg.ArchiveBatchSize,
		logger:      l.With("module", "archive"),
	}
}

// Run archives on every tick until ctx is done. Failures are logged and
// retried on the next tick.
func (a *Archiver) Run(ctx context.Context) error {
	a.logger.Info(ctx, "Starting archiver", "bucket", a.bucket, "interval", a.interval.String())

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info(ctx, "Stopping archiver...")
			return nil
		case <-ticker.C:
			if _, err := a.Drain(ctx); err != nil && ctx.Err() == nil {
				a.logger.Error(ctx, "archive failed", "error", err.Error())
			}
		}
	}
}

// Drain ships batches until the journal is caught up and returns the
// number of events archived.
func (a *Archiver) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := a.ArchiveOnce(ctx)
		total += n
		if err != nil || n < a.batchSize {
			return total, err
		}
	}
}

// ArchiveOnce ships at most one batch of events after the cursor.
func (a *Archiver) ArchiveOnce(ctx context.Context) (int, error) {
	cursor, err := a.cursor(ctx)
	if err != nil {
		return 0, err
	}

	list, err := a.repomanager.Events(a.db).ListSince(ctx, cursor, a.batchSize)
	if err != nil {
		return 0, fmt.Errorf("error listing events: %w", err)
	}
	if len(list) == 0 {
		return 0, nil
	}

	first, last := list[0].Seq, list[len(list)-1].Seq
	body, err := encodeLines(list)
	if err != nil {
		return 0, err
	}

	key := ObjectKey(first, last)
	if _, err := a.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/x-ndjson"),
	}); err != nil {
		return 0, fmt.Errorf("error uploading %s: %w", key, err)
	}

	// an upload whose cursor write fails is repeated under the same key
	if err := a.repomanager.Metadata(a.db).Set(ctx, CursorKey, []byte(strconv.FormatInt(last, 10))); err != nil {
		return 0, fmt.Errorf("error saving archive cursor: %w", err)
	}

	a.logger.Info(ctx, "archived events", "key", key, "count", len(list))
	return len(list), nil
}

// ObjectKey names the object holding events first..last. Seqs are
// zero-padded so keys sort in journal order.
func ObjectKey(first, last int64) string {
	return fmt.Sprintf("events/%020d-%020d.jsonl", first, last)
}

func (a *Archiver) cursor(ctx context.Context) (int64, error) {
	raw, err := a.repomanager.Metadata(a.db).Get(ctx, CursorKey)
	if errors.Is(err, common.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error reading archive cursor: %w", err)
	}
	cursor, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt archive cursor %q: %w", raw, err)
	}
	return cursor, nil
}

func encodeLines(list []*models.Event) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, e := range list {
		if err := enc.Encode(e); err != nil {
			return nil, fmt.Errorf("error encoding event %d: %w", e.Seq, err)
		}
	}
	return buf.Bytes(), nil
}
