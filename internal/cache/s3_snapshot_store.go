package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidewidget/internal/models"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

const snapshotKey = "widget/snapshot.json"

// S3SnapshotStore publishes the latest widget snapshot to S3
type S3SnapshotStore struct {
	client     S3Client
	bucketName string
	ttl        time.Duration
	clock      clock
}

// snapshotRecord wraps the published snapshot with metadata
type snapshotRecord struct {
	Snapshot    models.WidgetSnapshot `json:"snapshot"`
	LastUpdated int64                 `json:"lastUpdated"`
	TTL         int64                 `json:"ttl"`
}

func NewS3SnapshotStore(client S3Client, bucketName string, ttl time.Duration) *S3SnapshotStore {
	return &S3SnapshotStore{
		client:     client,
		bucketName: bucketName,
		ttl:        ttl,
		clock:      realClock{},
	}
}

// GetSnapshot returns the published snapshot, or nil when none exists or it
// has expired
func (c *S3SnapshotStore) GetSnapshot(ctx context.Context) (*models.WidgetSnapshot, error) {
	if c.bucketName == "" {
		return nil, fmt.Errorf("empty bucket name")
	}

	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(snapshotKey),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting snapshot from S3: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	var record snapshotRecord
	if err := json.NewDecoder(result.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding snapshot record: %w", err)
	}

	if c.clock.Now().Unix() > record.TTL {
		log.Debug().Msg("Published snapshot expired")
		return nil, nil
	}

	return &record.Snapshot, nil
}

// PublishSnapshot overwrites the published snapshot
func (c *S3SnapshotStore) PublishSnapshot(ctx context.Context, snapshot models.WidgetSnapshot) error {
	if c.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}

	now := c.clock.Now().Unix()
	record := snapshotRecord{
		Snapshot:    snapshot,
		LastUpdated: now,
		TTL:         now + int64(c.ttl.Seconds()),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("encoding snapshot record: %w", err)
	}

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(c.bucketName),
		Key:          aws.String(snapshotKey),
		Body:         bytes.NewReader(buf.Bytes()),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("max-age=60"),
	})
	if err != nil {
		return fmt.Errorf("saving snapshot to S3: %w", err)
	}

	log.Debug().
		Str("bucket", c.bucketName).
		Int("conditions", len(snapshot.Conditions)).
		Msg("Published widget snapshot")
	return nil
}
