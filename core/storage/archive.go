package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

// Archiver stores raw snapshot payloads for audit and replay.
type Archiver struct {
	client Client
	bucket string
	prefix string
}

// NewArchiver creates an Archiver writing under prefix in bucket.
func NewArchiver(client Client, bucket, prefix string) *Archiver {
	return &Archiver{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// EnsureBucket creates the archive bucket if it does not exist.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	return nil
}

// ObjectKey returns the key a payload received at ts is stored under:
// <prefix>/<yyyy>/<mm>/<dd>/<unix-nanos>-<sha256[:12]>.json
func (a *Archiver) ObjectKey(body []byte, ts time.Time) string {
	sum := sha256.Sum256(body)
	ts = ts.UTC()
	name := fmt.Sprintf("%d-%s.json", ts.UnixNano(), hex.EncodeToString(sum[:])[:12])
	return path.Join(a.prefix, ts.Format("2006/01/02"), name)
}

// Save uploads body and returns its object key.
func (a *Archiver) Save(ctx context.Context, body []byte, ts time.Time) (string, error) {
	key := a.ObjectKey(body, ts)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive snapshot %s: %w", key, err)
	}
	return key, nil
}

// Load downloads an archived payload.
func (a *Archiver) Load(ctx context.Context, key string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	return data, nil
}

// List returns archived snapshot keys, oldest first.
func (a *Archiver) List(ctx context.Context) ([]string, error) {
	prefix := a.prefix
	if prefix != "" {
		prefix += "/"
	}

	var keys []string
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, ".json") {
			keys = append(keys, obj.Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
