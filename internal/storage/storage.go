package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fittrack/apiserver/config"
)

// Object is a single upload. Metadata keys are stored as user metadata on
// the object.
type Object struct {
	Key         string
	Body        []byte
	ContentType string
	Metadata    map[string]string
}

// ObjectStorage is the bucket a snapshot is written to.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	// Put stores obj and returns its location, e.g. s3://bucket/key.
	Put(ctx context.Context, obj Object) (string, error)
	Bucket() string
	Close() error
}

// Open constructs the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.ObjectStorageConfig) (ObjectStorage, error) {
	switch cfg.Backend {
	case config.StorageBackendMinio:
		client, err := NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.StorageBackendGCS:
		client, err := NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown object storage backend %q", cfg.Backend)
	}
}

// requireFields reports every empty field of a backend's settings at once.
func requireFields(backend string, fields ...[2]string) error {
	var errs []error
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			errs = append(errs, fmt.Errorf("%s: %s is required", backend, f[0]))
		}
	}
	return errors.Join(errs...)
}

func checkKey(obj Object) error {
	if strings.TrimSpace(obj.Key) == "" || strings.HasPrefix(obj.Key, "/") {
		return fmt.Errorf("invalid object key %q", obj.Key)
	}
	return nil
}
