// Package export writes point-in-time snapshots of all users and trainings to
// object storage.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/fittrack/apiserver/internal/mapper"
	"github.com/fittrack/apiserver/internal/observability"
	"github.com/fittrack/apiserver/internal/services"
	"github.com/fittrack/apiserver/internal/storage"
	"github.com/fittrack/apiserver/types"
)

const (
	keyPrefix       = "exports/"
	keyTimeLayout   = "20060102T150405Z"
	contentTypeJSON = "application/json"
)

// Snapshot is the exported document.
type Snapshot struct {
	GeneratedAt time.Time                `json:"generatedAt"`
	Users       []types.UserTransfer     `json:"users"`
	Trainings   []types.TrainingTransfer `json:"trainings"`
}

// Uploader is the object storage surface needed to write a snapshot.
type Uploader interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, obj storage.Object) (string, error)
	Bucket() string
}

type Exporter struct {
	users     services.Users
	trainings services.Trainings
	uploader  Uploader
	logger    *slog.Logger
	now       func() time.Time
}

func NewExporter(users services.Users, trainings services.Trainings, uploader Uploader, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		users:     users,
		trainings: trainings,
		uploader:  uploader,
		logger:    logger,
		now:       time.Now,
	}
}

// ObjectKey returns the object key for a snapshot taken at t.
func ObjectKey(t time.Time) string {
	return keyPrefix + "fittrack-" + t.UTC().Format(keyTimeLayout) + ".json"
}

// Export builds a snapshot and uploads it, returning the object location.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	snapshot, err := e.Build(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	if err := e.uploader.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket %s: %w", e.uploader.Bucket(), err)
	}

	location, err := e.uploader.Put(ctx, storage.Object{
		Key:         ObjectKey(snapshot.GeneratedAt),
		Body:        body,
		ContentType: contentTypeJSON,
		Metadata: map[string]string{
			"generated-at":   snapshot.GeneratedAt.Format(time.RFC3339),
			"user-count":     strconv.Itoa(len(snapshot.Users)),
			"training-count": strconv.Itoa(len(snapshot.Trainings)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	observability.RecordExport(snapshot.GeneratedAt)
	e.logger.InfoContext(ctx, "snapshot exported",
		"location", location,
		"users", len(snapshot.Users),
		"trainings", len(snapshot.Trainings),
		"bytes", len(body),
	)
	return location, nil
}

// Build collects every user and training in wire shape.
func (e *Exporter) Build(ctx context.Context) (Snapshot, error) {
	generatedAt := e.now().UTC()

	users, err := e.users.FindAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list users: %w", err)
	}
	trainings, err := e.trainings.FindAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list trainings: %w", err)
	}

	return Snapshot{
		GeneratedAt: generatedAt,
		Users:       mapper.UsersToTransfer(users),
		Trainings:   mapper.TrainingsToTransfer(trainings),
	}, nil
}
