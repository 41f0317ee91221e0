package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fittrack/apiserver/config"
	"github.com/fittrack/apiserver/internal/db"
	"github.com/fittrack/apiserver/internal/events"
	"github.com/fittrack/apiserver/internal/mq"
	"github.com/fittrack/apiserver/internal/services"
	"github.com/fittrack/apiserver/internal/store"
	"github.com/fittrack/apiserver/internal/store/memory"
)

// Backend holds the instrumented services and the resources behind them.
type Backend struct {
	Users     services.Users
	Trainings services.Trainings
	closers   []func() error
}

// OpenBackend connects the configured store and message queue and builds the
// services on top of them.
func OpenBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Backend, error) {
	b := &Backend{}

	var (
		userRepo     services.UserRepository
		trainingRepo services.TrainingRepository
	)
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		dbConn, err := db.Open(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		b.closers = append(b.closers, dbConn.Close)
		userRepo = store.NewUserRepository(dbConn)
		trainingRepo = store.NewTrainingRepository(dbConn)
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		userRepo = memory.NewUserRepository()
		trainingRepo = memory.NewTrainingRepository()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	var opts []services.Option
	queue, err := mq.Open(ctx, cfg.MQ)
	switch {
	case errors.Is(err, mq.ErrDisabled):
		logger.Info("change events disabled")
	case err != nil:
		_ = b.Close()
		return nil, err
	default:
		b.closers = append(b.closers, queue.Close)
		opts = append(opts, services.WithNotifier(events.NewNotifier(queue, cfg.MQ.ChannelPrefix, logger)))
		logger.Info("publishing change events", "backend", cfg.MQ.Backend, "prefix", cfg.MQ.ChannelPrefix)
	}

	b.Users = services.InstrumentUsers(services.NewUserService(userRepo, opts...), logger)
	b.Trainings = services.InstrumentTrainings(services.NewTrainingService(trainingRepo, opts...), logger)
	return b, nil
}

// Close releases resources in reverse order of acquisition.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
