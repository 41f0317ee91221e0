/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fittrack/apiserver/config"
	"github.com/fittrack/apiserver/internal/events"
	"github.com/fittrack/apiserver/internal/mq"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect change events",
}

var eventsWatchCmd = &cobra.Command{
	Use:   "watch [users|trainings]...",
	Short: "Print change events as they are published",
	Long: `Subscribes to the change event channels and prints every event. Usage:

	fittrack events watch users trainings
`,
	ValidArgs: []string{"users", "trainings"},
	Args:      cobra.OnlyValidArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if len(args) == 0 {
			args = []string{"users", "trainings"}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		queue, err := mq.Open(ctx, cfg.MQ)
		if errors.Is(err, mq.ErrDisabled) {
			return errors.New("set MQ_BACKEND to rabbitmq or pubsub to watch events")
		}
		if err != nil {
			return err
		}
		defer func() {
			_ = queue.Close()
		}()

		notifier := events.NewNotifier(queue, cfg.MQ.ChannelPrefix, slog.Default())
		out := cmd.OutOrStdout()

		g, gctx := errgroup.WithContext(ctx)
		for _, entity := range args {
			channel := notifier.Channel(entity)
			g.Go(func() error {
				return queue.Subscribe(gctx, channel, func(_ context.Context, msg mq.Message) error {
					evt, err := events.Decode(msg.Data)
					if err != nil {
						slog.Warn("skipping malformed event", "channel", channel, "error", err)
						return nil
					}
					fmt.Fprintf(out, "%s %s %s #%d %s\n",
						evt.OccurredAt.Format("2006-01-02T15:04:05Z07:00"),
						evt.Entity, evt.Action, evt.EntityID, evt.Data)
					return nil
				})
			})
		}
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsWatchCmd)
}
