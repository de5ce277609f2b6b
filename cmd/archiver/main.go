package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"triquery/internal/app"
	"triquery/internal/history"
	"triquery/internal/httputil"
	"triquery/internal/queue"
)

type archiveTaskPayload struct {
	UserID string         `json:"user_id"`
	Record history.Record `json:"record"`
}

func main() {
	deps, err := app.BuildArchiver()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("archiver worker starting")

	g, ctx := errgroup.WithContext(context.Background())

	// Run queue worker
	g.Go(func() error {
		return deps.Queue.Worker(ctx, queue.TaskTypeArchive, func(ctx context.Context, task queue.Task) error {
			var payload archiveTaskPayload
			if err := json.Unmarshal(task.Payload, &payload); err != nil {
				return err
			}
			return handleArchive(ctx, deps, payload)
		})
	})

	// Run health check server
	g.Go(func() error {
		return httputil.ServeHealth(deps.Log, deps.Config.Port, "archiver")
	})

	// Wait for either to fail
	if err := g.Wait(); err != nil {
		deps.Log.Error("archiver service stopped", "err", err)
	}
}

func handleArchive(ctx context.Context, deps app.Deps, payload archiveTaskPayload) error {
	if payload.UserID == "" {
		deps.Log.Warn("dropping archive task without user", "record", payload.Record.ID)
		return nil
	}
	if err := deps.Store.Append(ctx, payload.UserID, payload.Record); err != nil {
		return err
	}
	// The user's cached history list is stale now.
	if err := deps.Cache.Invalidate(ctx, payload.UserID); err != nil {
		deps.Log.Warn("failed to invalidate history cache", "user", payload.UserID, "err", err)
	}
	deps.Log.Info("archived query", "record", payload.Record.ID, "user", payload.UserID)
	return nil
}
