package process

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/aaq-platform/aaq-admin/app/core"
	"github.com/aaq-platform/aaq-admin/pkg/register"
	"github.com/aaq-platform/aaq-admin/pkg/safe"
	"github.com/aaq-platform/aaq-admin/pkg/types"
)

func init() {
	register.RegisterFunc[*Process](ProcessKey{}, func(p *Process) {
		if _, err := p.Cron().AddFunc("@every 1m", func() {
			safe.Run(func() {
				RollupRunningJobs(p.Core())
			})
		}); err != nil {
			panic(err)
		}

		if _, err := p.Cron().AddFunc("@every 10m", func() {
			safe.Run(func() {
				FailStaleTasks(p.Core())
			})
		}); err != nil {
			panic(err)
		}

		if _, err := p.Cron().AddFunc("@daily", func() {
			safe.Run(func() {
				PurgeExpiredJobs(p.Core())
			})
		}); err != nil {
			panic(err)
		}
	})
}

// RollupRunningJobs re-derives overall_status for every job still marked in
// progress. Worker callbacks normally settle jobs on their own; this loop
// covers reports lost to crashes or network.
func RollupRunningJobs(core *core.Core) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	ok, err := core.TryLock(ctx, "process:index_rollup", time.Minute)
	if err != nil || !ok {
		return
	}
	defer func() {
		_ = core.Unlock(context.Background(), "process:index_rollup")
	}()

	inProgress := types.JOB_STATUS_IN_PROGRESS
	jobs, err := core.Store().IndexJobStore().List(ctx, types.ListIndexJobOptions{
		Status: &inProgress,
	}, types.NO_PAGINATION, types.NO_PAGINATION)
	if err != nil && err != sql.ErrNoRows {
		slog.Error("rollup: failed to list running jobs", slog.Any("error", err))
		return
	}

	for _, job := range jobs {
		tasks, err := core.Store().IndexTaskStore().ListByJob(ctx, job.ID)
		if err != nil && err != sql.ErrNoRows {
			slog.Error("rollup: failed to list tasks", slog.String("job", job.ID), slog.Any("error", err))
			continue
		}

		next := types.RollupJobStatus(tasks)
		if next == job.OverallStatus {
			continue
		}

		var finishedAt int64
		if next.Terminal() {
			finishedAt = time.Now().Unix()
		}
		if err := core.Store().IndexJobStore().UpdateStatus(ctx, job.ID, next, "", finishedAt); err != nil {
			slog.Error("rollup: failed to update job", slog.String("job", job.ID), slog.Any("error", err))
			continue
		}
		slog.Info("rollup: job settled", slog.String("job", job.ID), slog.String("status", string(next)))

		n, err := core.Store().IndexJobStore().Total(ctx, types.ListIndexJobOptions{
			WorkspaceID: job.WorkspaceID,
			Status:      &inProgress,
		})
		if err != nil {
			continue
		}
		core.Metrics().SetRunningJobs(job.WorkspaceID, float64(n))
		if n == 0 {
			_ = core.Cache().Del(ctx, "docmuncher:running:"+job.WorkspaceID)
		}
	}
}

// FailStaleTasks fails tasks that have been sitting non-terminal past the
// configured deadline, so a dead worker cannot pin a job in progress forever.
func FailStaleTasks(core *core.Core) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deadline := time.Duration(core.Cfg().Indexing.StaleTaskMinutes) * time.Minute
	cutoff := time.Now().Add(-deadline).Unix()

	n, err := core.Store().IndexTaskStore().FailStale(ctx, cutoff, "task timed out")
	if err != nil {
		slog.Error("failed to fail stale tasks", slog.Any("error", err))
		return
	}
	if n > 0 {
		slog.Warn("stale tasks failed", slog.Int64("count", n))
		RollupRunningJobs(core)
	}
}

// PurgeExpiredJobs drops settled jobs past the retention window.
func PurgeExpiredJobs(core *core.Core) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute*5)
	defer cancel()

	retention := time.Duration(core.Cfg().Indexing.RetentionDays) * 24 * time.Hour
	cutoff := time.Now().Add(-retention).Unix()

	n, err := core.Store().IndexJobStore().DeleteOlderThan(ctx, cutoff)
	if err != nil {
		slog.Error("failed to purge expired jobs", slog.Any("error", err))
		return
	}
	if n > 0 {
		slog.Info("expired jobs purged", slog.Int64("count", n))
	}
}
