package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikolasamardzija/busNS-rest-api/config"
	"github.com/nikolasamardzija/busNS-rest-api/services/scraper"
	"github.com/nikolasamardzija/busNS-rest-api/services/tasks"
	"github.com/nikolasamardzija/busNS-rest-api/services/timetable"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt is the asynq connection shared by the worker, the scheduler and the client.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitRefreshWorker starts the async worker in background and returns it for shutdown.
func InitRefreshWorker(svc timetable.TimetableService, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeTimetableRefresh, handleRefreshTask(svc, logger))

	go func() {
		logger.Info("[RefreshWorker] starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("[RefreshWorker] failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("[RefreshWorker] max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleRefreshTask(svc timetable.TimetableService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseRefreshPayload(task)
		if err != nil {
			logger.Error("[RefreshHandler] invalid payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		report, err := svc.Refresh(ctx, p.Day, p.Direction)
		if errors.Is(err, scraper.ErrInvalidParameter) {
			logger.Error("[RefreshHandler] rejected refresh", zap.String("rv", p.Direction), zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err != nil {
			logger.Error("[RefreshHandler] refresh failed", zap.String("day", p.Day), zap.String("rv", p.Direction), zap.Error(err))
			return err
		}

		logger.Info("[RefreshHandler] refresh done",
			zap.String("day", report.Day.String()),
			zap.String("rv", report.Direction),
			zap.Int("updated", report.Updated),
			zap.Int("failed", report.Failed))
		return nil
	}
}

// InitRefreshScheduler enqueues a periodic refresh of every direction for working days.
func InitRefreshScheduler(cronspec string, directions []string, logger *zap.Logger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(RedisOpt(), &asynq.SchedulerOpts{
		Logger: logger.Sugar(),
	})

	for _, rv := range directions {
		task, err := tasks.NewRefreshTask(tasks.RefreshPayload{Day: "R", Direction: rv})
		if err != nil {
			return nil, err
		}
		entryID, err := scheduler.Register(cronspec, task)
		if err != nil {
			return nil, fmt.Errorf("register refresh for %s: %w", rv, err)
		}
		logger.Info("[RefreshScheduler] registered", zap.String("rv", rv), zap.String("cron", cronspec), zap.String("entry", entryID))
	}

	if err := scheduler.Start(); err != nil {
		return nil, err
	}
	return scheduler, nil
}
