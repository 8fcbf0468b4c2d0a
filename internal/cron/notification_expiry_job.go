package cron

import (
	"context"
	"fmt"

	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

type notificationSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// NotificationExpiryJobParams configure the expiry sweep.
type NotificationExpiryJobParams struct {
	Logger  *logger.Logger
	Sweeper notificationSweeper
}

// NewNotificationExpiryJob removes notifications whose expiry has passed.
// Reads already hide expired entries; the sweep keeps the table from growing.
func NewNotificationExpiryJob(params NotificationExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sweeper == nil {
		return nil, fmt.Errorf("notification sweeper required")
	}
	return &notificationExpiryJob{logg: params.Logger, sweeper: params.Sweeper}, nil
}

type notificationExpiryJob struct {
	logg    *logger.Logger
	sweeper notificationSweeper
}

func (j *notificationExpiryJob) Name() string { return "notification-expiry" }

func (j *notificationExpiryJob) Run(ctx context.Context) error {
	deleted, err := j.sweeper.SweepExpired(ctx)
	if err != nil {
		return fmt.Errorf("notification expiry sweep: %w", err)
	}
	if deleted > 0 {
		logCtx := j.logg.WithField(ctx, "rows_deleted", deleted)
		j.logg.Info(logCtx, "expired notifications removed")
	}
	return nil
}
