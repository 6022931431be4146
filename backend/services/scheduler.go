package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const statsRefreshTimeout = time.Minute

// StartStatsScheduler recomputes the admin stats on the given cron schedule.
// The returned scheduler is already running; stop it on shutdown.
func StartStatsScheduler(data *AdminDataManager, schedule string, loc *time.Location, logger *log.Logger) (*cron.Cron, error) {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
	)

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), statsRefreshTimeout)
		defer cancel()

		stats, err := data.RefreshStats(ctx)
		if err != nil {
			logger.Printf("[CRON] Error refreshing stats: %v", err)
			return
		}
		logger.Printf("[CRON] Stats refreshed: %d students, %d courses, %d%% completion",
			stats.TotalStudents, stats.TotalCourses, stats.CompletionRate)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule stats refresh %q: %w", schedule, err)
	}

	c.Start()
	return c, nil
}
