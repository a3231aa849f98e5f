package service

import (
	"context"
	"time"
)

// SummaryRefreshJob recomputes and caches the portfolio summary on a schedule.
type SummaryRefreshJob struct {
	summary *SummaryService
	timeout time.Duration
}

// NewSummaryRefreshJob creates a job that gives each run at most timeout.
func NewSummaryRefreshJob(summary *SummaryService, timeout time.Duration) *SummaryRefreshJob {
	return &SummaryRefreshJob{summary: summary, timeout: timeout}
}

// Name identifies the job in scheduler logs.
func (j *SummaryRefreshJob) Name() string {
	return "summary_refresh"
}

// Run computes a fresh summary. The summary itself is stored by the cache.
func (j *SummaryRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	_, err := j.summary.Refresh(ctx)
	return err
}
