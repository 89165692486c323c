// Package scheduler runs the recurring generation jobs for goldpen.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yuchialin/goldpen/internal/content"
	"github.com/yuchialin/goldpen/internal/kitco"
	"github.com/yuchialin/goldpen/internal/models"
)

// Job represents a scheduled job.
type Job struct {
	Name     string
	Schedule Schedule
	Handler  func(ctx context.Context) error
	LastRun  time.Time
	NextRun  time.Time
}

// Schedule defines when a job should run.
type Schedule struct {
	// For fixed-interval jobs
	Interval time.Duration

	// For time-of-day jobs (in UTC)
	Hour   int
	Minute int

	// Type of schedule
	Type ScheduleType
}

// ScheduleType defines the type of schedule.
type ScheduleType string

const (
	ScheduleInterval ScheduleType = "interval"
	ScheduleDaily    ScheduleType = "daily"
)

// Scheduler manages the daily article job and the market snapshot refresh.
type Scheduler struct {
	pipeline *content.Pipeline
	market   *kitco.Client

	jobs    []*Job
	jobsMux sync.RWMutex

	snapshotMux sync.RWMutex
	snapshot    *models.MarketSnapshot

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler generating one article per day at
// generateHour UTC and refreshing the market snapshot every
// snapshotInterval.
func NewScheduler(pipeline *content.Pipeline, market *kitco.Client, generateHour int, snapshotInterval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		pipeline: pipeline,
		market:   market,
		jobs:     make([]*Job, 0),
		ctx:      ctx,
		cancel:   cancel,
	}

	if market != nil {
		s.AddJob(&Job{
			Name: "market-snapshot",
			Schedule: Schedule{
				Type:     ScheduleInterval,
				Interval: snapshotInterval,
			},
			Handler: s.refreshSnapshot,
		})
	}

	s.AddJob(&Job{
		Name: "daily-article",
		Schedule: Schedule{
			Type:   ScheduleDaily,
			Hour:   generateHour,
			Minute: 0,
		},
		Handler: func(ctx context.Context) error {
			_, err := s.pipeline.GenerateDaily(ctx, s.LatestSnapshot())
			return err
		},
	})

	return s
}

// refreshSnapshot scrapes a fresh market snapshot. The last successful
// snapshot is kept when scraping fails.
func (s *Scheduler) refreshSnapshot(ctx context.Context) error {
	snapshot, err := s.market.Snapshot(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Snapshot refresh failed, keeping previous snapshot")
		return nil
	}

	s.snapshotMux.Lock()
	s.snapshot = snapshot
	s.snapshotMux.Unlock()
	return nil
}

// LatestSnapshot returns the most recent market snapshot, or nil when none
// has been captured yet.
func (s *Scheduler) LatestSnapshot() *models.MarketSnapshot {
	s.snapshotMux.RLock()
	defer s.snapshotMux.RUnlock()
	return s.snapshot
}

// AddJob adds a job to the scheduler.
func (s *Scheduler) AddJob(job *Job) {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	job.NextRun = s.calculateNextRun(job.Schedule)
	s.jobs = append(s.jobs, job)

	log.Info().
		Str("job", job.Name).
		Time("next_run", job.NextRun).
		Msg("Job registered")
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	log.Info().Int("jobs", len(s.jobs)).Msg("Starting scheduler")

	s.wg.Add(1)
	go s.jobLoop()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler")
	s.cancel()
	s.wg.Wait()
}

// jobLoop checks and runs scheduled jobs.
func (s *Scheduler) jobLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.checkAndRunJobs()
		}
	}
}

// checkAndRunJobs runs any jobs that are due.
func (s *Scheduler) checkAndRunJobs() {
	now := time.Now().UTC()

	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	for _, job := range s.jobs {
		if now.After(job.NextRun) || now.Equal(job.NextRun) {
			go s.runJob(job)
			job.LastRun = now
			job.NextRun = s.calculateNextRun(job.Schedule)

			log.Debug().
				Str("job", job.Name).
				Time("next_run", job.NextRun).
				Msg("Job scheduled for next run")
		}
	}
}

// runJob executes a job with a bounded timeout.
func (s *Scheduler) runJob(job *Job) {
	log.Info().Str("job", job.Name).Msg("Running job")

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	if err := job.Handler(ctx); err != nil {
		log.Error().Err(err).Str("job", job.Name).Msg("Job failed")
	} else {
		log.Info().Str("job", job.Name).Msg("Job completed")
	}
}

// calculateNextRun calculates the next run time for a schedule.
func (s *Scheduler) calculateNextRun(schedule Schedule) time.Time {
	now := time.Now().UTC()

	switch schedule.Type {
	case ScheduleInterval:
		return now.Add(schedule.Interval)

	case ScheduleDaily:
		next := time.Date(now.Year(), now.Month(), now.Day(),
			schedule.Hour, schedule.Minute, 0, 0, time.UTC)
		if next.Before(now) || next.Equal(now) {
			next = next.Add(24 * time.Hour)
		}
		return next

	default:
		return now.Add(time.Hour)
	}
}

// RunJobNow runs a specific job immediately by name.
func (s *Scheduler) RunJobNow(name string) bool {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	for _, job := range s.jobs {
		if job.Name == name {
			go s.runJob(job)
			return true
		}
	}
	return false
}

// GetJobStatus returns the status of all jobs.
func (s *Scheduler) GetJobStatus() []map[string]interface{} {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	status := make([]map[string]interface{}, len(s.jobs))
	for i, job := range s.jobs {
		status[i] = map[string]interface{}{
			"name":     job.Name,
			"last_run": job.LastRun,
			"next_run": job.NextRun,
		}
	}
	return status
}
