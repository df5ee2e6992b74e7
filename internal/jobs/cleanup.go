package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fairway/scorecard-server/internal/repository"
)

// CleanupJob periodically clears lockout timestamps that have already
// elapsed, so the lockout columns reflect only active locks.
type CleanupJob struct {
	profileRepo repository.ProfileRepository
	interval    time.Duration
	done        chan struct{}
}

func NewCleanupJob(profileRepo repository.ProfileRepository, interval time.Duration) *CleanupJob {
	return &CleanupJob{
		profileRepo: profileRepo,
		interval:    interval,
		done:        make(chan struct{}),
	}
}

func (j *CleanupJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("cleanup job started")
}

func (j *CleanupJob) Stop() {
	close(j.done)
	log.Info().Msg("cleanup job stopped")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *CleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := j.profileRepo.ClearElapsedLockouts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to clear elapsed lockouts")
	} else if count > 0 {
		log.Info().Int64("count", count).Msg("cleared elapsed lockouts")
	}
}
