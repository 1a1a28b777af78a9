package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amiyamandal-dev/newsreader/pkg/logger"
)

const (
	// LimiterCleanupSpec drops idle rate limiter buckets
	LimiterCleanupSpec = "@every 5m"

	purgeTimeout = 10 * time.Minute
)

// DeletedFolderOwners lists users with soft-deleted folders
type DeletedFolderOwners interface {
	UsersWithDeleted(ctx context.Context) ([]string, error)
}

// FolderPurger permanently removes a user's soft-deleted folders
type FolderPurger interface {
	PurgeDeleted(ctx context.Context, userID string, finalPurge bool) error
}

// Sweeper releases idle per-client state
type Sweeper interface {
	Cleanup()
}

// Scheduler runs the periodic maintenance jobs
type Scheduler struct {
	ctx     context.Context
	cron    *cron.Cron
	spec    string
	owners  DeletedFolderOwners
	folders FolderPurger
	sweeper Sweeper
	logger  *logger.Logger
}

// New creates a scheduler that purges soft-deleted folders on spec. sweeper
// may be nil.
func New(
	ctx context.Context,
	spec string,
	owners DeletedFolderOwners,
	folders FolderPurger,
	sweeper Sweeper,
	logger *logger.Logger,
) *Scheduler {
	return &Scheduler{
		ctx:     ctx,
		cron:    cron.New(cron.WithLocation(time.UTC)),
		spec:    spec,
		owners:  owners,
		folders: folders,
		sweeper: sweeper,
		logger:  logger.WithComponent("scheduler"),
	}
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.purgeJob); err != nil {
		return fmt.Errorf("invalid purge schedule %q: %w", s.spec, err)
	}

	if s.sweeper != nil {
		if _, err := s.cron.AddFunc(LimiterCleanupSpec, s.sweeper.Cleanup); err != nil {
			return fmt.Errorf("invalid cleanup schedule: %w", err)
		}
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", "purge_schedule", s.spec)

	return nil
}

// Stop stops the cron loop and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) purgeJob() {
	ctx, cancel := context.WithTimeout(s.ctx, purgeTimeout)
	defer cancel()

	if _, err := PurgeAll(ctx, s.owners, s.folders, s.logger); err != nil {
		s.logger.Error("Purge job failed", "error", err)
	}
}

// PurgeAll runs a final purge for every user owning soft-deleted folders and
// returns the number of users processed. A failure for one user does not
// stop the others.
func PurgeAll(ctx context.Context, owners DeletedFolderOwners, folders FolderPurger, log *logger.Logger) (int, error) {
	users, err := owners.UsersWithDeleted(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	purged := 0
	for _, userID := range users {
		if ctx.Err() != nil {
			return purged, ctx.Err()
		}

		if err := folders.PurgeDeleted(ctx, userID, true); err != nil {
			log.Warn("Failed to purge user folders", "user_id", userID, "error", err)
			continue
		}
		purged++
	}

	return purged, nil
}
