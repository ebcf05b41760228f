package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

const (
	JobCatalogRefresh = "catalog-refresh"
	JobSessionPurge   = "session-purge"
)

// sessions with no activity for this long are dropped from memory even if
// their token has not expired yet
const sessionIdleLimit = 24 * time.Hour

// RegisterAll wires the standard background jobs into the manager.
func RegisterAll(jm *JobManager) {
	jm.Register(JobCatalogRefresh, runCatalogRefresh)
	jm.Register(JobSessionPurge, runSessionPurge)
}

func runCatalogRefresh(ctx JobContext) {
	if err := ctx.CatalogCache().Refresh(); err != nil {
		log.Printf("Catalog cache refresh finished with errors: %v", err)
	}
}

func runSessionPurge(ctx JobContext) {
	purged, err := ctx.Store().PurgeExpiredSessions()
	if err != nil {
		log.Printf("Session purge failed: %v", err)
	} else if purged > 0 {
		log.Printf("Purged %d expired sessions.", purged)
	}
	ctx.Sessions().Prune(sessionIdleLimit)
}

// StartJobs starts the background job scheduler.
func StartJobs(app JobContext) {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	startCatalogRefreshJob(s, app)
	startSessionPurgeJob(s, app)

	log.Println("Starting background job scheduler...")
	s.StartAsync()
}

func startCatalogRefreshJob(s *gocron.Scheduler, app JobContext) {
	interval := app.Config().CacheRefreshInterval
	if interval == 0 {
		log.Println("Catalog refresh interval is 0, scheduled refresh is disabled.")
		return
	}

	log.Printf("Scheduling job: '%s' to run every %d minutes.", JobCatalogRefresh, interval)
	_, err := s.Every(interval).Minutes().Do(func() {
		// Submit through the manager so scheduled runs cannot overlap
		// manually triggered ones.
		if err := app.JobManager().RunJob(JobCatalogRefresh, app); err != nil {
			log.Printf("Scheduled job '%s' could not start: %v", JobCatalogRefresh, err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling '%s' job: %v", JobCatalogRefresh, err)
	}
}

func startSessionPurgeJob(s *gocron.Scheduler, app JobContext) {
	log.Printf("Scheduling job: '%s' to run every hour.", JobSessionPurge)
	_, err := s.Every(1).Hour().Do(func() {
		if err := app.JobManager().RunJob(JobSessionPurge, app); err != nil {
			log.Printf("Scheduled job '%s' could not start: %v", JobSessionPurge, err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling '%s' job: %v", JobSessionPurge, err)
	}
}
