package processor

import (
	"context"
	"log"

	"webshop/analytics-worker-service/internal/app/analytics-worker/service"

	"github.com/robfig/cron/v3"
)

type CronScheduler struct {
	cron     *cron.Cron
	statsSvc service.StatsRollupServiceInterface
}

func NewCronScheduler(statsSvc service.StatsRollupServiceInterface) *CronScheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(log.Default())))

	return &CronScheduler{
		cron:     c,
		statsSvc: statsSvc,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	log.Printf("Starting cron scheduler with schedule: %s", schedule)

	_, err := s.cron.AddFunc(schedule, func() {
		log.Println("Cron job triggered: rolling up daily stats")

		if err := s.statsSvc.RollupDailyStats(ctx); err != nil {
			log.Printf("ERROR: Failed to roll up daily stats: %v", err)
		} else {
			log.Println("Cron job completed: daily stats updated successfully")
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Cron scheduler started")

	log.Println("Performing initial daily stats rollup...")
	if err := s.statsSvc.RollupDailyStats(ctx); err != nil {
		log.Printf("WARNING: Failed initial daily stats rollup: %v", err)
	} else {
		log.Println("Initial daily stats rollup completed")
	}

	return nil
}

func (s *CronScheduler) Stop() {
	log.Println("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
