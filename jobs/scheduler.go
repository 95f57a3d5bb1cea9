package jobs

import (
	"recruitsync/core/config"
	"recruitsync/core/logger"

	"github.com/hibiken/asynq"
)

// RedisOpt builds the asynq redis connection from config.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewScheduler registers the periodic import runs from the configured cron
// specs. Events and RSVPs run on separate schedules so RSVP imports see the
// events the preceding run stored.
func NewScheduler(cfg *config.Config) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(RedisOpt(cfg.Redis), &asynq.SchedulerOpts{})

	eventsTask, err := NewImportEventsTask("")
	if err != nil {
		return nil, err
	}
	if _, err := scheduler.Register(cfg.Import.EventsCron, eventsTask); err != nil {
		return nil, err
	}

	rsvpsTask, err := NewImportRSVPsTask("")
	if err != nil {
		return nil, err
	}
	if _, err := scheduler.Register(cfg.Import.RsvpsCron, rsvpsTask); err != nil {
		return nil, err
	}

	logger.Info("Jobs:NewScheduler:Registered",
		"events_cron", cfg.Import.EventsCron, "rsvps_cron", cfg.Import.RsvpsCron)
	return scheduler, nil
}
