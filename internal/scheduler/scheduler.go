package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/veloxevents/doorman/internal/logger"
	"github.com/veloxevents/doorman/internal/services"
)

// Scheduler runs periodic maintenance: nightly it closes out ACTIVE events
// whose date has passed so dashboards stop treating them as live.
type Scheduler struct {
	cron     *cron.Cron
	events   *services.EventService
	notifier *services.NotificationService
}

func New(events *services.EventService, notifier *services.NotificationService) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		events:   events,
		notifier: notifier,
	}
}

// Start registers jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("15 3 * * *", s.completePastEvents); err != nil {
		return fmt.Errorf("schedule event completion job: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) completePastEvents() {
	completed, err := s.events.CompletePastEvents(time.Now())
	if err != nil {
		logger.Log().WithError(err).Error("event completion job failed")
		return
	}

	for _, event := range completed {
		logger.WithFields(map[string]interface{}{
			"event_id": event.ID,
			"name":     event.Name,
		}).Info("event auto-completed")
		s.notifier.Send(
			fmt.Sprintf("Event completed: %s", event.Name),
			fmt.Sprintf("The event on %s was automatically marked completed.", event.Date.Format("2006-01-02")),
		)
	}
}
