package bot

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the bot cycle on a fixed interval. Cycles never overlap:
// the immediate first run and every tick go through the same
// skip-if-still-running chain.
type Scheduler struct {
	cron *cron.Cron
	job  cron.Job
}

func NewScheduler(interval time.Duration, run func()) (*Scheduler, error) {
	c := cron.New()

	// Wrap once and register the wrapped job, so a manual Run shares the
	// overlap guard with the scheduled ticks.
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(run))

	s := &Scheduler{cron: c, job: job}

	_, err := c.AddJob(fmt.Sprintf("@every %s", interval), job)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Start launches the schedule and kicks off an immediate first cycle.
func (s *Scheduler) Start() {
	s.cron.Start()
	go s.job.Run()
}

// Stop halts scheduling and blocks until an in-flight cycle finishes.
func (s *Scheduler) Stop() {
	slog.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}
