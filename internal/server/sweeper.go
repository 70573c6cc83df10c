package server

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Purger deletes snapshots older than a cutoff.
type Purger interface {
	PurgeBefore(cutoff time.Time) (int64, error)
}

// Sweeper purges rendered snapshots past their retention on a cron schedule.
type Sweeper struct {
	store     Purger
	retention time.Duration
	log       logrus.FieldLogger
	now       func() time.Time
	cron      *cron.Cron
}

// NewSweeper schedules Sweep with a standard cron spec or descriptor ("@hourly").
func NewSweeper(store Purger, retention time.Duration, schedule string, log logrus.FieldLogger) (*Sweeper, error) {
	s := &Sweeper{store: store, retention: retention, log: log, now: time.Now, cron: cron.New()}
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return nil, fmt.Errorf("sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Sweeper) Start() { s.cron.Start() }

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() { <-s.cron.Stop().Done() }

func (s *Sweeper) Sweep() {
	cutoff := s.now().Add(-s.retention)
	n, err := s.store.PurgeBefore(cutoff)
	if err != nil {
		s.log.WithError(err).Warn("sweeper: purge failed")
		return
	}
	s.log.WithFields(logrus.Fields{"deleted": n, "cutoff": cutoff.Format(time.RFC3339)}).Info("sweeper: snapshots purged")
}
