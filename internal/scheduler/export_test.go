package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// RunNow triggers the named job immediately, outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	job, err := s.job(name)
	if err != nil {
		return err
	}
	return job.RunNow()
}

// NextRun returns when the named job is next due.
func (s *Scheduler) NextRun(name string) (time.Time, error) {
	job, err := s.job(name)
	if err != nil {
		return time.Time{}, err
	}
	return job.NextRun()
}

func (s *Scheduler) job(name string) (gocron.Job, error) {
	s.mu.Lock()
	id, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown job %q", name)
	}
	for _, j := range s.cron.Jobs() {
		if j.ID() == id {
			return j, nil
		}
	}
	return nil, fmt.Errorf("job %q is not registered", name)
}
