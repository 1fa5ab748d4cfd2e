// Package groupsync periodically recomputes group aggregate profiles from
// their members, so discovery ranks against fresh averages without touching
// member rows on the request path.
package groupsync

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const refreshTimeout = 2 * time.Minute

// Refresher is the aggregate recompute the scheduler drives.
type Refresher interface {
	RefreshAggregates(ctx context.Context) (int64, error)
}

type Scheduler struct {
	groups Refresher
	cron   *cron.Cron
}

func NewScheduler(groups Refresher) *Scheduler {
	return &Scheduler{groups: groups}
}

// Start initializes cron tasks
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	// (12:00 AM)
	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.runRefresh()
	})

	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Group aggregate scheduler started (running nightly at 12:00AM)")
	c.Start()
	s.cron = c
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Scheduler) runRefresh() {
	log.Println("Group aggregate refresh started...")

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	n, err := s.groups.RefreshAggregates(ctx)
	if err != nil {
		log.Printf("Group aggregate refresh failed: %v", err)
		return
	}

	log.Printf("Group aggregate refresh completed, groups=%d at: %s", n, time.Now().Format(time.RFC1123))
}
