package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService drives the periodic change-detection scan. The first scan
// fires immediately on start; overlap protection lives in the notifier
// itself, so a slow cycle causes the next trigger to be skipped rather
// than queued.
type CronService struct {
	notifier *NotifierService
	interval time.Duration
	engine   *cron.Cron
}

// NewCronService creates the scan scheduler
func NewCronService(notifier *NotifierService, interval time.Duration) *CronService {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &CronService{
		notifier: notifier,
		interval: interval,
		engine:   cron.New(),
	}
}

// Start schedules the recurring scan and runs the initial one
func (s *CronService) Start() {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.engine.AddFunc(spec, s.runScan); err != nil {
		log.Fatalf("❌ Could not schedule notification scan: %v", err)
	}
	s.engine.Start()
	log.Printf("🚀 Notification scan scheduled (%s)", spec)

	go s.runScan()
}

// Stop halts the schedule and waits for a running scan to finish
func (s *CronService) Stop() {
	<-s.engine.Stop().Done()
	log.Println("🛑 Notification scan scheduler stopped")
}

func (s *CronService) runScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.notifier.Scan(ctx); err != nil {
		log.Printf("❌ Notification scan error: %v", err)
	}
}
