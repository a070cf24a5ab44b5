package main

import (
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"edabot/internal/session"
)

// StartSweepScheduler runs the idle-session sweep on a standard 5-field
// cron expression (minute hour day-of-month month day-of-week).
// Examples: "*/15 * * * *" (every 15 minutes), "0 * * * *" (hourly).
func StartSweepScheduler(cfg Config, sessions *session.Manager) {
	schedule := strings.TrimSpace(cfg.SweepSchedule)
	if schedule == "" || cfg.SessionTTLMinutes <= 0 {
		log.Println("Session sweep disabled")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid sweep_schedule '%s': %v, session sweep disabled", schedule, err)
		return
	}

	log.Printf("Session sweep scheduled (cron: %s, ttl: %dm)", schedule, cfg.SessionTTLMinutes)

	go func() {
		for {
			now := time.Now()
			next := sched.Next(now)
			time.Sleep(next.Sub(now))
			sessions.Sweep()
		}
	}()
}
