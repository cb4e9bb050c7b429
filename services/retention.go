package services

import (
	"github.com/plateforme-rh/absences-app/utils"
	"github.com/robfig/cron/v3"
)

const defaultRetentionDays = 30

// RetentionSweeper deletes old read notifications on a schedule. The sweep
// itself is a plain method so an external scheduler can call it directly; the
// embedded cron is just the default wiring.
type RetentionSweeper struct {
	service *NotificationService
	days    int
	cron    *cron.Cron
}

func NewRetentionSweeper(service *NotificationService, days int) *RetentionSweeper {
	if days <= 0 {
		days = defaultRetentionDays
	}
	return &RetentionSweeper{
		service: service,
		days:    days,
		cron:    cron.New(),
	}
}

// Start schedules a daily sweep.
func (rs *RetentionSweeper) Start() {
	if _, err := rs.cron.AddFunc("@daily", rs.Sweep); err != nil {
		utils.ErrorLogger.Printf("Failed to schedule retention sweep: %v", err)
		return
	}
	rs.cron.Start()
	utils.InfoLogger.Printf("Retention sweep scheduled daily (retention %d days)", rs.days)
}

// Stop halts the scheduler; a sweep already running finishes.
func (rs *RetentionSweeper) Stop() {
	rs.cron.Stop()
}

// Sweep runs one purge pass.
func (rs *RetentionSweeper) Sweep() {
	removed, err := rs.service.PurgeOldRead(rs.days)
	if err != nil {
		utils.ErrorLogger.Printf("Retention sweep failed: %v", err)
		return
	}
	if removed > 0 {
		utils.InfoLogger.Printf("Retention sweep removed %d read notifications older than %d days", removed, rs.days)
	}
}
