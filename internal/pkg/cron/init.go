package cron

import (
	"fmt"
	log "log/slog"
)

// InitCron 注册全部定时任务并启动调度器
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return fmt.Errorf("register cron jobs: %w", err)
	}
	mgr.Start()
	log.Info("cron scheduler started")
	return nil
}
