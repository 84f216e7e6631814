package utils

import (
	"log"
	"time"

	"greenfund/config"
	"greenfund/reward"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[REWARD-SCHEDULER %s] %s", time.Now().UTC().Format(time.RFC3339), message)
}

// InitializeRewardScheduler schedules the daily accrual run. The schedule
// is evaluated in UTC so weekend and calendar gating never depend on the
// host timezone.
func InitializeRewardScheduler(job *reward.Job) *cron.Cron {
	logScheduler("Initializing reward scheduler...")

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(config.AppConfig.RewardCronSpec, func() {
		logScheduler("Running daily reward accrual...")
		summary, err := job.Run(time.Now().UTC())
		if err != nil {
			logScheduler("Reward accrual failed: " + err.Error())
			return
		}
		logScheduler("Reward accrual finished for " + summary.RunDate)
	})
	if err != nil {
		log.Fatalf("Invalid reward cron spec %q: %v", config.AppConfig.RewardCronSpec, err)
	}

	c.Start()

	logScheduler("Reward scheduler started - spec " + config.AppConfig.RewardCronSpec + " (UTC)")
	return c
}
