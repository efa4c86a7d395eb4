package utils

import (
	"edulearn/config"
	"edulearn/database"
	"edulearn/logger"
	"edulearn/services/settlement"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InitializeEnrollmentScheduler starts the job that refunds enrollment requests
// left pending longer than ENROLLMENT_PENDING_TTL. It returns nil when expiry is disabled.
func InitializeEnrollmentScheduler() *cron.Cron {
	cfg := config.AppConfig
	if cfg.EnrollmentPendingTTL <= 0 {
		logger.Log.Info("[ENROLLMENT-SCHEDULER] pending enrollment expiry disabled")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.EnrollmentExpiryCron, func() {
		ExpirePendingEnrollments(database.Database.Db, cfg.EnrollmentPendingTTL)
	})
	if err != nil {
		logger.Log.Error("[ENROLLMENT-SCHEDULER] invalid schedule", zap.String("spec", cfg.EnrollmentExpiryCron), zap.Error(err))
		return nil
	}

	c.Start()
	logger.Log.Info("[ENROLLMENT-SCHEDULER] started",
		zap.String("spec", cfg.EnrollmentExpiryCron),
		zap.Duration("ttl", cfg.EnrollmentPendingTTL))
	return c
}

// ExpirePendingEnrollments refunds stale requests and notifies the students.
func ExpirePendingEnrollments(db *gorm.DB, ttl time.Duration) int {
	expired, err := settlement.ExpireStale(db, ttl)
	if err != nil {
		logger.Log.Error("[ENROLLMENT-SCHEDULER] some enrollments could not be expired", zap.Int("expired", len(expired)), zap.Error(err))
	}

	for _, o := range expired {
		txn := o.Transaction
		SendEnrollmentRejectedEmail(txn.UserEmail, txn.UserName, txn.CourseName, txn.TotalAmount, true)
	}

	if len(expired) > 0 {
		logger.Log.Info("[ENROLLMENT-SCHEDULER] expired pending enrollments", zap.Int("count", len(expired)))
	}
	return len(expired)
}
