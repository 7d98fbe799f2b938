package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/scholarity/scholarity-api/model"
	"github.com/scholarity/scholarity-api/utils/auth"
)

// auditRetention is how long admin audit entries are kept
const auditRetention = 180 * 24 * time.Hour

// CleanupExpiredTokens removes blacklist entries whose tokens have already
// expired on their own
func (m *CronManager) CleanupExpiredTokens() {
	jobName := "cleanup_expired_tokens"

	blacklist := auth.NewBlacklistService(m.db)
	removed, err := blacklist.CleanupExpiredTokens(context.Background())
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d expired blacklist entries", removed))
}

// TrimAuditLogs deletes admin audit entries older than the retention window
func (m *CronManager) TrimAuditLogs() {
	jobName := "trim_audit_logs"

	cutoff := time.Now().Add(-auditRetention)
	res := m.db.Where("created_at < ?", cutoff).Delete(&model.AdminAuditLog{})
	if res.Error != nil {
		m.logJobError(jobName, res.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d audit entries older than %s", res.RowsAffected, cutoff.Format("2006-01-02")))
}

// RecomputeCourseDurations refreshes the denormalized duration on every
// course from the sum of its lesson durations. Content edits do not update
// the total inline, this job settles the drift.
func (m *CronManager) RecomputeCourseDurations() {
	jobName := "recompute_course_durations"

	var courseIDs []uint
	if err := m.db.Model(&model.Course{}).Pluck("id", &courseIDs).Error; err != nil {
		m.logJobError(jobName, err)
		return
	}

	updated := 0
	for _, courseID := range courseIDs {
		var total int64
		err := m.db.Model(&model.Lesson{}).
			Joins("JOIN units ON units.id = lessons.unit_id").
			Where("units.course_id = ?", courseID).
			Select("COALESCE(SUM(lessons.duration), 0)").
			Scan(&total).
			Error
		if err != nil {
			m.logJobError(jobName, err)
			return
		}

		res := m.db.Model(&model.Course{}).
			Where("id = ? AND duration <> ?", courseID, total).
			Update("duration", total)
		if res.Error != nil {
			m.logJobError(jobName, res.Error)
			return
		}
		updated += int(res.RowsAffected)
	}

	m.logJobComplete(jobName, fmt.Sprintf("Recomputed durations for %d courses, %d updated", len(courseIDs), updated))
}
