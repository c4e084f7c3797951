package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"
)

// ListLogs returns the audit trail, newest first. Log rows are written only
// by the store-side triggers.
func (s *Store) ListLogs(ctx context.Context) *Response {
	conn, opCtx, cancel, err := s.acquire(ctx, s.pool)
	if err != nil {
		return connFailure("list_logs", err)
	}
	defer cancel()
	defer conn.Close()

	rows, err := conn.QueryContext(opCtx, `
		SELECT log_id, user_id, action_type, action_time
		FROM logs ORDER BY log_id DESC
	`)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to get logs")
		return Failure("Failed to get logs: %v", err)
	}
	defer rows.Close()

	logs := make([]LogRecord, 0)
	for rows.Next() {
		var (
			rec    LogRecord
			userID sql.NullInt64
		)
		if err := rows.Scan(&rec.LogID, &userID, &rec.ActionType, &rec.ActionTime); err != nil {
			log.Warn().Err(err).Msg("Failed to scan log row")
			return Failure("Failed to get logs: %v", err)
		}
		rec.UserID = nullInt64ToPtr(userID)
		logs = append(logs, rec)
	}
	if err := rows.Err(); err != nil {
		return Failure("Failed to get logs: %v", err)
	}

	return OKData(logs, "Logs fetched successfully.")
}

// PruneLogs deletes audit rows older than the retention window and returns
// how many were removed. Internal maintenance, not part of the envelope
// surface; the cron job decides what to do with the error.
func (s *Store) PruneLogs(ctx context.Context, olderThan time.Duration) (int64, error) {
	conn, opCtx, cancel, err := s.acquire(ctx, s.pool)
	if err != nil {
		return 0, err
	}
	defer cancel()
	defer conn.Close()

	cutoff := time.Now().Add(-olderThan)
	result, err := conn.ExecContext(opCtx, "DELETE FROM logs WHERE action_time < ?", cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
