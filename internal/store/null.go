package store

import "database/sql"

// nullInt64ToPtr converts a sql.NullInt64 to a pointer (nil if not valid)
func nullInt64ToPtr(n sql.NullInt64) *int64 {
	if n.Valid {
		return &n.Int64
	}
	return nil
}
