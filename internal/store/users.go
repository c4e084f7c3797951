package store

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the bcrypt cost factor for stored credentials.
const bcryptCost = 12

// ListUsers returns every user row as the envelope's data. No pagination,
// no filtering.
func (s *Store) ListUsers(ctx context.Context) *Response {
	conn, opCtx, cancel, err := s.acquire(ctx, s.pool)
	if err != nil {
		return connFailure("list_users", err)
	}
	defer cancel()
	defer conn.Close()

	rows, err := conn.QueryContext(opCtx, "SELECT username, host FROM users ORDER BY id")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to get users")
		return Failure("Failed to get users: %v", err)
	}
	defer rows.Close()

	users := make([]UserRecord, 0)
	for rows.Next() {
		var u UserRecord
		if err := rows.Scan(&u.Username, &u.Host); err != nil {
			log.Warn().Err(err).Msg("Failed to scan user row")
			return Failure("Failed to get users: %v", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return Failure("Failed to get users: %v", err)
	}

	return OKData(users, "Users fetched successfully.")
}

// AddUser inserts a new user with a bcrypt-hashed credential. Both fields
// are required; validation failures never reach the store. The insert runs
// in a transaction with commit/rollback symmetry.
func (s *Store) AddUser(ctx context.Context, username, password string) *Response {
	if username == "" || password == "" {
		return Failure("Missing required fields: username and/or password.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return Failure("Failed to hash password: %v", err)
	}

	conn, opCtx, cancel, err := s.acquire(ctx, s.pool)
	if err != nil {
		return connFailure("add_user", err)
	}
	defer cancel()
	defer conn.Close()

	tx, err := conn.BeginTx(opCtx, nil)
	if err != nil {
		return connFailure("add_user", err)
	}

	_, err = tx.ExecContext(opCtx, `
		INSERT INTO users (username, host, password_hash)
		VALUES (?, ?, ?)
	`, username, DefaultHost, string(hash))
	if err != nil {
		_ = tx.Rollback()
		log.Warn().Err(err).Str("username", username).Msg("Failed to add user")
		return Failure("Failed to add user %s: %v", username, err)
	}

	if err := tx.Commit(); err != nil {
		return Failure("Failed to add user %s: %v", username, err)
	}

	log.Info().Str("username", username).Msg("User added")
	return OK("User %s added successfully", username)
}

// DeleteUser removes a user row by id. The operation is an attempted
// delete: zero rows matched is still success, so repeated calls with the
// same id succeed every time.
func (s *Store) DeleteUser(ctx context.Context, id int64) *Response {
	if id <= 0 {
		return Failure("Missing required field: id.")
	}

	conn, opCtx, cancel, err := s.acquire(ctx, s.pool)
	if err != nil {
		return connFailure("delete_user", err)
	}
	defer cancel()
	defer conn.Close()

	tx, err := conn.BeginTx(opCtx, nil)
	if err != nil {
		return connFailure("delete_user", err)
	}

	result, err := tx.ExecContext(opCtx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		_ = tx.Rollback()
		log.Warn().Err(err).Int64("id", id).Msg("Failed to delete user")
		return Failure("Failed to delete user %d: %v", id, err)
	}

	if err := tx.Commit(); err != nil {
		return Failure("Failed to delete user %d: %v", id, err)
	}

	affected, _ := result.RowsAffected()
	log.Info().Int64("id", id).Int64("rows", affected).Msg("Attempted user delete")
	return OK("Attempted to delete user %d.", id)
}
