package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// logSchemaScript creates the users relation, the audit-log table and the
// three row-level triggers that feed it. The script is split into individual
// statements before execution; the server rejects multi-statement batches.
// Trigger DDL is rebuilt drop-then-create so body changes take effect, and
// the logs CREATE TABLE relies on the already-exists error being mapped to
// success.
const logSchemaScript = `
CREATE TABLE IF NOT EXISTS users (
    id INT AUTO_INCREMENT PRIMARY KEY,
    username VARCHAR(64) NOT NULL UNIQUE,
    host VARCHAR(255) NOT NULL DEFAULT 'localhost',
    password_hash VARCHAR(255) NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE logs (
    log_id INT AUTO_INCREMENT PRIMARY KEY,
    user_id INT,
    action_type ENUM('INSERT', 'UPDATE', 'DELETE'),
    action_time TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

DROP TRIGGER IF EXISTS users_after_insert;

CREATE TRIGGER users_after_insert
AFTER INSERT ON users
FOR EACH ROW
BEGIN
    INSERT INTO logs (user_id, action_type) VALUES (NEW.id, 'INSERT');
END;

DROP TRIGGER IF EXISTS users_after_update;

CREATE TRIGGER users_after_update
AFTER UPDATE ON users
FOR EACH ROW
BEGIN
    INSERT INTO logs (user_id, action_type) VALUES (NEW.id, 'UPDATE');
END;

DROP TRIGGER IF EXISTS users_after_delete;

CREATE TRIGGER users_after_delete
AFTER DELETE ON users
FOR EACH ROW
BEGIN
    INSERT INTO logs (user_id, action_type) VALUES (OLD.id, 'DELETE');
END;
`

// InitDatabase ensures the target database exists. Create-if-absent: an
// already-exists conflict is success. Runs on the schema-less pool.
func (s *Store) InitDatabase(ctx context.Context) *Response {
	conn, opCtx, cancel, err := s.acquire(ctx, s.admin)
	if err != nil {
		return connFailure("init_database", err)
	}
	defer cancel()
	defer conn.Close()

	stmt := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", s.dbName)
	if _, err := conn.ExecContext(opCtx, stmt); err != nil {
		if isIdempotentConflict(err) {
			return OK("Database %s already exists.", s.dbName)
		}
		log.Warn().Err(err).Str("database", s.dbName).Msg("Failed to create database")
		return Failure("Failed to create database %s: %v", s.dbName, err)
	}

	log.Info().Str("database", s.dbName).Msg("Database ensured")
	return OK("Database %s created or already exists.", s.dbName)
}

// InitLogSchema ensures the log table and the users triggers exist.
// Statements run in sequence; already-exists conflicts are skipped. DDL is
// not transactional here, so a failure partway through leaves earlier
// statements applied and is reported as-is.
func (s *Store) InitLogSchema(ctx context.Context) *Response {
	conn, opCtx, cancel, err := s.acquire(ctx, s.pool)
	if err != nil {
		return connFailure("init_log_schema", err)
	}
	defer cancel()
	defer conn.Close()

	statements := splitStatements(logSchemaScript)
	for i, stmt := range statements {
		if _, err := conn.ExecContext(opCtx, stmt); err != nil {
			if isIdempotentConflict(err) {
				log.Debug().Int("statement", i+1).Msg("Schema object already exists, skipping")
				continue
			}
			log.Warn().Err(err).Int("statement", i+1).Msg("Failed to initialize log schema")
			return Failure("Failed to initialize log schema (statement %d of %d): %v", i+1, len(statements), err)
		}
	}

	log.Info().Int("statements", len(statements)).Msg("Log table and triggers ensured")
	return OK("Log table and triggers initialized successfully.")
}

// splitStatements splits a SQL script into individually executable
// statements. Lines are accumulated until a terminating semicolon outside a
// BEGIN...END block; comments and blank lines are dropped.
func splitStatements(script string) []string {
	var statements []string
	var current strings.Builder
	depth := 0

	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		upper := strings.ToUpper(trimmed)
		if strings.HasSuffix(upper, "BEGIN") {
			depth++
			continue
		}
		if !strings.HasSuffix(upper, ";") {
			continue
		}
		if strings.HasSuffix(upper, "END;") && depth > 0 {
			depth--
		}
		if depth == 0 {
			stmt := strings.TrimSpace(current.String())
			if stmt != "" && stmt != ";" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	if remaining := strings.TrimSpace(current.String()); remaining != "" {
		statements = append(statements, remaining)
	}

	return statements
}
