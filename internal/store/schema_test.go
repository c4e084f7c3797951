package store

import (
	"context"
	"strings"
	"testing"
)

func TestSplitStatements_KeepsTriggerBodiesIntact(t *testing.T) {
	script := `
CREATE TABLE logs (
    log_id INT AUTO_INCREMENT PRIMARY KEY
);

-- rebuild the insert trigger
DROP TRIGGER IF EXISTS users_after_insert;

CREATE TRIGGER users_after_insert
AFTER INSERT ON users
FOR EACH ROW
BEGIN
    INSERT INTO logs (user_id, action_type) VALUES (NEW.id, 'INSERT');
END;
`

	statements := splitStatements(script)
	if len(statements) != 3 {
		t.Fatalf("expected 3 statements, got %d: %q", len(statements), statements)
	}

	trigger := statements[2]
	if !strings.HasPrefix(trigger, "CREATE TRIGGER") {
		t.Fatalf("expected trigger statement last, got %q", trigger)
	}
	if !strings.Contains(trigger, "BEGIN") || !strings.Contains(trigger, "END;") {
		t.Fatalf("trigger body was split apart: %q", trigger)
	}
	if strings.Contains(statements[0], "TRIGGER") {
		t.Fatalf("table statement absorbed trigger DDL: %q", statements[0])
	}
}

func TestSplitStatements_SkipsCommentsAndBlankLines(t *testing.T) {
	script := "-- leading comment\n\nSELECT 1;\n\n-- trailing comment\n"
	statements := splitStatements(script)
	if len(statements) != 1 || statements[0] != "SELECT 1;" {
		t.Fatalf("unexpected statements: %q", statements)
	}
}

func TestSplitStatements_KeepsTrailingStatementWithoutSemicolon(t *testing.T) {
	statements := splitStatements("SELECT 1;\nSELECT 2")
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(statements), statements)
	}
	if statements[1] != "SELECT 2" {
		t.Fatalf("unexpected trailing statement: %q", statements[1])
	}
}

func TestLogSchemaScript_SplitsIntoStandaloneStatements(t *testing.T) {
	statements := splitStatements(logSchemaScript)
	// users table, logs table, three drop/create trigger pairs.
	if len(statements) != 8 {
		t.Fatalf("expected 8 statements, got %d", len(statements))
	}

	var triggers int
	for _, stmt := range statements {
		if strings.HasPrefix(stmt, "CREATE TRIGGER") {
			triggers++
			if !strings.Contains(stmt, "END;") {
				t.Fatalf("trigger statement truncated: %q", stmt)
			}
		}
	}
	if triggers != 3 {
		t.Fatalf("expected 3 trigger statements, got %d", triggers)
	}
}

func TestInitDatabase_ConnectionFailure(t *testing.T) {
	st := newClosedStore(t)

	resp := st.InitDatabase(context.Background())
	if resp.Success {
		t.Fatal("expected failure on closed pool")
	}
	if !strings.HasPrefix(resp.Message, "Database connection failed") {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestInitLogSchema_ConnectionFailure(t *testing.T) {
	st := newClosedStore(t)

	resp := st.InitLogSchema(context.Background())
	if resp.Success {
		t.Fatal("expected failure on closed pool")
	}
	if !strings.HasPrefix(resp.Message, "Database connection failed") {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}
