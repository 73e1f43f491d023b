package database

import (
	"strings"
	"testing"
)

func TestStatements_SplitsEmbeddedSchema(t *testing.T) {
	stmts := statements(schema)
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	for i, table := range []string{"users", "trains", "bookings"} {
		if !strings.HasPrefix(stmts[i], "CREATE TABLE IF NOT EXISTS "+table+" ") {
			t.Errorf("statement %d should create %s, got %q", i+1, table, stmts[i][:40])
		}
	}
}

func TestSchema_RouteAndUsernameColumnsAreCaseSensitive(t *testing.T) {
	if n := strings.Count(schema, "COLLATE utf8mb4_bin"); n != 5 {
		t.Errorf("expected binary collation on username and 4 route columns, found %d", n)
	}
	if !strings.Contains(schema, "username        VARCHAR(64)  CHARACTER SET utf8mb4 COLLATE utf8mb4_bin") {
		t.Error("username must compare case-sensitively")
	}
}

func TestStatements_IgnoresBlanks(t *testing.T) {
	stmts := statements("SELECT 1;\n\n ;SELECT 2;")
	if len(stmts) != 2 || stmts[1] != "SELECT 2" {
		t.Errorf("unexpected split: %#v", stmts)
	}
}
