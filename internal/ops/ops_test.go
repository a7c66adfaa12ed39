package ops

import (
	"database/sql"
	"testing"

	"nanopack/internal/db"
)

// initTestDB creates a temporary database for ops tests.
func initTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func intPtr(n int) *int { return &n }

func TestCleanIDs(t *testing.T) {
	got := cleanIDs([]string{" 01A ", "", "01B", "  "})
	want := []string{"01A", "01B"}
	if len(got) != len(want) {
		t.Fatalf("cleanIDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cleanIDs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGenerateULID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := generateULID()
		if err != nil {
			t.Fatalf("generateULID failed: %v", err)
		}
		if len(id) != 26 {
			t.Fatalf("id length = %d, want 26", len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
