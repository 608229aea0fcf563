package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loopcycle/loopcycle-backend/pkg/migrate"
)

func TestAssignmentsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_assignments.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no assignments migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS assignments",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_assignments_request_active",
		"ON assignments(request_id) WHERE is_active",
		"FOREIGN KEY (request_id) REFERENCES pickup_requests(id) ON DELETE CASCADE",
		"CHECK (status IN ('assigned', 'in_progress', 'completed', 'rejected'))",
		"DROP TABLE IF EXISTS assignments",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}
