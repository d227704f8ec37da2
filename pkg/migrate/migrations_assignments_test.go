package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAssignmentsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_order_assignments.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no order assignments migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS order_assignments",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"FOREIGN KEY (partner_id) REFERENCES users(id) ON DELETE CASCADE",
		"uq_order_assignments_active_order",
		"uq_order_assignments_active_partner",
		"WHERE status IN ('assigned', 'accepted', 'picked_up', 'in_transit')",
		"WHERE status IN ('picked_up', 'in_transit')",
		"DROP TABLE IF EXISTS order_assignments",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
