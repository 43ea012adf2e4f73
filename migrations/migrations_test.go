package migrations

import (
	"testing"

	"github.com/nerrad567/sensor-monitor-core/internal/infrastructure/database"
)

func TestFS_EveryUpHasDown(t *testing.T) {
	migrations, err := database.LoadMigrations(FS)
	if err != nil {
		t.Fatalf("LoadMigrations() error = %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("no migrations embedded")
	}
	for _, m := range migrations {
		if m.DownSQL == "" {
			t.Errorf("migration %s (%s) has no down SQL", m.Version, m.Name)
		}
	}
}
