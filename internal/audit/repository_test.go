package audit

import (
	"context"
	"testing"
	"time"

	"github.com/nerrad567/sensor-monitor-core/internal/infrastructure/database"
	"github.com/nerrad567/sensor-monitor-core/migrations"
)

func setupTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := database.Open(database.Config{Path: database.MemoryPath})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background(), migrations.FS); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return NewSQLiteRepository(db.DB)
}

func TestSQLiteRepository_CreateList(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	entries := []*AuditLog{
		{Action: ActionCreate, EntityType: "sensor", EntityID: "s-1", Principal: "alice", Source: "api", CreatedAt: base},
		{Action: ActionPatch, EntityType: "sensor", EntityID: "s-1", Principal: "alice", Source: "api",
			Details: map[string]any{"fields": []any{"rangeFrom"}}, CreatedAt: base.Add(500 * time.Millisecond)},
		{Action: ActionDelete, EntityType: "type", EntityID: "HUMIDITY", Principal: "bob", Source: "api", CreatedAt: base.Add(time.Second)},
	}
	for _, e := range entries {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if e.ID == "" {
			t.Error("Create() did not assign an id")
		}
	}

	all, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if all.Total != 3 || len(all.Logs) != 3 || all.Limit != defaultLimit {
		t.Fatalf("List() = total %d, %d logs, limit %d", all.Total, len(all.Logs), all.Limit)
	}
	if all.Logs[0].Action != ActionDelete || all.Logs[1].Action != ActionPatch {
		t.Errorf("order = %s, %s, %s; want most recent first",
			all.Logs[0].Action, all.Logs[1].Action, all.Logs[2].Action)
	}
	if got := all.Logs[1].Details["fields"]; got == nil {
		t.Errorf("details not restored: %+v", all.Logs[1].Details)
	}
	if !all.Logs[1].CreatedAt.Equal(base.Add(500 * time.Millisecond)) {
		t.Errorf("CreatedAt = %v", all.Logs[1].CreatedAt)
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"by entity", Filter{EntityType: "sensor", EntityID: "s-1"}, 2},
		{"by principal", Filter{Principal: "bob"}, 1},
		{"by action and type", Filter{Action: ActionCreate, EntityType: "type"}, 0},
		{"paged", Filter{Limit: 1, Offset: 2}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(res.Logs) != tt.want {
				t.Errorf("len(Logs) = %d, want %d", len(res.Logs), tt.want)
			}
		})
	}
}

func TestSQLiteRepository_ListClampsLimit(t *testing.T) {
	repo := setupTestRepo(t)

	res, err := repo.List(context.Background(), Filter{Limit: 10_000, Offset: -5})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if res.Limit != maxLimit || res.Offset != 0 {
		t.Errorf("Limit=%d Offset=%d, want %d and 0", res.Limit, res.Offset, maxLimit)
	}
	if res.Logs == nil {
		t.Error("Logs should be an empty slice, not nil")
	}
}
