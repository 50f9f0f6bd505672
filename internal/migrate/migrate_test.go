package migrate

import (
	"context"
	"database/sql"
	"reflect"
	"testing"
	"testing/fstest"

	_ "github.com/tursodatabase/go-libsql"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("libsql", "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSplitSQL(t *testing.T) {
	got := SplitSQL("CREATE TABLE a (x INT);\n\n  DROP TABLE b ;  ;")
	want := []string{"CREATE TABLE a (x INT)", "DROP TABLE b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitSQL = %q, want %q", got, want)
	}
}

func TestLoadFrom_SortsAndPairsDown(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.up.sql":  {Data: []byte("B")},
		"001_first.up.sql":   {Data: []byte("A")},
		"001_first.down.sql": {Data: []byte("-A")},
		"README.md":          {Data: []byte("ignored")},
		"003_third.down.sql": {Data: []byte("orphan")},
	}

	got, err := loadFrom(fsys)
	if err != nil {
		t.Fatalf("loadFrom failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(got))
	}
	if got[0].Version != 1 || got[0].Name != "first" || got[0].DownSQL != "-A" {
		t.Errorf("first migration = %+v", got[0])
	}
	if got[1].Version != 2 || got[1].DownSQL != "" {
		t.Errorf("second migration = %+v", got[1])
	}
}

func TestPlan(t *testing.T) {
	all := []Migration{
		{Version: 1, DownSQL: "d1"},
		{Version: 2, DownSQL: "d2"},
		{Version: 3},
	}
	versions := func(steps []Step) []int {
		var out []int
		for _, st := range steps {
			v := st.Migration.Version
			if !st.Up {
				v = -v
			}
			out = append(out, v)
		}
		return out
	}

	tests := []struct {
		name    string
		current int
		target  int
		want    []int
		wantErr bool
	}{
		{"all pending", 0, 3, []int{1, 2, 3}, false},
		{"partial up", 1, 2, []int{2}, false},
		{"at target", 2, 2, nil, false},
		{"down", 2, 0, []int{-2, -1}, false},
		{"missing down script", 3, 1, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := Plan(all, tt.current, tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Plan error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := versions(steps); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Plan(%d, %d) = %v, want %v", tt.current, tt.target, got, tt.want)
			}
		})
	}
	if Latest(all) != 3 || Latest(nil) != 0 {
		t.Error("Latest returned the wrong version")
	}
}

func TestLoadMigrations_Embedded(t *testing.T) {
	all, err := LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations failed: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("expected embedded migrations")
	}
	for i, m := range all {
		if m.Version != i+1 {
			t.Errorf("migration %d has version %d, versions must be contiguous", i, m.Version)
		}
		if m.DownSQL == "" {
			t.Errorf("migration %d_%s has no down script", m.Version, m.Name)
		}
	}
}

func TestRunAll_UpAndDown(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	if err := RunAll(ctx, db); err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}

	all, _ := LoadMigrations()
	version, dirty, err := GetCurrentVersion(ctx, db)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if dirty || version != all[len(all)-1].Version {
		t.Fatalf("version=%d dirty=%v after RunAll", version, dirty)
	}

	// Running again is a no-op.
	if err := RunAll(ctx, db); err != nil {
		t.Fatalf("second RunAll failed: %v", err)
	}

	steps, err := Plan(all, version, 0)
	if err != nil {
		t.Fatalf("Plan(0) failed: %v", err)
	}
	if err := Apply(ctx, db, steps); err != nil {
		t.Fatalf("Apply down failed: %v", err)
	}
	version, _, _ = GetCurrentVersion(ctx, db)
	if version != 0 {
		t.Errorf("expected version 0 after full rollback, got %d", version)
	}
}
