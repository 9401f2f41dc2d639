package core

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dm, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"), LogLevelSilent)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := dm.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { dm.Close() })

	return dm.DB()
}
