package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thrushlang/thrushc/internal/config"
)

// Store wraps the manifest database: one row per compiler run, one row per
// emitted artifact.
type Store struct {
	db *gorm.DB
}

// Open connects to the sqlite manifest at dsn (a file path, or ":memory:"
// for tests), creating its directory and running migrations.
func Open(dsn string, debug bool) (*Store, error) {
	if dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create artifact manifest directory: %w", err)
			}
		}
	}

	gcfg := &gorm.Config{}
	if debug {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dsn), gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact manifest: %w", err)
	}

	if err := db.AutoMigrate(&Run{}, &Artifact{}); err != nil {
		return nil, fmt.Errorf("artifact manifest migration failed: %w", err)
	}

	return &Store{db: db}, nil
}

// BeginRun stamps a new run ID, snapshots opts as its BackendOptions
// column, and returns the run ID every subsequent RecordArtifact call
// should be tagged with.
func (s *Store) BeginRun(opts config.BackendOptions) (string, error) {
	snapshot, err := json.Marshal(opts)
	if err != nil {
		snapshot = []byte("{}")
	}

	run := Run{ID: uuid.NewString(), BackendOptions: snapshot}
	if err := s.db.Create(&run).Error; err != nil {
		return "", fmt.Errorf("BeginRun: %w", err)
	}
	return run.ID, nil
}

// RecordArtifact inserts a manifest row for one emitted file.
func (s *Store) RecordArtifact(runID, unitName string, kind Kind, path string, size int64) error {
	a := Artifact{RunID: runID, UnitName: unitName, Kind: string(kind), Path: path, Bytes: size}
	if err := s.db.Create(&a).Error; err != nil {
		return fmt.Errorf("RecordArtifact: %w", err)
	}
	return nil
}

// Clean removes every file on disk the manifest has recorded under kind,
// deletes their manifest rows, and returns the list of paths it removed.
// A file missing from disk is treated as already clean, not an error.
func (s *Store) Clean(kind Kind) ([]string, error) {
	var rows []Artifact
	if err := s.db.Where("kind = ?", string(kind)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("Clean: querying manifest: %w", err)
	}

	var removed []string
	for _, row := range rows {
		if err := os.Remove(row.Path); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("Clean: removing %q: %w", row.Path, err)
		}
		removed = append(removed, row.Path)
	}

	if err := s.db.Where("kind = ?", string(kind)).Delete(&Artifact{}).Error; err != nil {
		return removed, fmt.Errorf("Clean: pruning manifest: %w", err)
	}
	return removed, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
