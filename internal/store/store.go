// Package store is the persistence collaborator around the scheduling
// core: it loads project snapshots and writes computed results back.
// The core itself never touches it.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/planloom/planloom/internal/model"
)

// Store wraps the SQLite database holding tasks, edges and findings.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path and migrates the
// schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Task{},
		&model.DependencyEdge{},
		&model.ConflictFinding{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ImportProject upserts a project's tasks and replaces its dependency
// edges in one transaction.
func (s *Store) ImportProject(projectID string, tasks []model.Task, edges []model.DependencyEdge) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if len(tasks) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&tasks).Error; err != nil {
				return fmt.Errorf("upsert tasks: %w", err)
			}
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&model.DependencyEdge{}).Error; err != nil {
			return fmt.Errorf("clear edges: %w", err)
		}
		if len(edges) > 0 {
			if err := tx.Create(&edges).Error; err != nil {
				return fmt.Errorf("insert edges: %w", err)
			}
		}
		return nil
	})
}

// LoadProject returns a project's tasks and dependency edges.
func (s *Store) LoadProject(projectID string) ([]model.Task, []model.DependencyEdge, error) {
	var tasks []model.Task
	if err := s.db.Where("project_id = ?", projectID).Order("wbs, id").Find(&tasks).Error; err != nil {
		return nil, nil, fmt.Errorf("load tasks: %w", err)
	}
	var edges []model.DependencyEdge
	if err := s.db.Where("project_id = ?", projectID).Find(&edges).Error; err != nil {
		return nil, nil, fmt.Errorf("load edges: %w", err)
	}
	return tasks, edges, nil
}

// SaveSchedule persists only the scheduler-derived fields of each task.
// User-editable fields are never written here, so a concurrent edit and
// a scheduling run cannot clobber each other's columns.
func (s *Store) SaveSchedule(tasks []model.Task) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range tasks {
			err := tx.Model(&model.Task{}).
				Where("id = ?", tasks[i].ID).
				Select("early_start", "early_finish", "late_start", "late_finish", "slack", "is_critical").
				Updates(map[string]any{
					"early_start":  tasks[i].EarlyStart,
					"early_finish": tasks[i].EarlyFinish,
					"late_start":   tasks[i].LateStart,
					"late_finish":  tasks[i].LateFinish,
					"slack":        tasks[i].Slack,
					"is_critical":  tasks[i].IsCritical,
				}).Error
			if err != nil {
				return fmt.Errorf("save schedule for %s: %w", tasks[i].ID, err)
			}
		}
		return nil
	})
}

// ReplaceFindings atomically swaps a project's conflict findings for a
// fresh detection run's output.
func (s *Store) ReplaceFindings(projectID string, findings []model.ConflictFinding) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&model.ConflictFinding{}).Error; err != nil {
			return fmt.Errorf("clear findings: %w", err)
		}
		if len(findings) > 0 {
			if err := tx.Create(&findings).Error; err != nil {
				return fmt.Errorf("insert findings: %w", err)
			}
		}
		return nil
	})
}

// Findings returns a project's stored conflict findings.
func (s *Store) Findings(projectID string) ([]model.ConflictFinding, error) {
	var findings []model.ConflictFinding
	err := s.db.Where("project_id = ?", projectID).Order("type, severity, task_a_id").Find(&findings).Error
	if err != nil {
		return nil, fmt.Errorf("load findings: %w", err)
	}
	return findings, nil
}

// ResolveFinding marks a finding resolved with the user's note.
func (s *Store) ResolveFinding(findingID, note string) error {
	res := s.db.Model(&model.ConflictFinding{}).
		Where("id = ?", findingID).
		Updates(map[string]any{
			"status":          model.FindingResolved,
			"resolution_note": note,
		})
	if res.Error != nil {
		return fmt.Errorf("resolve finding: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("finding %s not found", findingID)
	}
	return nil
}
