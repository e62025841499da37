// Package catalog persists a journal of conversion runs in SQLite so batch
// outcomes stay queryable after the process exits.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JVHannila/MoBI-project/pkg/utils"
)

const DefaultDBFile = "mobi-catalog.sqlite3"
const errClientNil = "catalog client is nil"

// BatchRun is one invocation of the batch pipeline.
type BatchRun struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	StartedAt  time.Time
	FinishedAt *time.Time
	Attempted  int
	Succeeded  int
	Failed     int
}

// Conversion is the recorded outcome of one source file inside a run.
type Conversion struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	RunID       string `gorm:"type:varchar(36);index:idx_run"`
	Subject     string `gorm:"index:idx_subject_task,priority:1"`
	Session     string
	Task        string `gorm:"index:idx_subject_task,priority:2"`
	SourceFile  string
	Status      string `gorm:"index:idx_status"`
	NumChannels int
	NumSamples  int
	DurationSec float64
	ErrorText   string
	CreatedAt   time.Time
}

// Client wraps the gorm handle for the journal database.
type Client struct {
	DB *gorm.DB
	db *sql.DB
}

// Open creates or opens the journal database at dbPath and migrates the
// schema.
func Open(dbPath string) (*Client, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := utils.MakeDir(dir); err != nil {
			return nil, fmt.Errorf("creating catalog dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&BatchRun{}, &Conversion{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Client{DB: db, db: sqlDB}, nil
}

// Close releases the database handle.
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// BeginRun registers a new batch run and returns its identifier.
func (c *Client) BeginRun() (string, error) {
	if c == nil || c.DB == nil {
		return "", errors.New(errClientNil)
	}
	run := BatchRun{ID: utils.GenerateUUID(), StartedAt: time.Now()}
	if err := c.DB.Create(&run).Error; err != nil {
		return "", fmt.Errorf("creating batch run: %w", err)
	}
	return run.ID, nil
}

// FinishRun stamps the run's end time and final counters.
func (c *Client) FinishRun(runID string, attempted, succeeded, failed int) error {
	if c == nil || c.DB == nil {
		return errors.New(errClientNil)
	}
	now := time.Now()
	return c.DB.Model(&BatchRun{}).Where("id = ?", runID).Updates(map[string]any{
		"finished_at": &now,
		"attempted":   attempted,
		"succeeded":   succeeded,
		"failed":      failed,
	}).Error
}

// RecordConversion appends one per-file outcome to the journal.
func (c *Client) RecordConversion(conv Conversion) (string, error) {
	if c == nil || c.DB == nil {
		return "", errors.New(errClientNil)
	}
	if conv.ID == "" {
		conv.ID = utils.GenerateUUID()
	}
	if err := c.DB.Create(&conv).Error; err != nil {
		return "", fmt.Errorf("recording conversion: %w", err)
	}
	return conv.ID, nil
}

// Conversions returns every outcome recorded for a run, oldest first.
func (c *Client) Conversions(runID string) ([]Conversion, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errClientNil)
	}
	var convs []Conversion
	err := c.DB.Where("run_id = ?", runID).Order("created_at asc").Find(&convs).Error
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	return convs, nil
}

// Run returns one batch run by identifier.
func (c *Client) Run(runID string) (*BatchRun, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errClientNil)
	}
	var run BatchRun
	if err := c.DB.Where("id = ?", runID).First(&run).Error; err != nil {
		return nil, fmt.Errorf("querying batch run: %w", err)
	}
	return &run, nil
}
