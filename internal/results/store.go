// Package results keeps finished battle outcomes in SQLite.
package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"legionsim/internal/combat"
)

var ErrClosed = errors.New("results store closed")

// BattleRecord is one finished run. RunID groups the runs of one batch.
type BattleRecord struct {
	ID          uuid.UUID `gorm:"type:text;primaryKey"`
	RunID       uuid.UUID `gorm:"type:text;index"`
	Scenario    string    `gorm:"index"`
	Seed        int64
	Winner      string
	Decided     bool
	Ticks       uint64
	RedAlive    int
	BlueAlive   int
	Engagements int
	CreatedAt   time.Time `gorm:"index"`
}

// NewRecord summarises a result. The ID is assigned on Save.
func NewRecord(runID uuid.UUID, scenario string, seed int64, res combat.SimResult) BattleRecord {
	return BattleRecord{
		RunID:       runID,
		Scenario:    scenario,
		Seed:        seed,
		Winner:      res.Winner,
		Decided:     res.Decided,
		Ticks:       res.Ticks,
		RedAlive:    res.Survivors[combat.TeamRed.String()],
		BlueAlive:   res.Survivors[combat.TeamBlue.String()],
		Engagements: res.Engagements,
	}
}

type Store struct {
	db *gorm.DB
}

// Open opens or creates the database at path and migrates it. An empty path
// gives a private in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// every new connection to :memory: would see an empty database
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	if err := db.AutoMigrate(&BattleRecord{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate results db: %w", err)
	}
	return &Store{db: db}, nil
}

// Save inserts rec, filling in its ID when unset.
func (s *Store) Save(ctx context.Context, rec *BattleRecord) error {
	if s.db == nil {
		return ErrClosed
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("save battle %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns up to n records, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]BattleRecord, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	var out []BattleRecord
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(n).Find(&out).Error
	return out, err
}

// Tally counts the winners of every stored run of a scenario.
type Tally struct {
	Runs       int            `json:"runs"`
	Wins       map[string]int `json:"wins"`
	Stalemates int            `json:"stalemates"`
}

// Rate is the share of runs the team won.
func (t Tally) Rate(team string) float64 {
	if t.Runs == 0 {
		return 0
	}
	return float64(t.Wins[team]) / float64(t.Runs)
}

func (s *Store) WinRates(ctx context.Context, scenario string) (Tally, error) {
	tally := Tally{Wins: map[string]int{}}
	if s.db == nil {
		return tally, ErrClosed
	}
	var rows []struct {
		Winner string
		N      int
	}
	err := s.db.WithContext(ctx).Model(&BattleRecord{}).
		Select("winner, count(*) AS n").
		Where("scenario = ?", scenario).
		Group("winner").
		Scan(&rows).Error
	if err != nil {
		return tally, err
	}
	for _, r := range rows {
		tally.Runs += r.N
		if r.Winner == "" || r.Winner == "none" {
			tally.Stalemates += r.N
			continue
		}
		tally.Wins[r.Winner] = r.N
	}
	return tally, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
