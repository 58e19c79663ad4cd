// Package persistence is the local snapshot adapter: a selective
// save/restore of engine state across process restarts, backed by an
// embedded BadgerDB. Pipelines, export jobs and comments are ephemeral by
// design and never written here.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/domain"
)

// Snapshot is the persisted subset of engine state.
type Snapshot struct {
	Widgets       []domain.Widget           `json:"widgets"`
	ActiveLayout  string                    `json:"activeLayoutId"`
	ActiveTheme   string                    `json:"activeThemeId"`
	Settings      domain.DashboardSettings  `json:"settings"`
	Layouts       []domain.Layout           `json:"layouts"`
	Themes        []domain.Theme            `json:"themes"`
	Goals         []domain.Goal             `json:"goals"`
}

// Section keys inside the badger keyspace.
const (
	keyWidgets      = "snapshot/widgets"
	keyActiveLayout = "snapshot/active_layout"
	keyActiveTheme  = "snapshot/active_theme"
	keySettings     = "snapshot/settings"
	keyLayouts      = "snapshot/layouts"
	keyThemes       = "snapshot/themes"
	keyGoals        = "snapshot/goals"
)

// Store is a badger-backed snapshot store.
type Store struct {
	db     *badger.DB
	logger *zap.Logger
}

// Open opens (or creates) the snapshot database at path. An empty path
// opens an in-memory database, used in tests.
func Open(path string, logger *zap.Logger) (*Store, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the snapshot, one key per section, in a single transaction.
func (s *Store) Save(snap *Snapshot) error {
	sections := []struct {
		key   string
		value any
	}{
		{keyWidgets, snap.Widgets},
		{keyActiveLayout, snap.ActiveLayout},
		{keyActiveTheme, snap.ActiveTheme},
		{keySettings, snap.Settings},
		{keyLayouts, snap.Layouts},
		{keyThemes, snap.Themes},
		{keyGoals, snap.Goals},
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for _, section := range sections {
			raw, err := json.Marshal(section.value)
			if err != nil {
				return fmt.Errorf("marshal %s: %w", section.key, err)
			}
			if err := txn.Set([]byte(section.key), raw); err != nil {
				return fmt.Errorf("set %s: %w", section.key, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to save snapshot", zap.Error(err))
		return err
	}
	return nil
}

// Load reads the snapshot. The boolean is false when no snapshot has ever
// been written.
func (s *Store) Load() (*Snapshot, bool, error) {
	snap := &Snapshot{}
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		read := func(key string, dest any) error {
			item, err := txn.Get([]byte(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("get %s: %w", key, err)
			}
			found = true
			return item.Value(func(val []byte) error {
				if err := json.Unmarshal(val, dest); err != nil {
					return fmt.Errorf("unmarshal %s: %w", key, err)
				}
				return nil
			})
		}

		if err := read(keyWidgets, &snap.Widgets); err != nil {
			return err
		}
		if err := read(keyActiveLayout, &snap.ActiveLayout); err != nil {
			return err
		}
		if err := read(keyActiveTheme, &snap.ActiveTheme); err != nil {
			return err
		}
		if err := read(keySettings, &snap.Settings); err != nil {
			return err
		}
		if err := read(keyLayouts, &snap.Layouts); err != nil {
			return err
		}
		if err := read(keyThemes, &snap.Themes); err != nil {
			return err
		}
		return read(keyGoals, &snap.Goals)
	})
	if err != nil {
		return nil, false, err
	}
	return snap, found, nil
}
