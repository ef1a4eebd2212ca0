package inmemdb

import (
	"context"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/setting"
)

// settingRepository keys its table by setting key.
type settingRepository struct {
	db *table[setting.Setting]
}

var _ setting.Repository = (*settingRepository)(nil) // interface compliance check

func NewSettingRepository(db *DB) *settingRepository {
	return &settingRepository{db: db.settings}
}

func (repo *settingRepository) GetSetting(_ context.Context, key string, _ ...core.DBExecutor) (setting.Setting, error) {
	if s, ok := repo.db.get(key); ok {
		return s, nil
	}
	return setting.Setting{}, setting.ErrNotFound
}

func (repo *settingRepository) ListSettings(_ context.Context, _ ...core.DBExecutor) ([]setting.Setting, error) {
	return repo.db.filter(nil, func(a, b setting.Setting) bool { return a.Key < b.Key }), nil
}

func (repo *settingRepository) UpsertSetting(_ context.Context, s setting.Setting, _ ...core.DBExecutor) (setting.Setting, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if existing, ok := repo.db.rows[s.Key]; ok {
		existing.Value = s.Value
		existing.UpdatedAt = s.UpdatedAt
		if s.Description != nil {
			existing.Description = s.Description
		}
		repo.db.rows[s.Key] = existing
		return existing, nil
	}
	if s.ID == "" {
		s.ID = newID()
	}
	repo.db.next++
	repo.db.seq[s.Key] = repo.db.next
	repo.db.rows[s.Key] = s
	return s, nil
}
