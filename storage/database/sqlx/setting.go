package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/setting"
)

const settingColumns = `id, key, value, description, updated_at`

type settingRepository struct {
	base
}

var _ setting.Repository = (*settingRepository)(nil) // interface compliance check

func NewSettingRepository(db *sqlx.DB) *settingRepository {
	return &settingRepository{base{db: db}}
}

func (repo settingRepository) GetSetting(ctx context.Context, key string, exec ...core.DBExecutor) (setting.Setting, error) {
	var s setting.Setting
	err := sqlx.GetContext(ctx, repo.getExec(exec), &s, `SELECT `+settingColumns+` FROM site_settings WHERE key = $1`, key)
	if err != nil {
		return setting.Setting{}, trapNotFound(err, setting.ErrNotFound, "finding setting")
	}
	return s, nil
}

func (repo settingRepository) ListSettings(ctx context.Context, exec ...core.DBExecutor) ([]setting.Setting, error) {
	settings := make([]setting.Setting, 0)
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &settings, `SELECT `+settingColumns+` FROM site_settings ORDER BY key`); err != nil {
		return nil, errors.Wrap(err, "querying settings")
	}
	return settings, nil
}

func (repo settingRepository) UpsertSetting(ctx context.Context, s setting.Setting, exec ...core.DBExecutor) (setting.Setting, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	q := `INSERT INTO site_settings (` + settingColumns + `) VALUES (:id, :key, :value, :description, :updated_at)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at,
			description = COALESCE(EXCLUDED.description, site_settings.description)
		RETURNING ` + settingColumns

	var saved setting.Setting
	if err := repo.namedGet(ctx, repo.getExec(exec), &saved, q, s); err != nil {
		return setting.Setting{}, errors.Wrap(err, "upserting setting")
	}
	return saved, nil
}
