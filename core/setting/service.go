package setting

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
)

var (
	NowFunc = time.Now // mockable

	ErrNotFound = core.NewNotFoundError(errors.New("Setting not found"))
)

type (
	Repository interface {
		GetSetting(ctx context.Context, key string, exec ...core.DBExecutor) (Setting, error)
		// ListSettings orders by key.
		ListSettings(ctx context.Context, exec ...core.DBExecutor) ([]Setting, error)
		// UpsertSetting creates the setting or overwrites the value of the one holding the same key.
		UpsertSetting(ctx context.Context, s Setting, exec ...core.DBExecutor) (Setting, error)
	}

	Service struct {
		repo Repository
		tx   core.Transactor
	}
)

func NewService(repo Repository, tx core.Transactor) *Service {
	return &Service{repo: repo, tx: tx}
}

func (svc *Service) List(ctx context.Context) ([]Setting, error) {
	return svc.repo.ListSettings(ctx)
}

func (svc *Service) Get(ctx context.Context, key string) (Setting, error) {
	return svc.repo.GetSetting(ctx, key)
}

// Upsert writes every pair atomically and returns the stored rows in input order.
func (svc *Service) Upsert(ctx context.Context, pairs ...Pair) ([]Setting, error) {
	updated := make([]Setting, 0, len(pairs))
	err := svc.tx.WithinTx(ctx, func(exec core.DBExecutor) error {
		now := NowFunc().UTC()
		for _, p := range pairs {
			s, err := svc.repo.UpsertSetting(ctx, Setting{Key: p.Key, Value: p.Value, UpdatedAt: now}, exec)
			if err != nil {
				return errors.Wrapf(err, "upserting setting %q", p.Key)
			}
			updated = append(updated, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Bool reads key as a boolean; a missing or malformed value is false.
func (svc *Service) Bool(ctx context.Context, key string) (bool, error) {
	s, err := svc.repo.GetSetting(ctx, key)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	b, err := strconv.ParseBool(core.CleanString(s.Value))
	return err == nil && b, nil
}

func (svc *Service) ResultsReleased(ctx context.Context) (bool, error) {
	return svc.Bool(ctx, KeyResultsReleased)
}
