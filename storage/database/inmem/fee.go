package inmemdb

import (
	"context"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/academic"
	"github.com/alfurqan/portal/core/fee"
)

var termOrder = map[academic.Term]int{
	academic.TermFirst: 1, academic.TermSecond: 2, academic.TermThird: 3, academic.TermAll: 4,
}

type feeRepository struct {
	db *table[fee.Structure]
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *DB) *feeRepository {
	return &feeRepository{db: db.fees}
}

func (repo *feeRepository) CreateStructure(_ context.Context, fs fee.Structure, _ ...core.DBExecutor) (fee.Structure, error) {
	fs.ID = newID()
	repo.db.put(fs.ID, fs)
	return fs, nil
}

func (repo *feeRepository) QueryStructures(_ context.Context, filter fee.QueryFilter, _ ...core.DBExecutor) ([]fee.Structure, error) {
	keep := func(fs fee.Structure) bool { return filter.ClassLevel == "" || fs.ClassLevel == filter.ClassLevel }
	less := func(a, b fee.Structure) bool {
		if a.ClassLevel != b.ClassLevel {
			return a.ClassLevel < b.ClassLevel
		}
		return termOrder[a.Term] < termOrder[b.Term]
	}
	return repo.db.filter(keep, less), nil
}

func (repo *feeRepository) DeleteStructure(_ context.Context, id string, _ ...core.DBExecutor) error {
	if !repo.db.delete(id) {
		return fee.ErrNotFound
	}
	return nil
}
