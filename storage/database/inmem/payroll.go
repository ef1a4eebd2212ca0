package inmemdb

import (
	"context"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/payroll"
)

type payrollRepository struct {
	db *table[payroll.Record]
}

var _ payroll.Repository = (*payrollRepository)(nil) // interface compliance check

func NewPayrollRepository(db *DB) *payrollRepository {
	return &payrollRepository{db: db.payroll}
}

func (repo *payrollRepository) CreateRecord(_ context.Context, rec payroll.Record, _ ...core.DBExecutor) (payroll.Record, error) {
	rec.ID = newID()
	repo.db.put(rec.ID, rec)
	return rec, nil
}

func (repo *payrollRepository) QueryRecords(_ context.Context, filter payroll.QueryFilter, _ ...core.DBExecutor) ([]payroll.Record, error) {
	keep := func(r payroll.Record) bool {
		return (filter.StaffID == "" || r.StaffID == filter.StaffID) &&
			(filter.Month == "" || r.Month == filter.Month) &&
			(filter.Year == "" || r.Year == filter.Year)
	}
	return repo.db.filter(keep, func(a, b payroll.Record) bool { return newestFirst(a.CreatedAt, b.CreatedAt) }), nil
}
