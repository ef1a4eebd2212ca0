package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/payroll"
)

const payrollColumns = `id, staff_id, amount, month, year, status, processed_by, processed_at, created_at`

type payrollRepository struct {
	base
}

var _ payroll.Repository = (*payrollRepository)(nil) // interface compliance check

func NewPayrollRepository(db *sqlx.DB) *payrollRepository {
	return &payrollRepository{base{db: db}}
}

func (repo payrollRepository) CreateRecord(ctx context.Context, rec payroll.Record, exec ...core.DBExecutor) (payroll.Record, error) {
	rec.ID = uuid.New().String()
	q := `INSERT INTO payroll_records (` + payrollColumns + `)
		VALUES (:id, :staff_id, :amount, :month, :year, :status, :processed_by, :processed_at, :created_at)
		RETURNING ` + payrollColumns

	var created payroll.Record
	if err := repo.namedGet(ctx, repo.getExec(exec), &created, q, rec); err != nil {
		return payroll.Record{}, trapFKErr(err, map[string]string{"payroll_records_staff_id_fkey": "staffId"}, "inserting payroll record")
	}
	return created, nil
}

func (repo payrollRepository) QueryRecords(ctx context.Context, filter payroll.QueryFilter, exec ...core.DBExecutor) ([]payroll.Record, error) {
	q := `SELECT ` + payrollColumns + ` FROM payroll_records
		WHERE ($1 = '' OR staff_id::text = $1) AND ($2 = '' OR month = $2) AND ($3 = '' OR year = $3)
		ORDER BY created_at DESC`

	records := make([]payroll.Record, 0)
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &records, q, filter.StaffID, filter.Month, filter.Year); err != nil {
		return nil, errors.Wrap(err, "querying payroll records")
	}
	return records, nil
}
