package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/fee"
)

const feeColumns = `id, class_level, department, amount, description, bank_account_number, bank_name, academic_year, term`

type feeRepository struct {
	base
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *sqlx.DB) *feeRepository {
	return &feeRepository{base{db: db}}
}

func (repo feeRepository) CreateStructure(ctx context.Context, fs fee.Structure, exec ...core.DBExecutor) (fee.Structure, error) {
	fs.ID = uuid.New().String()
	q := `INSERT INTO fee_structures (` + feeColumns + `)
		VALUES (:id, :class_level, :department, :amount, :description, :bank_account_number, :bank_name, :academic_year, :term)
		RETURNING ` + feeColumns

	var created fee.Structure
	if err := repo.namedGet(ctx, repo.getExec(exec), &created, q, fs); err != nil {
		return fee.Structure{}, errors.Wrap(err, "inserting fee structure")
	}
	return created, nil
}

func (repo feeRepository) QueryStructures(ctx context.Context, filter fee.QueryFilter, exec ...core.DBExecutor) ([]fee.Structure, error) {
	q := `SELECT ` + feeColumns + ` FROM fee_structures
		WHERE ($1 = '' OR class_level = $1)
		ORDER BY class_level, array_position(ARRAY['first','second','third','all'], term)`

	structures := make([]fee.Structure, 0)
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &structures, q, filter.ClassLevel); err != nil {
		return nil, errors.Wrap(err, "querying fee structures")
	}
	return structures, nil
}

func (repo feeRepository) DeleteStructure(ctx context.Context, id string, exec ...core.DBExecutor) error {
	return deleteByID(ctx, repo.getExec(exec), "fee_structures", id, fee.ErrNotFound)
}
