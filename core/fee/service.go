package fee

import (
	"context"

	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
)

var ErrNotFound = core.NewNotFoundError(errors.New("Fee structure not found"))

type (
	Repository interface {
		CreateStructure(ctx context.Context, fs Structure, exec ...core.DBExecutor) (Structure, error)
		// QueryStructures orders by class level then term.
		QueryStructures(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Structure, error)
		DeleteStructure(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) ([]Structure, error) {
	filter.ClassLevel = core.CleanString(filter.ClassLevel)
	return svc.repo.QueryStructures(ctx, filter)
}

func (svc *Service) Create(ctx context.Context, ns NewStructure) (Structure, error) {
	return svc.repo.CreateStructure(ctx, Structure{
		ClassLevel:        ns.ClassLevel,
		Department:        core.NullString(ns.Department),
		Amount:            ns.Amount,
		Description:       core.NullString(ns.Description),
		BankAccountNumber: ns.BankAccountNumber,
		BankName:          ns.BankName,
		AcademicYear:      ns.AcademicYear,
		Term:              ns.Term,
	})
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStructure(ctx, id)
}
