package payroll

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/user"
)

var (
	NowFunc = time.Now // mockable

	ErrNotStaff = errors.New("staffId must reference a staff member")
)

type (
	Repository interface {
		CreateRecord(ctx context.Context, rec Record, exec ...core.DBExecutor) (Record, error)
		// QueryRecords returns the newest records first.
		QueryRecords(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Record, error)
	}

	Users interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	Service struct {
		repo  Repository
		users Users
	}
)

func NewService(repo Repository, users Users) *Service {
	return &Service{repo: repo, users: users}
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) ([]Record, error) {
	return svc.repo.QueryRecords(ctx, filter)
}

// Process records a completed payment to a staff member for the current month.
func (svc *Service) Process(ctx context.Context, p Process, processorID string) (Record, error) {
	staff, err := svc.users.GetByID(ctx, p.StaffID)
	if err != nil && errors.Cause(err) != user.ErrNotFound {
		return Record{}, err
	}
	if err != nil || staff.Role == user.RoleStudent {
		return Record{}, core.NewValidationError(ErrNotStaff, core.FieldError{Field: "staffId", Error: ErrNotStaff.Error()})
	}

	now := NowFunc().UTC()
	return svc.repo.CreateRecord(ctx, Record{
		StaffID:     staff.ID,
		Amount:      p.Amount,
		Month:       now.Month().String(),
		Year:        strconv.Itoa(now.Year()),
		Status:      StatusCompleted,
		ProcessedBy: core.NullString(processorID),
		ProcessedAt: &now,
		CreatedAt:   now,
	})
}
