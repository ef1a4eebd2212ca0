package user

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
)

const maxUniqueIDAttempts = 10

var (
	NowFunc          = time.Now // mockable
	RandomSuffixFunc = randomSuffix

	// errors
	ErrNotFound          = core.NewNotFoundError(errors.New("User not found"))
	ErrUniqueIDTaken     = errors.New("unique ID already taken")
	ErrUniqueIDExhausted = errors.New("could not allocate a unique ID")
)

type (
	Repository interface {
		// CreateUser inserts usr; it returns ErrUniqueIDTaken when usr.UniqueID is already in use.
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		GetUser(ctx context.Context, id string, exec ...core.DBExecutor) (User, error)
		GetUserByUniqueID(ctx context.Context, uniqueID string, exec ...core.DBExecutor) (User, error)
		// QueryUsers applies AND operation on available QueryFilter fields; newest users first.
		// QueryFilter.Search does a case-insensitive match on the names and the unique ID.
		QueryUsers(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]User, error)
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GenerateUniqueID returns `{rolePrefix}{YY}{4 random digits}`.
func GenerateUniqueID(role Role, now time.Time) string {
	return fmt.Sprintf("%s%02d%04d", role.UniqueIDPrefix(), now.Year()%100, RandomSuffixFunc())
}

func randomSuffix() int {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return int(time.Now().UnixNano() % 10000)
	}
	return int(n.Int64())
}

// Create persists a new User under a freshly generated unique ID, drawing a new one on collision.
func (svc *Service) Create(ctx context.Context, nu NewUser, exec ...core.DBExecutor) (User, error) {
	isActive := true
	if nu.IsActive != nil {
		isActive = *nu.IsActive
	}
	usr := User{
		Surname:    nu.Surname,
		FirstName:  nu.FirstName,
		MiddleName: core.NullString(nu.MiddleName),
		Role:       nu.Role,
		Email:      core.NullString(nu.Email),
		Phone:      core.NullString(nu.Phone),
		Address:    core.NullString(nu.Address),
		ClassLevel: core.NullString(nu.ClassLevel),
		Department: core.NullString(nu.Department),
		IsActive:   isActive,
	}

	for attempt := 0; attempt < maxUniqueIDAttempts; attempt++ {
		now := NowFunc().UTC()
		usr.UniqueID = GenerateUniqueID(usr.Role, now)
		usr.CreatedAt = now

		created, err := svc.repo.CreateUser(ctx, usr, exec...)
		if err == nil {
			return created, nil
		}
		if errors.Cause(err) != ErrUniqueIDTaken {
			return User{}, errors.Wrap(err, "creating user")
		}
	}
	return User{}, ErrUniqueIDExhausted
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, id)
}

func (svc *Service) GetByUniqueID(ctx context.Context, uniqueID string) (User, error) {
	return svc.repo.GetUserByUniqueID(ctx, core.CleanString(uniqueID))
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]User, error) {
	filter.Clean()
	return svc.repo.QueryUsers(ctx, filter)
}

func (svc *Service) ListByRole(ctx context.Context, role Role) ([]User, error) {
	return svc.repo.QueryUsers(ctx, QueryFilter{Roles: []Role{role}})
}

func (svc *Service) UpdateBankDetails(ctx context.Context, id string, data UpdateBankDetails) (User, error) {
	usr, err := svc.repo.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	usr.BankAccountNumber = core.NullString(data.BankAccountNumber)
	usr.BankName = core.NullString(data.BankName)
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) SetProfileImage(ctx context.Context, id, url string) (User, error) {
	usr, err := svc.repo.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	usr.ProfileImage = core.NullString(url)
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) SetActive(ctx context.Context, uniqueID string, active bool) (User, error) {
	usr, err := svc.GetByUniqueID(ctx, uniqueID)
	if err != nil {
		return User{}, err
	}
	usr.IsActive = active
	return svc.repo.UpdateUser(ctx, usr)
}

// Upsert creates usr with the given unique ID, or overwrites the existing User holding it.
// It is meant for seeding and admin tooling where the unique ID is chosen by hand.
func (svc *Service) Upsert(ctx context.Context, usr User) (User, error) {
	existing, err := svc.repo.GetUserByUniqueID(ctx, usr.UniqueID)
	switch {
	case err == nil:
		usr.ID = existing.ID
		usr.CreatedAt = existing.CreatedAt
		return svc.repo.UpdateUser(ctx, usr)
	case errors.Cause(err) == ErrNotFound:
		if usr.CreatedAt.IsZero() {
			usr.CreatedAt = NowFunc().UTC()
		}
		return svc.repo.CreateUser(ctx, usr)
	default:
		return User{}, err
	}
}
