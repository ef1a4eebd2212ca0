package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/user"
)

const userColumns = `id, unique_id, surname, first_name, middle_name, role, email, phone, address, profile_image,
	class_level, department, bank_account_number, bank_name, is_active, created_at`

type userRow struct {
	ID                string      `db:"id"`
	UniqueID          string      `db:"unique_id"`
	Surname           string      `db:"surname"`
	FirstName         string      `db:"first_name"`
	MiddleName        null.String `db:"middle_name"`
	Role              string      `db:"role"`
	Email             null.String `db:"email"`
	Phone             null.String `db:"phone"`
	Address           null.String `db:"address"`
	ProfileImage      null.String `db:"profile_image"`
	ClassLevel        null.String `db:"class_level"`
	Department        null.String `db:"department"`
	BankAccountNumber null.String `db:"bank_account_number"`
	BankName          null.String `db:"bank_name"`
	IsActive          bool        `db:"is_active"`
	CreatedAt         time.Time   `db:"created_at"`
}

func toUserRow(usr user.User) userRow {
	return userRow{
		ID:                usr.ID,
		UniqueID:          usr.UniqueID,
		Surname:           usr.Surname,
		FirstName:         usr.FirstName,
		MiddleName:        null.StringFromPtr(usr.MiddleName),
		Role:              usr.Role.String(),
		Email:             null.StringFromPtr(usr.Email),
		Phone:             null.StringFromPtr(usr.Phone),
		Address:           null.StringFromPtr(usr.Address),
		ProfileImage:      null.StringFromPtr(usr.ProfileImage),
		ClassLevel:        null.StringFromPtr(usr.ClassLevel),
		Department:        null.StringFromPtr(usr.Department),
		BankAccountNumber: null.StringFromPtr(usr.BankAccountNumber),
		BankName:          null.StringFromPtr(usr.BankName),
		IsActive:          usr.IsActive,
		CreatedAt:         usr.CreatedAt.UTC(),
	}
}

func (r userRow) user() user.User {
	return user.User{
		ID:                r.ID,
		UniqueID:          r.UniqueID,
		Surname:           r.Surname,
		FirstName:         r.FirstName,
		MiddleName:        r.MiddleName.Ptr(),
		Role:              user.Role(r.Role),
		Email:             r.Email.Ptr(),
		Phone:             r.Phone.Ptr(),
		Address:           r.Address.Ptr(),
		ProfileImage:      r.ProfileImage.Ptr(),
		ClassLevel:        r.ClassLevel.Ptr(),
		Department:        r.Department.Ptr(),
		BankAccountNumber: r.BankAccountNumber.Ptr(),
		BankName:          r.BankName.Ptr(),
		IsActive:          r.IsActive,
		CreatedAt:         r.CreatedAt.UTC(),
	}
}

type userRepository struct {
	base
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{base{db: db}}
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	q := `INSERT INTO users (` + userColumns + `)
		VALUES (:id, :unique_id, :surname, :first_name, :middle_name, :role, :email, :phone, :address, :profile_image,
			:class_level, :department, :bank_account_number, :bank_name, :is_active, :created_at)
		ON CONFLICT (unique_id) DO NOTHING
		RETURNING ` + userColumns

	var row userRow
	if err := repo.namedGet(ctx, repo.getExec(exec), &row, q, toUserRow(usr)); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrUniqueIDTaken
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return row.user(), nil
}

func (repo userRepository) get(ctx context.Context, ext sqlx.ExtContext, where string, arg interface{}) (user.User, error) {
	var row userRow
	err := sqlx.GetContext(ctx, ext, &row, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	if err != nil {
		return user.User{}, trapNotFound(err, user.ErrNotFound, "finding user")
	}
	return row.user(), nil
}

func (repo userRepository) GetUser(ctx context.Context, id string, exec ...core.DBExecutor) (user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, user.ErrNotFound
	}
	return repo.get(ctx, repo.getExec(exec), "id = $1", id)
}

func (repo userRepository) GetUserByUniqueID(ctx context.Context, uniqueID string, exec ...core.DBExecutor) (user.User, error) {
	return repo.get(ctx, repo.getExec(exec), "unique_id = $1", strings.ToUpper(uniqueID))
}

func (repo userRepository) QueryUsers(ctx context.Context, filter user.QueryFilter, exec ...core.DBExecutor) ([]user.User, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, "(unique_id ILIKE $1 OR surname ILIKE $1 OR first_name ILIKE $1 OR middle_name ILIKE $1)")
	}
	if len(filter.Roles) > 0 {
		roles := make([]string, 0, len(filter.Roles))
		for _, r := range filter.Roles {
			roles = append(roles, r.String())
		}
		args = append(args, pq.Array(roles))
		conds = append(conds, "role = ANY($"+itoa(len(args))+")")
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conds = append(conds, "is_active = $"+itoa(len(args)))
	}

	q := `SELECT ` + userColumns + ` FROM users`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY " + core.DBOrdering{Field: "created_at"}.String()

	var rows []userRow
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.user())
	}
	return users, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	q := `UPDATE users SET
			unique_id = :unique_id, surname = :surname, first_name = :first_name, middle_name = :middle_name,
			role = :role, email = :email, phone = :phone, address = :address, profile_image = :profile_image,
			class_level = :class_level, department = :department, bank_account_number = :bank_account_number,
			bank_name = :bank_name, is_active = :is_active
		WHERE id = :id
		RETURNING ` + userColumns

	var row userRow
	if err := repo.namedGet(ctx, repo.getExec(exec), &row, q, toUserRow(usr)); err != nil {
		if pqCode(err) == codeUniqueViolation {
			return user.User{}, user.ErrUniqueIDTaken
		}
		return user.User{}, trapNotFound(err, user.ErrNotFound, "updating user")
	}
	return row.user(), nil
}
