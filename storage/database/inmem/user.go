package inmemdb

import (
	"context"
	"strings"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/user"
)

type userRepository struct {
	db *table[user.User]
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db.users}
}

func (repo *userRepository) uniqueIDTaken(uniqueID, exceptID string) bool {
	for id, usr := range repo.db.rows {
		if usr.UniqueID == uniqueID && id != exceptID {
			return true
		}
	}
	return false
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User, _ ...core.DBExecutor) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.uniqueIDTaken(usr.UniqueID, "") {
		return user.User{}, user.ErrUniqueIDTaken
	}
	if usr.ID == "" {
		usr.ID = newID()
	}
	repo.db.next++
	repo.db.seq[usr.ID] = repo.db.next
	repo.db.rows[usr.ID] = usr
	return usr, nil
}

func (repo *userRepository) GetUser(_ context.Context, id string, _ ...core.DBExecutor) (user.User, error) {
	if usr, ok := repo.db.get(id); ok {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByUniqueID(_ context.Context, uniqueID string, _ ...core.DBExecutor) (user.User, error) {
	uniqueID = strings.ToUpper(uniqueID)
	found := repo.db.filter(func(u user.User) bool { return u.UniqueID == uniqueID }, nil)
	if len(found) == 0 {
		return user.User{}, user.ErrNotFound
	}
	return found[0], nil
}

func (repo *userRepository) QueryUsers(_ context.Context, filter user.QueryFilter, _ ...core.DBExecutor) ([]user.User, error) {
	search := strings.ToLower(filter.Search)
	keep := func(u user.User) bool {
		if search != "" {
			fields := []string{u.UniqueID, u.Surname, u.FirstName}
			if u.MiddleName != nil {
				fields = append(fields, *u.MiddleName)
			}
			var match bool
			for _, f := range fields {
				if strings.Contains(strings.ToLower(f), search) {
					match = true
					break
				}
			}
			if !match {
				return false
			}
		}
		if len(filter.Roles) > 0 && !u.HasRole(filter.Roles...) {
			return false
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			return false
		}
		return true
	}
	return repo.db.filter(keep, func(a, b user.User) bool { return newestFirst(a.CreatedAt, b.CreatedAt) }), nil
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User, _ ...core.DBExecutor) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.rows[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	if repo.uniqueIDTaken(usr.UniqueID, usr.ID) {
		return user.User{}, user.ErrUniqueIDTaken
	}
	repo.db.rows[usr.ID] = usr
	return usr, nil
}

// DeleteUser is only used by tests to simulate accounts removed behind a live session.
func (repo *userRepository) DeleteUser(id string) bool {
	return repo.db.delete(id)
}
