package inmemdb

import (
	"context"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/registration"
)

type registrationRepository struct {
	apps  *table[registration.Application]
	forms *table[registration.Form]
}

var _ registration.Repository = (*registrationRepository)(nil) // interface compliance check

func NewRegistrationRepository(db *DB) *registrationRepository {
	return &registrationRepository{apps: db.applications, forms: db.forms}
}

func (repo *registrationRepository) CreateApplication(_ context.Context, app registration.Application, _ ...core.DBExecutor) (registration.Application, error) {
	app.ID = newID()
	repo.apps.put(app.ID, app)
	return app, nil
}

// GetApplication ignores forUpdate: DB.WithinTx already serializes transactions.
func (repo *registrationRepository) GetApplication(_ context.Context, id string, _ bool, _ ...core.DBExecutor) (registration.Application, error) {
	if app, ok := repo.apps.get(id); ok {
		return app, nil
	}
	return registration.Application{}, registration.ErrNotFound
}

func (repo *registrationRepository) QueryApplications(_ context.Context, filter registration.ApplicationFilter, _ ...core.DBExecutor) ([]registration.Application, error) {
	keep := func(a registration.Application) bool { return filter.Status == "" || a.Status == filter.Status }
	return repo.apps.filter(keep, func(a, b registration.Application) bool { return newestFirst(a.CreatedAt, b.CreatedAt) }), nil
}

func (repo *registrationRepository) UpdateApplication(_ context.Context, app registration.Application, _ ...core.DBExecutor) (registration.Application, error) {
	if !repo.apps.update(app.ID, app) {
		return registration.Application{}, registration.ErrNotFound
	}
	return app, nil
}

func (repo *registrationRepository) CreateForm(_ context.Context, form registration.Form, _ ...core.DBExecutor) (registration.Form, error) {
	form.ID = newID()
	repo.forms.put(form.ID, form)
	return form, nil
}

func (repo *registrationRepository) GetForm(_ context.Context, id string, _ ...core.DBExecutor) (registration.Form, error) {
	if form, ok := repo.forms.get(id); ok {
		return form, nil
	}
	return registration.Form{}, registration.ErrFormNotFound
}

func (repo *registrationRepository) QueryForms(_ context.Context, activeOnly bool, _ ...core.DBExecutor) ([]registration.Form, error) {
	keep := func(f registration.Form) bool { return !activeOnly || f.IsActive }
	return repo.forms.filter(keep, func(a, b registration.Form) bool { return newestFirst(a.CreatedAt, b.CreatedAt) }), nil
}

func (repo *registrationRepository) UpdateForm(_ context.Context, form registration.Form, _ ...core.DBExecutor) (registration.Form, error) {
	if !repo.forms.update(form.ID, form) {
		return registration.Form{}, registration.ErrFormNotFound
	}
	return form, nil
}

func (repo *registrationRepository) DeleteForm(_ context.Context, id string, _ ...core.DBExecutor) error {
	if !repo.forms.delete(id) {
		return registration.ErrFormNotFound
	}
	return nil
}
