package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/registration"
)

const (
	applicationColumns = `id, applicant_name, applicant_email, applicant_phone, application_type, uploaded_document_url,
	status, reviewed_by, review_notes, generated_user_id, created_at, reviewed_at`
	formColumns = `id, title, description, file_url, form_type, is_active, uploaded_by, created_at`
)

type applicationRow struct {
	ID                  string      `db:"id"`
	ApplicantName       string      `db:"applicant_name"`
	ApplicantEmail      null.String `db:"applicant_email"`
	ApplicantPhone      string      `db:"applicant_phone"`
	ApplicationType     string      `db:"application_type"`
	UploadedDocumentURL string      `db:"uploaded_document_url"`
	Status              string      `db:"status"`
	ReviewedBy          null.String `db:"reviewed_by"`
	ReviewNotes         null.String `db:"review_notes"`
	GeneratedUserID     null.String `db:"generated_user_id"`
	CreatedAt           time.Time   `db:"created_at"`
	ReviewedAt          null.Time   `db:"reviewed_at"`
}

func toApplicationRow(app registration.Application) applicationRow {
	row := applicationRow{
		ID:                  app.ID,
		ApplicantName:       app.ApplicantName,
		ApplicantEmail:      null.StringFromPtr(app.ApplicantEmail),
		ApplicantPhone:      app.ApplicantPhone,
		ApplicationType:     string(app.ApplicationType),
		UploadedDocumentURL: app.UploadedDocumentURL,
		Status:              string(app.Status),
		ReviewedBy:          null.StringFromPtr(app.ReviewedBy),
		ReviewNotes:         null.StringFromPtr(app.ReviewNotes),
		GeneratedUserID:     null.StringFromPtr(app.GeneratedUserID),
		CreatedAt:           app.CreatedAt.UTC(),
	}
	if app.ReviewedAt != nil {
		row.ReviewedAt = null.TimeFrom(app.ReviewedAt.UTC())
	}
	return row
}

func (r applicationRow) application() registration.Application {
	app := registration.Application{
		ID:                  r.ID,
		ApplicantName:       r.ApplicantName,
		ApplicantEmail:      r.ApplicantEmail.Ptr(),
		ApplicantPhone:      r.ApplicantPhone,
		ApplicationType:     registration.ApplicationType(r.ApplicationType),
		UploadedDocumentURL: r.UploadedDocumentURL,
		Status:              registration.Status(r.Status),
		ReviewedBy:          r.ReviewedBy.Ptr(),
		ReviewNotes:         r.ReviewNotes.Ptr(),
		GeneratedUserID:     r.GeneratedUserID.Ptr(),
		CreatedAt:           r.CreatedAt.UTC(),
	}
	if r.ReviewedAt.Valid {
		t := r.ReviewedAt.Time.UTC()
		app.ReviewedAt = &t
	}
	return app
}

type registrationRepository struct {
	base
}

var _ registration.Repository = (*registrationRepository)(nil) // interface compliance check

func NewRegistrationRepository(db *sqlx.DB) *registrationRepository {
	return &registrationRepository{base{db: db}}
}

func (repo registrationRepository) CreateApplication(ctx context.Context, app registration.Application, exec ...core.DBExecutor) (registration.Application, error) {
	app.ID = uuid.New().String()
	q := `INSERT INTO registration_applications (` + applicationColumns + `)
		VALUES (:id, :applicant_name, :applicant_email, :applicant_phone, :application_type, :uploaded_document_url,
			:status, :reviewed_by, :review_notes, :generated_user_id, :created_at, :reviewed_at)
		RETURNING ` + applicationColumns

	var row applicationRow
	if err := repo.namedGet(ctx, repo.getExec(exec), &row, q, toApplicationRow(app)); err != nil {
		return registration.Application{}, errors.Wrap(err, "inserting application")
	}
	return row.application(), nil
}

func (repo registrationRepository) GetApplication(ctx context.Context, id string, forUpdate bool, exec ...core.DBExecutor) (registration.Application, error) {
	if _, err := uuid.Parse(id); err != nil {
		return registration.Application{}, registration.ErrNotFound
	}
	q := `SELECT ` + applicationColumns + ` FROM registration_applications WHERE id = $1`
	if forUpdate {
		q += " FOR UPDATE"
	}
	var row applicationRow
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, id); err != nil {
		return registration.Application{}, trapNotFound(err, registration.ErrNotFound, "finding application")
	}
	return row.application(), nil
}

func (repo registrationRepository) QueryApplications(ctx context.Context, filter registration.ApplicationFilter, exec ...core.DBExecutor) ([]registration.Application, error) {
	q := `SELECT ` + applicationColumns + ` FROM registration_applications
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC`

	var rows []applicationRow
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &rows, q, string(filter.Status)); err != nil {
		return nil, errors.Wrap(err, "querying applications")
	}
	apps := make([]registration.Application, 0, len(rows))
	for _, r := range rows {
		apps = append(apps, r.application())
	}
	return apps, nil
}

func (repo registrationRepository) UpdateApplication(ctx context.Context, app registration.Application, exec ...core.DBExecutor) (registration.Application, error) {
	q := `UPDATE registration_applications SET
			status = :status, reviewed_by = :reviewed_by, review_notes = :review_notes,
			generated_user_id = :generated_user_id, reviewed_at = :reviewed_at
		WHERE id = :id
		RETURNING ` + applicationColumns

	var row applicationRow
	if err := repo.namedGet(ctx, repo.getExec(exec), &row, q, toApplicationRow(app)); err != nil {
		return registration.Application{}, trapNotFound(err, registration.ErrNotFound, "updating application")
	}
	return row.application(), nil
}

func (repo registrationRepository) CreateForm(ctx context.Context, form registration.Form, exec ...core.DBExecutor) (registration.Form, error) {
	form.ID = uuid.New().String()
	q := `INSERT INTO registration_forms (` + formColumns + `)
		VALUES (:id, :title, :description, :file_url, :form_type, :is_active, :uploaded_by, :created_at)
		RETURNING ` + formColumns

	var created registration.Form
	if err := repo.namedGet(ctx, repo.getExec(exec), &created, q, form); err != nil {
		return registration.Form{}, errors.Wrap(err, "inserting registration form")
	}
	return created, nil
}

func (repo registrationRepository) GetForm(ctx context.Context, id string, exec ...core.DBExecutor) (registration.Form, error) {
	if _, err := uuid.Parse(id); err != nil {
		return registration.Form{}, registration.ErrFormNotFound
	}
	var form registration.Form
	err := sqlx.GetContext(ctx, repo.getExec(exec), &form, `SELECT `+formColumns+` FROM registration_forms WHERE id = $1`, id)
	if err != nil {
		return registration.Form{}, trapNotFound(err, registration.ErrFormNotFound, "finding registration form")
	}
	return form, nil
}

func (repo registrationRepository) QueryForms(ctx context.Context, activeOnly bool, exec ...core.DBExecutor) ([]registration.Form, error) {
	q := `SELECT ` + formColumns + ` FROM registration_forms WHERE (NOT $1 OR is_active) ORDER BY created_at DESC`
	forms := make([]registration.Form, 0)
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &forms, q, activeOnly); err != nil {
		return nil, errors.Wrap(err, "querying registration forms")
	}
	return forms, nil
}

func (repo registrationRepository) UpdateForm(ctx context.Context, form registration.Form, exec ...core.DBExecutor) (registration.Form, error) {
	q := `UPDATE registration_forms SET
			title = :title, description = :description, form_type = :form_type, is_active = :is_active
		WHERE id = :id
		RETURNING ` + formColumns

	var updated registration.Form
	if err := repo.namedGet(ctx, repo.getExec(exec), &updated, q, form); err != nil {
		return registration.Form{}, trapNotFound(err, registration.ErrFormNotFound, "updating registration form")
	}
	return updated, nil
}

func (repo registrationRepository) DeleteForm(ctx context.Context, id string, exec ...core.DBExecutor) error {
	return deleteByID(ctx, repo.getExec(exec), "registration_forms", id, registration.ErrFormNotFound)
}
