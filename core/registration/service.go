package registration

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/user"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound        = core.NewNotFoundError(errors.New("Application not found"))
	ErrFormNotFound    = core.NewNotFoundError(errors.New("Registration form not found"))
	ErrAlreadyReviewed = core.NewConflictError(errors.New("Application has already been reviewed"))
	ErrInvalidName     = errors.New("applicant name must contain at least a first name and a surname")
)

type (
	Repository interface {
		CreateApplication(ctx context.Context, app Application, exec ...core.DBExecutor) (Application, error)
		// GetApplication locks the row until the end of the transaction when forUpdate is set.
		GetApplication(ctx context.Context, id string, forUpdate bool, exec ...core.DBExecutor) (Application, error)
		// QueryApplications returns the newest applications first; a blank filter Status matches all.
		QueryApplications(ctx context.Context, filter ApplicationFilter, exec ...core.DBExecutor) ([]Application, error)
		UpdateApplication(ctx context.Context, app Application, exec ...core.DBExecutor) (Application, error)

		CreateForm(ctx context.Context, form Form, exec ...core.DBExecutor) (Form, error)
		GetForm(ctx context.Context, id string, exec ...core.DBExecutor) (Form, error)
		// QueryForms returns the newest forms first.
		QueryForms(ctx context.Context, activeOnly bool, exec ...core.DBExecutor) ([]Form, error)
		UpdateForm(ctx context.Context, form Form, exec ...core.DBExecutor) (Form, error)
		DeleteForm(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	// Users is the part of the user service used to open accounts on approval.
	Users interface {
		Create(ctx context.Context, nu user.NewUser, exec ...core.DBExecutor) (user.User, error)
	}

	Service struct {
		repo     Repository
		tx       core.Transactor
		users    Users
		files    core.FileStore
		notifier *Notifier
		logger   core.Logger
	}
)

func NewService(repo Repository, tx core.Transactor, users Users, files core.FileStore, notifier *Notifier, logger core.Logger) *Service {
	return &Service{repo: repo, tx: tx, users: users, files: files, notifier: notifier, logger: logger}
}

// Submit stores the document and records a pending Application. na must be validated beforehand.
func (svc *Service) Submit(ctx context.Context, na NewApplication, doc core.Upload) (Application, error) {
	if doc.Content == nil {
		return Application{}, core.FileFieldError(core.ErrFileRequired, "document")
	}
	stored, err := svc.files.Save(ctx, doc, core.DocumentTypes...)
	if err != nil {
		return Application{}, core.FileFieldError(err, "document")
	}

	app := Application{
		ApplicantName:       na.ApplicantName,
		ApplicantEmail:      core.NullString(na.ApplicantEmail),
		ApplicantPhone:      na.ApplicantPhone,
		ApplicationType:     na.ApplicationType,
		UploadedDocumentURL: stored.URL,
		Status:              StatusPending,
		CreatedAt:           NowFunc().UTC(),
	}
	app, err = svc.repo.CreateApplication(ctx, app)
	if err != nil {
		if dErr := svc.files.Delete(ctx, stored.URL); dErr != nil {
			svc.logger.Warn("removing orphaned document "+stored.URL, dErr)
		}
		return Application{}, errors.Wrap(err, "creating application")
	}
	return app, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Application, error) {
	return svc.repo.GetApplication(ctx, id, false)
}

func (svc *Service) List(ctx context.Context, filter ApplicationFilter) ([]Application, error) {
	return svc.repo.QueryApplications(ctx, filter)
}

// Approve opens an account for the applicant and marks the Application approved, in a single transaction.
// The surname is the initial password. When the applicant left an email the credentials are sent after commit.
func (svc *Service) Approve(ctx context.Context, id, reviewerID, notes string) (Approval, error) {
	var approval Approval

	err := svc.tx.WithinTx(ctx, func(exec core.DBExecutor) error {
		app, err := svc.repo.GetApplication(ctx, id, true, exec)
		if err != nil {
			return err
		}
		if app.Status != StatusPending {
			return ErrAlreadyReviewed
		}

		first, middle, surname, ok := SplitName(app.ApplicantName)
		if !ok {
			return core.NewValidationError(ErrInvalidName, core.FieldError{Field: "applicantName", Error: ErrInvalidName.Error()})
		}
		var email string
		if app.ApplicantEmail != nil {
			email = *app.ApplicantEmail
		}
		usr, err := svc.users.Create(ctx, user.NewUser{
			Surname:    surname,
			FirstName:  first,
			MiddleName: middle,
			Role:       app.ApplicationType.Role(),
			Email:      email,
			Phone:      app.ApplicantPhone,
			ClassLevel: app.ApplicationType.ClassLevel(),
		}, exec)
		if err != nil {
			return err
		}

		now := NowFunc().UTC()
		app.Status = StatusApproved
		app.ReviewedBy = core.NullString(reviewerID)
		app.ReviewNotes = core.NullString(notes)
		app.GeneratedUserID = &usr.ID
		app.ReviewedAt = &now
		if app, err = svc.repo.UpdateApplication(ctx, app, exec); err != nil {
			return errors.Wrap(err, "updating application")
		}

		approval = Approval{
			Application: app,
			User:        usr,
			Credentials: Credentials{Username: usr.UniqueID, Password: usr.Surname},
		}
		return nil
	})
	if err != nil {
		return Approval{}, err
	}

	if approval.Application.ApplicantEmail != nil {
		svc.notifier.DispatchCredentials(
			*approval.Application.ApplicantEmail,
			approval.Application.ApplicantName,
			approval.Credentials.Username,
			approval.Credentials.Password,
		)
	}
	return approval, nil
}

// Reject closes a pending Application without creating an account.
func (svc *Service) Reject(ctx context.Context, id, reviewerID, notes string) (Application, error) {
	var rejected Application

	err := svc.tx.WithinTx(ctx, func(exec core.DBExecutor) error {
		app, err := svc.repo.GetApplication(ctx, id, true, exec)
		if err != nil {
			return err
		}
		if app.Status != StatusPending {
			return ErrAlreadyReviewed
		}

		now := NowFunc().UTC()
		app.Status = StatusRejected
		app.ReviewedBy = core.NullString(reviewerID)
		app.ReviewNotes = core.NullString(notes)
		app.ReviewedAt = &now
		rejected, err = svc.repo.UpdateApplication(ctx, app, exec)
		return errors.Wrap(err, "updating application")
	})
	return rejected, err
}

// ListForms returns every form when all is set, otherwise only active ones.
func (svc *Service) ListForms(ctx context.Context, all bool) ([]Form, error) {
	return svc.repo.QueryForms(ctx, !all)
}

// CreateForm stores the form file and records the Form. nf must be validated beforehand.
func (svc *Service) CreateForm(ctx context.Context, nf NewForm, file core.Upload, uploaderID string) (Form, error) {
	if file.Content == nil {
		return Form{}, core.FileFieldError(core.ErrFileRequired, "file")
	}
	stored, err := svc.files.Save(ctx, file, core.DocumentTypes...)
	if err != nil {
		return Form{}, core.FileFieldError(err, "file")
	}

	form, err := svc.repo.CreateForm(ctx, Form{
		Title:       nf.Title,
		Description: core.NullString(nf.Description),
		FileURL:     stored.URL,
		FormType:    nf.FormType,
		IsActive:    true,
		UploadedBy:  core.NullString(uploaderID),
		CreatedAt:   NowFunc().UTC(),
	})
	if err != nil {
		if dErr := svc.files.Delete(ctx, stored.URL); dErr != nil {
			svc.logger.Warn("removing orphaned form file "+stored.URL, dErr)
		}
		return Form{}, errors.Wrap(err, "creating form")
	}
	return form, nil
}

func (svc *Service) UpdateForm(ctx context.Context, id string, uf UpdateForm) (Form, error) {
	form, err := svc.repo.GetForm(ctx, id)
	if err != nil {
		return Form{}, err
	}
	if uf.Title != nil {
		form.Title = *uf.Title
	}
	if uf.Description != nil {
		form.Description = core.NullString(*uf.Description)
	}
	if uf.FormType != nil {
		form.FormType = *uf.FormType
	}
	if uf.IsActive != nil {
		form.IsActive = *uf.IsActive
	}
	return svc.repo.UpdateForm(ctx, form)
}

// DeleteForm removes the Form and, best effort, its file.
func (svc *Service) DeleteForm(ctx context.Context, id string) error {
	form, err := svc.repo.GetForm(ctx, id)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteForm(ctx, id); err != nil {
		return err
	}
	if err = svc.files.Delete(ctx, form.FileURL); err != nil {
		svc.logger.Warn("removing form file "+form.FileURL, err)
	}
	return nil
}
