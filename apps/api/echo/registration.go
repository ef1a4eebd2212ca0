package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/registration"
	"github.com/alfurqan/portal/core/user"
	"github.com/alfurqan/portal/services/metrics"
)

type registrationApi struct {
	svc      *registration.Service
	validate *validator.Validate
}

func registerRegistrationAPI(g *echo.Group, gd guard, sessions *sessionManager, svc *registration.Service, validate *validator.Validate) {
	api := registrationApi{svc: svc, validate: validate}

	fg := g.Group("/registration-forms")
	fg.GET("", api.listForms, sessions.optionalSession)
	fg.POST("", api.createForm, gd.roles(user.RoleSuperAdmin)...)
	fg.PATCH("/:id", api.updateForm, gd.roles(user.RoleSuperAdmin)...)
	fg.DELETE("/:id", api.deleteForm, gd.roles(user.RoleSuperAdmin)...)

	ag := g.Group("/registration-applications")
	ag.POST("", api.submit)
	ag.GET("", api.listApplications, gd.roles(user.RoleSuperAdmin)...)
	ag.GET("/:id", api.retrieveApplication, gd.roles(user.RoleSuperAdmin)...)
	ag.POST("/:id/approve", api.approve, gd.roles(user.RoleSuperAdmin)...)
	ag.POST("/:id/reject", api.reject, gd.roles(user.RoleSuperAdmin)...)
}

// Registration forms

func (api *registrationApi) listForms(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	all := err == nil && usr.IsAdmin()

	forms, err := api.svc.ListForms(ctx.Request().Context(), all)
	if err != nil {
		return errors.Wrap(err, "listing registration forms")
	}
	return ctx.JSON(http.StatusOK, nonNil(forms))
}

func (api *registrationApi) createForm(ctx echo.Context) error {
	var data registration.NewForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewForm")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	file, closeFile, err := formUpload(ctx, "file")
	if err != nil {
		return err
	}
	defer closeFile()

	form, err := api.svc.CreateForm(ctx.Request().Context(), data, file, usr.ID)
	if err != nil {
		return errors.Wrap(err, "creating registration form")
	}
	return ctx.JSON(http.StatusCreated, form)
}

func (api *registrationApi) updateForm(ctx echo.Context) error {
	var data registration.UpdateForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateForm")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	form, err := api.svc.UpdateForm(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating registration form")
	}
	return ctx.JSON(http.StatusOK, form)
}

func (api *registrationApi) deleteForm(ctx echo.Context) error {
	if err := api.svc.DeleteForm(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting registration form")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Message: "Form deleted"})
}

// Registration applications

func (api *registrationApi) submit(ctx echo.Context) error {
	var data registration.NewApplication
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewApplication")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	doc, closeFile, err := formUpload(ctx, "document")
	if err != nil {
		return err
	}
	defer closeFile()

	app, err := api.svc.Submit(ctx.Request().Context(), data, doc)
	if err != nil {
		return errors.Wrap(err, "submitting application")
	}
	metrics.Applications.WithLabelValues("submitted").Inc()
	return ctx.JSON(http.StatusCreated, app)
}

func (api *registrationApi) listApplications(ctx echo.Context) error {
	filter := new(registration.ApplicationFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to ApplicationFilter")
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "status must be one of pending, approved or rejected"})
	}

	apps, err := api.svc.List(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "listing applications")
	}
	return ctx.JSON(http.StatusOK, nonNil(apps))
}

func (api *registrationApi) retrieveApplication(ctx echo.Context) error {
	app, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding application")
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *registrationApi) approve(ctx echo.Context) error {
	reviewer, data, err := api.bindReview(ctx)
	if err != nil {
		return err
	}

	approval, err := api.svc.Approve(ctx.Request().Context(), ctx.Param("id"), reviewer.ID, data.ReviewNotes)
	if err != nil {
		return errors.Wrap(err, "approving application")
	}
	metrics.Applications.WithLabelValues("approved").Inc()
	return ctx.JSON(http.StatusOK, ApprovalResponse{
		Message:     "Application approved",
		User:        approval.User,
		Credentials: approval.Credentials,
	})
}

func (api *registrationApi) reject(ctx echo.Context) error {
	reviewer, data, err := api.bindReview(ctx)
	if err != nil {
		return err
	}

	app, err := api.svc.Reject(ctx.Request().Context(), ctx.Param("id"), reviewer.ID, data.ReviewNotes)
	if err != nil {
		return errors.Wrap(err, "rejecting application")
	}
	metrics.Applications.WithLabelValues("rejected").Inc()
	return ctx.JSON(http.StatusOK, RejectionResponse{Message: "Application rejected", Application: app})
}

func (api *registrationApi) bindReview(ctx echo.Context) (user.User, registration.Review, error) {
	var data registration.Review
	if ctx.Request().ContentLength != 0 {
		if err := ctx.Bind(&data); err != nil {
			return user.User{}, data, errors.Wrap(err, "binding to Review")
		}
	}
	data.ReviewNotes = core.CleanString(data.ReviewNotes)
	usr, err := getContextUser(ctx)
	return usr, data, err
}

type (
	ApprovalResponse struct {
		Message     string                   `json:"message"`
		User        user.User                `json:"user"`
		Credentials registration.Credentials `json:"credentials"`
	}

	RejectionResponse struct {
		Message     string                   `json:"message"`
		Application registration.Application `json:"application"`
	}
)
