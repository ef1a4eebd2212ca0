package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/user"
)

const profileImageWidth = 256

type userApi struct {
	svc      *user.Service
	files    core.FileStore
	validate *validator.Validate
	logger   core.Logger
}

func registerUserAPI(g *echo.Group, gd guard, svc *user.Service, files core.FileStore, validate *validator.Validate, logger core.Logger) {
	api := userApi{
		svc:      svc,
		files:    files,
		validate: validate,
		logger:   logger,
	}

	ug := g.Group("/users")
	ug.GET("", api.query, gd.roles(user.AdminRoles...)...)
	ug.POST("", api.create, gd.roles(user.RoleSuperAdmin)...)
	ug.GET("/staff", api.listStaff, gd.roles(user.AdminRoles...)...)
	ug.GET("/students", api.listStudents, gd.roles(user.RoleSuperAdmin, user.RoleManagement, user.RoleStaff)...)

	// detail endpoints
	ug.PATCH("/:id/bank-details", api.updateBankDetails, gd.selfOr(user.AdminRoles...)...)
	ug.POST("/:id/profile-image", api.uploadProfileImage, gd.selfOr(user.RoleSuperAdmin)...)
}

// Handlers

func (api *userApi) query(ctx echo.Context) error {
	filter := new(user.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []user.User{})
	}

	users, err := api.svc.Query(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, nonNil(users))
}

func (api *userApi) listStaff(ctx echo.Context) error {
	return api.listByRole(ctx, user.RoleStaff)
}

func (api *userApi) listStudents(ctx echo.Context) error {
	return api.listByRole(ctx, user.RoleStudent)
}

func (api *userApi) listByRole(ctx echo.Context, role user.Role) error {
	users, err := api.svc.ListByRole(ctx.Request().Context(), role)
	if err != nil {
		return errors.Wrapf(err, "listing %s users", role)
	}
	return ctx.JSON(http.StatusOK, nonNil(users))
}

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) updateBankDetails(ctx echo.Context) error {
	var data user.UpdateBankDetails
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateBankDetails")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.UpdateBankDetails(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating bank details")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) uploadProfileImage(ctx echo.Context) error {
	c := ctx.Request().Context()
	usr, err := api.svc.GetByID(c, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}

	up, closeFile, err := formUpload(ctx, "image")
	if err != nil {
		return err
	}
	defer closeFile()
	if up.Content == nil {
		return core.FileFieldError(core.ErrFileRequired, "image")
	}

	stored, err := api.files.SaveImage(c, up, profileImageWidth)
	if err != nil {
		return errors.Wrap(core.FileFieldError(err, "image"), "saving profile image")
	}
	previous := usr.ProfileImage

	usr, err = api.svc.SetProfileImage(c, usr.ID, stored.URL)
	if err != nil {
		_ = api.files.Delete(c, stored.URL)
		return errors.Wrap(err, "setting profile image")
	}
	if previous != nil && *previous != "" {
		if dErr := api.files.Delete(c, *previous); dErr != nil {
			api.logger.Warn("removing previous profile image", dErr, usr)
		}
	}
	return ctx.JSON(http.StatusOK, usr)
}

// nonNil makes empty lists render as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
