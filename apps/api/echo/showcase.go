package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core/showcase"
	"github.com/alfurqan/portal/core/user"
)

type showcaseApi struct {
	svc      *showcase.Service
	validate *validator.Validate
}

func registerShowcaseAPI(g *echo.Group, gd guard, svc *showcase.Service, validate *validator.Validate) {
	api := showcaseApi{svc: svc, validate: validate}

	ag := g.Group("/alumni")
	ag.GET("", api.listAlumni)
	ag.POST("", api.createAlumni, gd.roles(user.RoleSuperAdmin)...)
	ag.PATCH("/:id", api.updateAlumni, gd.roles(user.RoleSuperAdmin)...)
	ag.DELETE("/:id", api.deleteAlumni, gd.roles(user.RoleSuperAdmin)...)

	tg := g.Group("/featured-teachers")
	tg.GET("", api.listTeachers)
	tg.POST("", api.createTeacher, gd.roles(user.RoleSuperAdmin)...)
	tg.PATCH("/:id", api.updateTeacher, gd.roles(user.RoleSuperAdmin)...)
	tg.DELETE("/:id", api.deleteTeacher, gd.roles(user.RoleSuperAdmin)...)
}

// Alumni

func (api *showcaseApi) listAlumni(ctx echo.Context) error {
	alumni, err := api.svc.ListAlumni(ctx.Request().Context(), false)
	if err != nil {
		return errors.Wrap(err, "listing alumni")
	}
	return ctx.JSON(http.StatusOK, nonNil(alumni))
}

func (api *showcaseApi) createAlumni(ctx echo.Context) error {
	var data showcase.AlumniInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AlumniInput")
	}
	if err := data.Validate(api.validate, true); err != nil {
		return err
	}
	alum, err := api.svc.CreateAlumni(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating alumni")
	}
	return ctx.JSON(http.StatusCreated, alum)
}

func (api *showcaseApi) updateAlumni(ctx echo.Context) error {
	var data showcase.AlumniInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AlumniInput")
	}
	if err := data.Validate(api.validate, false); err != nil {
		return err
	}
	alum, err := api.svc.UpdateAlumni(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating alumni")
	}
	return ctx.JSON(http.StatusOK, alum)
}

func (api *showcaseApi) deleteAlumni(ctx echo.Context) error {
	if err := api.svc.DeleteAlumni(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting alumni")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Message: "Alumni deleted"})
}

// Featured teachers

func (api *showcaseApi) listTeachers(ctx echo.Context) error {
	teachers, err := api.svc.ListTeachers(ctx.Request().Context(), false)
	if err != nil {
		return errors.Wrap(err, "listing featured teachers")
	}
	return ctx.JSON(http.StatusOK, nonNil(teachers))
}

func (api *showcaseApi) createTeacher(ctx echo.Context) error {
	var data showcase.TeacherInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TeacherInput")
	}
	if err := data.Validate(api.validate, true); err != nil {
		return err
	}
	teacher, err := api.svc.CreateTeacher(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating featured teacher")
	}
	return ctx.JSON(http.StatusCreated, teacher)
}

func (api *showcaseApi) updateTeacher(ctx echo.Context) error {
	var data showcase.TeacherInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TeacherInput")
	}
	if err := data.Validate(api.validate, false); err != nil {
		return err
	}
	teacher, err := api.svc.UpdateTeacher(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating featured teacher")
	}
	return ctx.JSON(http.StatusOK, teacher)
}

func (api *showcaseApi) deleteTeacher(ctx echo.Context) error {
	if err := api.svc.DeleteTeacher(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting featured teacher")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Message: "Featured teacher deleted"})
}
