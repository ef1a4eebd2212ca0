package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/academic"
	"github.com/alfurqan/portal/core/user"
	"github.com/alfurqan/portal/services/export"
)

type academicApi struct {
	svc      *academic.Service
	users    *user.Service
	validate *validator.Validate
}

func registerAcademicAPI(g *echo.Group, gd guard, svc *academic.Service, users *user.Service, validate *validator.Validate) {
	api := academicApi{svc: svc, users: users, validate: validate}
	staffRoles := []user.Role{user.RoleSuperAdmin, user.RoleManagement, user.RoleStaff}

	rg := g.Group("/results")
	rg.GET("", api.listResults, gd.roles()...)
	rg.GET("/export", api.exportResults, gd.roles(staffRoles...)...)
	rg.POST("", api.enterResult, gd.roles(staffRoles...)...)

	sg := g.Group("/subjects")
	sg.GET("", api.listSubjects, gd.roles()...)
	sg.POST("", api.createSubject, gd.roles(user.AdminRoles...)...)

	tg := g.Group("/timetable")
	tg.GET("", api.listTimetables, gd.roles()...)
	tg.POST("", api.createTimetable, gd.roles(user.AdminRoles...)...)
	tg.DELETE("/:id", api.deleteTimetable, gd.roles(user.AdminRoles...)...)

	cg := g.Group("/classes")
	cg.GET("", api.listClasses, gd.roles()...)
	cg.POST("", api.createClass, gd.roles(user.AdminRoles...)...)
}

// Results

func (api *academicApi) bindResultFilter(ctx echo.Context) (academic.ResultFilter, error) {
	var filter academic.ResultFilter
	if err := ctx.Bind(&filter); err != nil {
		return filter, errors.Wrap(err, "binding to ResultFilter")
	}
	if filter.Term != "" && !filter.Term.Valid() {
		return filter, core.NewValidationError(nil, core.FieldError{Field: "term", Error: "term must be one of first, second, third or all"})
	}
	return filter, nil
}

func (api *academicApi) listResults(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	filter, err := api.bindResultFilter(ctx)
	if err != nil {
		return err
	}

	results, err := api.svc.ResultsFor(ctx.Request().Context(), usr, filter)
	if err != nil {
		return errors.Wrap(err, "listing results")
	}
	return ctx.JSON(http.StatusOK, nonNil(results))
}

func (api *academicApi) exportResults(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	filter, err := api.bindResultFilter(ctx)
	if err != nil {
		return err
	}
	c := ctx.Request().Context()

	results, err := api.svc.ResultsFor(c, usr, filter)
	if err != nil {
		return errors.Wrap(err, "listing results")
	}
	students, err := api.users.ListByRole(c, user.RoleStudent)
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	subjects, err := api.svc.ListSubjects(c, academic.SubjectFilter{})
	if err != nil {
		return errors.Wrap(err, "listing subjects")
	}

	subjectNames := make(export.SubjectNames, len(subjects))
	for _, s := range subjects {
		subjectNames[s.ID] = s.Name
	}
	buf, err := export.ResultsWorkbook(results, namesOf(students), subjectNames)
	if err != nil {
		return errors.Wrap(err, "rendering results workbook")
	}
	return attachment(ctx, "results.xlsx", buf.Bytes())
}

func (api *academicApi) enterResult(ctx echo.Context) error {
	var data academic.NewResult
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResult")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	result, err := api.svc.EnterResult(ctx.Request().Context(), data, usr.ID)
	if err != nil {
		return errors.Wrap(err, "entering result")
	}
	return ctx.JSON(http.StatusCreated, result)
}

// Subjects

func (api *academicApi) listSubjects(ctx echo.Context) error {
	var filter academic.SubjectFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to SubjectFilter")
	}
	subjects, err := api.svc.ListSubjects(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "listing subjects")
	}
	return ctx.JSON(http.StatusOK, nonNil(subjects))
}

func (api *academicApi) createSubject(ctx echo.Context) error {
	var data academic.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	subject, err := api.svc.CreateSubject(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, subject)
}

// Timetable

func (api *academicApi) listTimetables(ctx echo.Context) error {
	var filter academic.TimetableFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to TimetableFilter")
	}
	entries, err := api.svc.ListTimetables(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "listing timetable")
	}
	return ctx.JSON(http.StatusOK, nonNil(entries))
}

func (api *academicApi) createTimetable(ctx echo.Context) error {
	var data academic.NewTimetable
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTimetable")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	entry, err := api.svc.CreateTimetable(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating timetable entry")
	}
	return ctx.JSON(http.StatusCreated, entry)
}

func (api *academicApi) deleteTimetable(ctx echo.Context) error {
	if err := api.svc.DeleteTimetable(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting timetable entry")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Message: "Timetable entry deleted"})
}

// Classes

func (api *academicApi) listClasses(ctx echo.Context) error {
	classes, err := api.svc.ListClasses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}
	return ctx.JSON(http.StatusOK, nonNil(classes))
}

func (api *academicApi) createClass(ctx echo.Context) error {
	var data academic.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	class, err := api.svc.CreateClass(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, class)
}

// helpers

func namesOf(users []user.User) export.Names {
	names := make(export.Names, len(users))
	for _, u := range users {
		names[u.ID] = u
	}
	return names
}

func attachment(ctx echo.Context, filename string, data []byte) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, export.ContentType, data)
}
