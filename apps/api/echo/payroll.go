package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core/payroll"
	"github.com/alfurqan/portal/core/user"
	"github.com/alfurqan/portal/services/export"
)

type payrollApi struct {
	svc      *payroll.Service
	users    *user.Service
	validate *validator.Validate
}

func registerPayrollAPI(g *echo.Group, gd guard, svc *payroll.Service, users *user.Service, validate *validator.Validate) {
	api := payrollApi{svc: svc, users: users, validate: validate}

	pg := g.Group("/payroll")
	pg.GET("", api.list, gd.roles(user.AdminRoles...)...)
	pg.GET("/export", api.export, gd.roles(user.AdminRoles...)...)
	pg.POST("/process", api.process, gd.roles(user.AdminRoles...)...)
}

func (api *payrollApi) list(ctx echo.Context) error {
	var filter payroll.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	records, err := api.svc.List(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "listing payroll")
	}
	return ctx.JSON(http.StatusOK, nonNil(records))
}

func (api *payrollApi) export(ctx echo.Context) error {
	var filter payroll.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	c := ctx.Request().Context()

	records, err := api.svc.List(c, filter)
	if err != nil {
		return errors.Wrap(err, "listing payroll")
	}
	staff, err := api.users.Query(c, user.QueryFilter{})
	if err != nil {
		return errors.Wrap(err, "listing users")
	}

	buf, err := export.PayrollWorkbook(records, namesOf(staff))
	if err != nil {
		return errors.Wrap(err, "rendering payroll workbook")
	}
	return attachment(ctx, "payroll.xlsx", buf.Bytes())
}

func (api *payrollApi) process(ctx echo.Context) error {
	var data payroll.Process
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Process")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	record, err := api.svc.Process(ctx.Request().Context(), data, usr.ID)
	if err != nil {
		return errors.Wrap(err, "processing payroll")
	}
	return ctx.JSON(http.StatusCreated, record)
}
