package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core/fee"
	"github.com/alfurqan/portal/core/user"
)

type feeApi struct {
	svc      *fee.Service
	validate *validator.Validate
}

func registerFeeAPI(g *echo.Group, gd guard, svc *fee.Service, validate *validator.Validate) {
	api := feeApi{svc: svc, validate: validate}

	fg := g.Group("/fee-structures")
	fg.GET("", api.list, gd.roles()...)
	fg.POST("", api.create, gd.roles(user.AdminRoles...)...)
	fg.DELETE("/:id", api.destroy, gd.roles(user.AdminRoles...)...)
}

func (api *feeApi) list(ctx echo.Context) error {
	var filter fee.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	fees, err := api.svc.List(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "listing fee structures")
	}
	return ctx.JSON(http.StatusOK, nonNil(fees))
}

func (api *feeApi) create(ctx echo.Context) error {
	var data fee.NewStructure
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStructure")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	f, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating fee structure")
	}
	return ctx.JSON(http.StatusCreated, f)
}

func (api *feeApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting fee structure")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Message: "Fee structure deleted"})
}
