package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core/setting"
	"github.com/alfurqan/portal/core/user"
)

type settingApi struct {
	svc      *setting.Service
	validate *validator.Validate
}

func registerSettingAPI(g *echo.Group, gd guard, svc *setting.Service, validate *validator.Validate) {
	api := settingApi{svc: svc, validate: validate}

	sg := g.Group("/settings")
	sg.GET("", api.list)
	sg.POST("", api.update, gd.roles(user.AdminRoles...)...)
}

func (api *settingApi) list(ctx echo.Context) error {
	settings, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing settings")
	}
	return ctx.JSON(http.StatusOK, nonNil(settings))
}

func (api *settingApi) update(ctx echo.Context) error {
	var data setting.Update
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Update")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	updated, err := api.svc.Upsert(ctx.Request().Context(), data.Settings...)
	if err != nil {
		return errors.Wrap(err, "updating settings")
	}
	return ctx.JSON(http.StatusOK, updated)
}
