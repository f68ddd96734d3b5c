package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/domain/dto"
)

func (c *Controller) GetCities(ctx echo.Context) error {
	cities, err := c.locationsService.Cities(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, domain.Success(cities))
}

func (c *Controller) GetLocationList(ctx echo.Context) error {
	hierarchy, err := c.locationsService.List(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, domain.Success(hierarchy))
}

func (c *Controller) GetDistricts(ctx echo.Context) error {
	districts, err := c.locationsService.Districts(ctx.Request().Context(), ctx.QueryParam(dto.ParamCity))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, domain.Success(districts))
}

func (c *Controller) GetRoads(ctx echo.Context) error {
	roads, err := c.locationsService.Roads(ctx.Request().Context(),
		ctx.QueryParam(dto.ParamCity), ctx.QueryParam(dto.ParamDistrict))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, domain.Success(roads))
}
