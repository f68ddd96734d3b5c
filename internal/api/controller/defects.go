package controller

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/domain/dto"
	"github.com/ougirez/roaddefects/internal/pkg/logger"
)

const defaultImageType = "image/jpeg"

var (
	defectTypeOptions = []string{"1", "2", "3", "4", "5"}
	severityOptions   = []string{"1", "2", "3", "4", "5"}
)

// Home renders the defect list. Search problems degrade into an empty list with a message.
func (c *Controller) Home(ctx echo.Context) error {
	sel := dto.SelectionFromQuery(ctx.QueryParams())
	res := c.defectsService.Search(ctx.Request().Context(), sel)

	mapData, err := sonic.ConfigStd.Marshal(res.Records)
	if err != nil {
		logger.Errorf(ctx.Request().Context(), "home: marshal map data: %s", err.Error())
		mapData = []byte("[]")
	}

	return ctx.Render(http.StatusOK, TemplateHome, page(ctx, map[string]any{
		"Records":     res.Records,
		"Error":       res.Error,
		"MapData":     template.JS(mapData),
		"Selection":   sel,
		"DefectTypes": defectTypeOptions,
		"Severities":  severityOptions,
	}))
}

func (c *Controller) ProxyImage(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := strconv.Atoi(id); err != nil {
		return ctx.NoContent(http.StatusNotFound)
	}

	res := c.defectsService.Image(ctx.Request().Context(), id)
	if !res.OK {
		logger.Debugf(ctx.Request().Context(), "proxy image %s: %d %s", id, res.StatusCode, res.Message)
		return ctx.NoContent(http.StatusNotFound)
	}
	defer res.Body.Close()

	contentType := res.ContentType
	if contentType == "" {
		contentType = defaultImageType
	}
	return ctx.Stream(http.StatusOK, contentType, res.Body)
}

func (c *Controller) ListDefects(ctx echo.Context) error {
	records, err := c.defectsService.List(ctx.Request().Context(), dto.SelectionFromQuery(ctx.QueryParams()))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, domain.Success(map[string]any{"defects": records}))
}

func (c *Controller) GetAnalytics(ctx echo.Context) error {
	raw, err := c.defectsService.Analytics(ctx.Request().Context(), ctx.Param("kind"), dto.SelectionFromQuery(ctx.QueryParams()))
	if err != nil {
		return err
	}

	return ctx.JSONBlob(http.StatusOK, raw)
}
