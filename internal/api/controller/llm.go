package controller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/domain/dto"
	"github.com/ougirez/roaddefects/internal/pkg/constants"
	"github.com/ougirez/roaddefects/internal/pkg/logger"
)

// GenerateReport runs the defect search for the posted selection and asks the
// model for a report over the result.
func (c *Controller) GenerateReport(ctx echo.Context) error {
	var sel dto.Selection
	if err := ctx.Bind(&sel); err != nil {
		return err
	}
	if sel.IsEmpty() {
		return constants.ErrBadRequest.Wrapf("request contains no filter conditions")
	}

	res := c.defectsService.Search(ctx.Request().Context(), sel)
	if len(res.Records) == 0 {
		logger.Infof(ctx.Request().Context(), "generate report: %s", res.Error)
		return constants.ErrNoDefects
	}

	content := c.reportService.GenerateReport(ctx.Request().Context(), res.Records)

	return ctx.JSON(http.StatusOK, domain.Success(map[string]any{"report_content": content}))
}

func (c *Controller) AnalyzeDefect(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := strconv.Atoi(id); err != nil {
		return constants.ErrBadRequest.Wrapf("invalid defect id %q", id)
	}

	defect, err := c.defectsService.Get(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	analysis := c.reportService.AnalyzeDefect(ctx.Request().Context(), defect)

	return ctx.JSON(http.StatusOK, domain.Success(map[string]any{
		"defect_id": id,
		"analysis":  analysis,
	}))
}
