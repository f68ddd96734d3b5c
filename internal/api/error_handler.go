package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/roaddefects/internal/api/controller"
	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/pkg/constants"
	"github.com/ougirez/roaddefects/internal/pkg/logger"
	"go.uber.org/zap"
)

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	msg := err.Error()
	code := http.StatusInternalServerError
	for e := err; e != nil; e = errors.Unwrap(e) {
		if ce, ok := e.(*constants.CodedError); ok {
			code = ce.Code()
			break
		}
		if he, ok := e.(*echo.HTTPError); ok {
			code = he.Code
			msg = fmt.Sprint(he.Message)
			break
		}
	}

	ctx := c.Request().Context()
	if code >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", code),
			zap.Error(err),
		)
	} else {
		logger.Debugf(ctx, "%s %s: %s", c.Request().Method, c.Request().URL.Path, err.Error())
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	if isAPIRequest(c) {
		_ = c.JSON(code, domain.ErrorResponse{
			Status:  domain.StatusError,
			Message: msg,
			Code:    code,
		})
		return
	}

	_ = c.Render(code, controller.TemplateError, map[string]any{
		"Code":    code,
		"Message": msg,
	})
}
