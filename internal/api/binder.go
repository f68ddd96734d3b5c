package api

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/roaddefects/internal/pkg/constants"
)

// Binder binds with echo's default rules and then runs the validator.
type Binder struct {
	echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i interface{}, c echo.Context) error {
	if err := b.DefaultBinder.Bind(i, c); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return constants.ErrBadRequest.Wrapf("%s", fmt.Sprint(he.Message))
		}
		return constants.ErrBadRequest.Wrapf("%s", err.Error())
	}

	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(i)
}
