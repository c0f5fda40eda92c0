package http

import (
	"strconv"

	xutil "FxScore/pkg/util"

	"github.com/labstack/echo/v4"
)

// QueryInt reads an integer query parameter. An absent parameter yields def; a present one
// must parse and be at least min, otherwise the returned error is a 400 naming the field.
func QueryInt(c echo.Context, name string, def, min int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, BadRequestErrorf("%s must be an integer, got %q", name, raw).WithField(name)
	}
	if v < min {
		return 0, BadRequestErrorf("%s must be at least %d, got %d", name, min, v).WithField(name)
	}
	return v, nil
}

// QueryBool reads a boolean query parameter; yes/no and on/off are accepted too.
func QueryBool(c echo.Context, name string, def bool) bool {
	return xutil.ParseBoolDefault(c.QueryParam(name), def)
}
