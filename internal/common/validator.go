package common

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GenericEchoValidator adapts go-playground/validator to echo's Validator
// interface. The zero value is usable; when no Validate instance was
// supplied one is created on first use, guarded for concurrent requests.
type GenericEchoValidator struct {
	Validator *validator.Validate

	initOnce sync.Once
}

func (gv *GenericEchoValidator) Validate(i interface{}) error {
	gv.initOnce.Do(func() {
		if gv.Validator == nil {
			gv.Validator = validator.New()
		}
	})
	if err := gv.Validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("received invalid request body: %v", err))
	}
	return nil
}
