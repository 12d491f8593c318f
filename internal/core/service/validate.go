package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yndnr/tcplink/internal/core/domain"
)

// validate is shared; validator caches struct metadata per instance.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateRequest validates req against its struct tags. A missing required
// field yields ErrMissingArgument, any other violation ErrInvalidArgument.
func ValidateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ErrInvalidArgument.Wrap(err).WithDetails(err.Error())
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return domain.ErrMissingArgument.WithDetails(fe.Field())
		}
	}
	fe := verrs[0]
	detail := fmt.Sprintf("%s fails %q", fe.Field(), fe.Tag())
	if fe.Param() != "" {
		detail = fmt.Sprintf("%s fails %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return domain.ErrInvalidArgument.WithDetails(detail)
}
