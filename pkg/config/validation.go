package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	seederrors "github.com/wallseed/wallseed/pkg/errors"
	"github.com/wallseed/wallseed/pkg/models"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("mode", func(fl validator.FieldLevel) bool {
			_, err := models.ParseMode(fl.Field().String())
			return err == nil
		})

		validateInst = v
	})

	return validateInst
}

// Validate checks field constraints and reports the first violation.
func Validate(cfg *Config) error {
	if cfg == nil {
		return seederrors.NewValidationError("config", "configuration is nil", nil)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			field := strings.TrimPrefix(fe.Namespace(), "Config.")
			return seederrors.NewValidationError(field, describe(fe), err)
		}
		return seederrors.NewValidationError("config", err.Error(), err)
	}

	switch cfg.Model.Provider {
	case "ollama":
		if cfg.Model.Endpoint == "" {
			return seederrors.NewValidationError("model.endpoint", "is required for the ollama provider", nil)
		}
	case "gemini":
		if cfg.Model.APIKey == "" {
			return seederrors.NewValidationError("model.api_key", "is required for the gemini provider", nil)
		}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "mode":
		return fmt.Sprintf("must be auto, dark or light, got %q", fe.Value())
	case "url":
		return fmt.Sprintf("must be a URL, got %q", fe.Value())
	case "gt", "gte", "lte":
		return fmt.Sprintf("must satisfy %s %s, got %v", fe.Tag(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
