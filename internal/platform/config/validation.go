package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

// ErrInvalid wraps every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

// validate names fields by their koanf keys.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("koanf"); name != "" && name != "-" {
			return name
		}

		return fld.Name
	})

	return v
}()

// Validate reports every bad setting at once. The service refuses to
// start on any of them.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	var combined error
	for _, fe := range fieldErrs {
		combined = multierr.Append(combined, fmt.Errorf("%w: %s", ErrInvalid, describe(fe)))
	}

	return combined
}

// describe renders fe against its config key, e.g. "server.port must be at most 65535".
func describe(fe validator.FieldError) string {
	key := configKey(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_if":
		return key + " is required when " + fe.Param()
	case "min":
		return key + " must be at least " + fe.Param()
	case "max":
		return key + " must be at most " + fe.Param()
	case "oneof":
		return key + " must be one of: " + fe.Param()
	case "hostname_port":
		return key + " must be a host:port address"
	}

	return key + " failed " + fe.Tag()
}

// configKey drops the root struct name from a validator namespace.
func configKey(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}

	return namespace
}
