package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rubiojr/armory/pkg/index"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Registration only fails for empty tags or nil funcs.
		_ = validate.RegisterValidation("search_field", func(fl validator.FieldLevel) bool {
			return index.IsToggle(fl.Field().String())
		})
	})
	return validate
}

// Validate checks field constraints and that the default tab exists.
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s", describe(verrs[0]))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, ok := c.Tabs[c.DefaultTab]; !ok {
		return fmt.Errorf("invalid config: default_tab %q is not a configured tab", c.DefaultTab)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("missing required field '%s'", fe.Namespace())
	case "min", "max":
		return fmt.Sprintf("value of '%s' is out of range", fe.Namespace())
	case "oneof":
		return fmt.Sprintf("'%s' must be one of: %s", fe.Namespace(), fe.Param())
	case "search_field":
		return fmt.Sprintf("unknown search field %q in '%s'", fe.Value(), fe.Namespace())
	}
	return fe.Error()
}
