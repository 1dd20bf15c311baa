package config

import (
	"context"
	"reflect"

	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// Validator is an optional interface for custom validation. If the
// struct passed to [Loader.Load] implements it, Validate runs after the
// required tags are checked.
//
// Errors that are already [*errors.Error] are returned as is; others are
// wrapped with KindInvalidParameter.
//
// Example:
//
//	func (c *ProbeConfig) Validate() error {
//	    if c.Scratch <= 0 {
//	        return fmt.Errorf("scratch size %d must be positive", c.Scratch)
//	    }
//	    return nil
//	}
type Validator interface {
	Validate() error
}

// ContextValidator is preferred over [Validator] when both are
// implemented. It receives the context passed to [Loader.Load], so errors
// it builds carry the caller's backtrace.
type ContextValidator interface {
	ValidateContext(ctx context.Context) error
}

func validate(ctx context.Context, cfg any, rv reflect.Value) error {
	if err := validateRequired(ctx, rv, ""); err != nil {
		return err
	}

	var err error
	switch v := cfg.(type) {
	case ContextValidator:
		err = v.ValidateContext(ctx)
	case Validator:
		err = v.Validate()
	}
	if err == nil {
		return nil
	}
	if _, classified := errors.AsError(err); classified {
		return err
	}
	return errors.Wrap(ctx, err, errors.KindInvalidParameter, "config: validation failed")
}

// validateRequired checks fields tagged `required:"true"` hold non-zero
// values. path is the dotted field path used in messages.
func validateRequired(ctx context.Context, rv reflect.Value, path string) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}

		fieldPath := sf.Name
		if path != "" {
			fieldPath = path + "." + sf.Name
		}

		if field.Kind() == reflect.Struct && !isLeaf(field) {
			if err := validateRequired(ctx, field, fieldPath); err != nil {
				return err
			}
			continue
		}

		if sf.Tag.Get("required") == "true" && field.IsZero() {
			return errors.Failf(ctx, errors.KindInvalidParameter,
				"config: required field %q is empty", fieldPath)
		}
	}
	return nil
}
