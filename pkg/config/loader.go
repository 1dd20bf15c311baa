// Package config loads tool and test-harness settings from struct tag
// defaults, YAML/JSON files, environment variables and parsed command-line
// flags. Values are resolved in priority order:
//
//	envDefault struct tags  (lowest priority)
//	YAML/JSON config file
//	Environment variables
//	Command-line flags      (highest priority)
//
// # Struct Tags
//
//   - `env:"VAR_NAME"` maps the field to an environment variable
//   - `envDefault:"value"` sets a default when the field is zero-valued
//   - `flag:"name"` maps the field to the long flag --name=value
//   - `required:"true"` fails validation if the field remains zero
//
// Fields also need `yaml` or `json` tags for file-based loading.
//
// Any field whose pointer implements [encoding.TextUnmarshaler] (such as
// [diag.Severity]) is set through UnmarshalText.
//
// # Usage
//
//	type ProbeConfig struct {
//	    Scratch int           `env:"SCRATCH" envDefault:"8" yaml:"scratch" flag:"scratch"`
//	    Timeout time.Duration `env:"TIMEOUT" envDefault:"5s" yaml:"timeout"`
//	}
//
//	cfg := config.MustLoad[ProbeConfig](ctx,
//	    config.New().WithEnvPrefix("PROBE").WithFile("probe.yaml"),
//	)
package config

import (
	"context"
	"encoding"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/StricklySoft/stricklysoft-sys/pkg/args"
	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// durationType distinguishes time.Duration from plain int64 fields.
var durationType = reflect.TypeOf(time.Duration(0))

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// Loader resolves configuration in layers. Use [New] and the With methods
// before calling [Loader.Load].
//
// Loader is not safe for concurrent use.
type Loader struct {
	envPrefix  string
	filePath   string
	fileNeeded bool
	flags      *args.Result
}

// New creates a Loader that reads environment variables only.
func New() *Loader {
	return &Loader{}
}

// WithEnvPrefix sets a prefix joined with "_" to every env tag. The
// prefix is uppercased; empty disables prefixing.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = strings.ToUpper(prefix)
	return l
}

// WithFile sets a YAML (.yaml, .yml) or JSON (.json) file to load. A
// missing file is skipped unless [Loader.RequireFile] is set. The path
// must not contain "..".
func (l *Loader) WithFile(path string) *Loader {
	l.filePath = path
	return l
}

// RequireFile makes a missing file a KindNoSuchObject failure.
func (l *Loader) RequireFile() *Loader {
	l.fileNeeded = true
	return l
}

// WithArgs applies long flags from a parsed command line to fields with
// a matching flag tag. Flags without a value set booleans to true.
func (l *Loader) WithArgs(res *args.Result) *Loader {
	l.flags = res
	return l
}

// Load populates cfg, which must be a non-nil pointer to a struct, and
// validates it. Required fields left empty fail with
// KindInvalidParameter, as do errors returned by a [Validator] that are
// not already classified.
func (l *Loader) Load(ctx context.Context, cfg any) error {
	defer callstack.Enter(ctx, "config.Load").Exit()

	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.Fail(ctx, errors.KindInvalidParameter,
			"config: Load requires a non-nil pointer to a struct")
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return errors.Failf(ctx, errors.KindInvalidParameter,
			"config: Load requires a pointer to a struct, got %s", rv.Kind())
	}

	if err := applyDefaults(ctx, rv); err != nil {
		return err
	}
	if l.filePath != "" {
		if err := l.loadFile(ctx, cfg); err != nil {
			return err
		}
	}
	if err := applyEnv(ctx, rv, l.envPrefix); err != nil {
		return err
	}
	if l.flags != nil {
		if err := applyFlags(ctx, rv, l.flags); err != nil {
			return err
		}
	}
	return validate(ctx, cfg, rv)
}

// MustLoad loads a T or reports the failure through [errors.Fatal],
// which aborts the process. Use it at program entry points.
func MustLoad[T any](ctx context.Context, loader *Loader) T {
	var cfg T
	if err := loader.Load(ctx, &cfg); err != nil {
		errors.Fatal(ctx, "config", err)
	}
	return cfg
}

func (l *Loader) loadFile(ctx context.Context, cfg any) error {
	if strings.Contains(l.filePath, "..") {
		return errors.Fail(ctx, errors.KindInvalidParameter,
			"config: file path must not contain directory traversal (..) sequences")
	}

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		if os.IsNotExist(err) && !l.fileNeeded {
			return nil
		}
		return errors.WrapNative(ctx, err, "config: read %q", l.filePath)
	}

	switch ext := strings.ToLower(filepath.Ext(l.filePath)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errors.Wrapf(ctx, err, errors.KindBadContent,
				"config: parse YAML file %q", l.filePath)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return errors.Wrapf(ctx, err, errors.KindBadContent,
				"config: parse JSON file %q", l.filePath)
		}
	default:
		return errors.Failf(ctx, errors.KindInvalidParameter,
			"config: unsupported file extension %q (use .yaml, .yml, or .json)", ext)
	}
	return nil
}

// isLeaf reports whether a struct-kinded field is set as a single value
// rather than traversed.
func isLeaf(field reflect.Value) bool {
	return field.Type() == durationType ||
		(field.CanAddr() && field.Addr().Type().Implements(textUnmarshalerType))
}

func applyDefaults(ctx context.Context, rv reflect.Value) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct && !isLeaf(field) {
			if err := applyDefaults(ctx, field); err != nil {
				return err
			}
			continue
		}

		tag := sf.Tag.Get("envDefault")
		if tag == "" || !field.IsZero() {
			continue
		}
		if err := setField(field, tag); err != nil {
			return errors.Wrapf(ctx, err, errors.KindBadContent,
				"config: default for field %q", sf.Name)
		}
	}
	return nil
}

// applyEnv sets fields from their env tags. A nested struct's env tag is
// joined to the prefix of its children.
func applyEnv(ctx context.Context, rv reflect.Value, prefix string) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}

		envTag := sf.Tag.Get("env")
		if field.Kind() == reflect.Struct && !isLeaf(field) {
			if err := applyEnv(ctx, field, joinEnv(prefix, envTag)); err != nil {
				return err
			}
			continue
		}
		if envTag == "" {
			continue
		}

		key := joinEnv(prefix, envTag)
		val, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		if err := setField(field, val); err != nil {
			return errors.Wrapf(ctx, err, errors.KindBadContent,
				"config: field %q from env var %q", sf.Name, key)
		}
	}
	return nil
}

func joinEnv(prefix, name string) string {
	switch {
	case name == "":
		return prefix
	case prefix == "":
		return name
	}
	return prefix + "_" + name
}

func applyFlags(ctx context.Context, rv reflect.Value, res *args.Result) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct && !isLeaf(field) {
			if err := applyFlags(ctx, field, res); err != nil {
				return err
			}
			continue
		}

		name := sf.Tag.Get("flag")
		if name == "" {
			continue
		}
		f, ok := res.Flag(name)
		if !ok {
			continue
		}
		value := f.Value
		if !f.HasValue {
			if field.Kind() != reflect.Bool {
				return errors.Failf(ctx, errors.KindInvalidParameter,
					"config: flag --%s needs a value", name)
			}
			value = "true"
		}
		if err := setField(field, value); err != nil {
			return errors.Wrapf(ctx, err, errors.KindBadContent,
				"config: field %q from flag --%s", sf.Name, name)
		}
	}
	return nil
}

// setField parses value into field. Supported types are text
// unmarshalers, string, bool, signed and unsigned integers,
// time.Duration and []string (comma-separated).
func setField(field reflect.Value, value string) error {
	if field.CanAddr() {
		if u, ok := field.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(value))
		}
	}
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("cannot parse duration %q: %w", value, err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cannot parse bool %q: %w", value, err)
		}
		field.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("cannot parse integer %q: %w", value, err)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(value, 0, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("cannot parse unsigned integer %q: %w", value, err)
		}
		field.SetUint(n)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type %s", field.Type().Elem().Kind())
		}
		parts := strings.Split(value, ",")
		// MakeSlice keeps named slice types assignable.
		slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
		for i, p := range parts {
			slice.Index(i).SetString(strings.TrimSpace(p))
		}
		field.Set(slice)

	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}
	return nil
}
