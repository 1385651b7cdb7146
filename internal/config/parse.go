// Copyright 2025 The Reginald Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/reginald-project/taskgate/internal/flags"
	"github.com/reginald-project/taskgate/internal/log"
	"github.com/reginald-project/taskgate/internal/pathname"
)

// Errors returned from the configuration parser.
var (
	ErrInvalidConfig      = errors.New("invalid config")
	errConfigFileNotFound = errors.New("config file not found")
	errInvalidCast        = errors.New("cannot convert type")
)

// textUnmarshalerType is a helper variable for checking if types of fields in
// Config implement [encoding.TextUnmarshaler].
//
//nolint:gochecknoglobals // used like constant
var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// A valueParser holds the current values for the config field that is
// currently being overridden.
type valueParser struct {
	flagSet  *flags.FlagSet
	value    reflect.Value
	field    reflect.StructField
	envName  string
	envValue string
}

// LogValue implements [slog.LogValuer] for valueParser.
func (p *valueParser) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("field", p.field.Name),
		slog.String("type", p.value.Type().String()),
		slog.String("envName", p.envName),
		slog.String("envValue", p.envValue),
		slog.String("flag", p.field.Tag.Get("flag")),
		slog.String("negflag", p.field.Tag.Get("negflag")),
	)
}

// Parse parses the configuration. It starts from [Default], reads the config
// file if one is found, and applies the overrides from the environment
// variables and from the flags in flagSet. The flag set should contain all of
// the flags for the program.
//
// The config file is given with the "--config" flag or with the TASKGATE_CONFIG_FILE
// environment variable. If neither is set, the file is looked up from
// the working directory and from the user config directory, and the defaults
// are used if no file is found.
func Parse(ctx context.Context, logger *slog.Logger, flagSet *flags.FlagSet) (*Config, error) {
	file, err := resolveFile(flagSet)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config file: %w", err)
	}

	rawCfg := make(map[string]any)

	if file != "" {
		log.Trace(ctx, logger, "reading config file", "path", file)

		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err = toml.Unmarshal(data, &rawCfg); err != nil {
			return nil, fmt.Errorf("failed to decode the config file: %w", err)
		}

		log.Trace(ctx, logger, "unmarshaled config file", "cfg", rawCfg)
	}

	normalizeKeys(rawCfg)

	cfg := Default()
	cfg.File = file

	if err = decode(rawCfg, cfg); err != nil {
		return nil, err
	}

	log.Debug(ctx, logger, "read raw config", "cfg", cfg)

	if err = applyOverrides(ctx, logger, reflect.ValueOf(cfg).Elem(), EnvPrefix, flagSet); err != nil {
		return nil, err
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	log.Info(ctx, logger, "parsed config", "cfg", cfg)

	return cfg, nil
}

// Validate checks that the values in cfg are usable.
func Validate(cfg *Config) error {
	if cfg.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalidConfig, cfg.Concurrency)
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: invalid log format %q", ErrInvalidConfig, cfg.Logging.Format)
	}

	if cfg.Logging.Enabled && cfg.Logging.Output == "" {
		return fmt.Errorf("%w: log output must not be empty", ErrInvalidConfig)
	}

	for i, s := range cfg.Sources {
		if s.Type == "" {
			return fmt.Errorf("%w: source %d has no type", ErrInvalidConfig, i)
		}
	}

	return nil
}

// decode decodes the raw config map into cfg.
func decode(rawCfg map[string]any, cfg *Config) error {
	decoderConfig := &mapstructure.DecoderConfig{ //nolint:exhaustruct // use default values
		DecodeHook:  mapstructure.TextUnmarshallerHookFunc(),
		ErrorUnused: true,
		Result:      cfg,
	}

	d, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := d.Decode(rawCfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// resolveFile returns the absolute path of the config file to use. It returns
// an empty string if the user did not name a file and none of the default
// files exists.
func resolveFile(flagSet *flags.FlagSet) (string, error) {
	fileValue := os.Getenv(EnvPrefix + "_CONFIG_FILE")

	if flagSet != nil && flagSet.Changed("config") {
		var err error

		fileValue, err = flagSet.GetString("config")
		if err != nil {
			return "", fmt.Errorf("failed to get the value for command-line option '--config': %w", err)
		}
	}

	// If the file is set but it doesn't resolve, fail so that the program
	// doesn't use a config file from some other location by surprise.
	if fileValue != "" {
		file, err := pathname.Abs(fileValue)
		if err != nil {
			return "", fmt.Errorf("%w", err)
		}

		ok, err := pathname.IsFile(file)
		if err != nil {
			return "", fmt.Errorf("%w", err)
		}

		if !ok {
			return "", fmt.Errorf("%w: %s", errConfigFileNotFound, fileValue)
		}

		return file, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("%w", err)
	}

	candidates := []string{
		filepath.Join(wd, defaultFileName+".toml"),
		filepath.Join(wd, "."+defaultFileName+".toml"),
	}

	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, defaultFileName, defaultFileName+".toml"))
	}

	for _, file := range candidates {
		ok, err := pathname.IsFile(file)
		if err != nil {
			return "", fmt.Errorf("%w", err)
		}

		if ok {
			return file, nil
		}
	}

	return "", nil
}

// normalizeKeys changes the keys in the raw config map into lower case with
// underscores so that the config file may use "kebab-case" or "camelCase" keys
// as well. Tables within arrays are normalized, too.
func normalizeKeys(cfg map[string]any) {
	for k, v := range cfg {
		if key := normalizeKey(k); key != k {
			delete(cfg, k)

			cfg[key] = v
		}

		switch v := v.(type) {
		case map[string]any:
			normalizeKeys(v)
		case []any:
			for _, e := range v {
				if m, ok := e.(map[string]any); ok {
					normalizeKeys(m)
				}
			}
		case []map[string]any:
			for _, m := range v {
				normalizeKeys(m)
			}
		}
	}
}

func normalizeKey(k string) string {
	var b strings.Builder

	prev := rune(0)

	for i, r := range k {
		switch {
		case r == '-':
			r = '_'
		case i > 0 && unicode.IsUpper(r) && prev != '_' && !unicode.IsUpper(prev):
			b.WriteByte('_')
		}

		b.WriteRune(unicode.ToLower(r))

		prev = r
	}

	return b.String()
}

// applyOverrides applies the overrides from the environment variables and from
// the command-line flags to the fields of the struct v. The environment
// variable of a field is its mapstructure name in upper case prefixed with
// prefix.
func applyOverrides(ctx context.Context, logger *slog.Logger, v reflect.Value, prefix string, flagSet *flags.FlagSet) error {
	t := v.Type()

	for i := range v.NumField() {
		field := t.Field(i)
		value := v.Field(i)

		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" || !value.CanSet() {
			continue
		}

		envName := prefix + "_" + strings.ToUpper(name)

		if value.Kind() == reflect.Struct && !canUnmarshal(value) {
			if err := applyOverrides(ctx, logger, value, envName, flagSet); err != nil {
				return err
			}

			continue
		}

		if value.Kind() == reflect.Slice || value.Kind() == reflect.Map {
			continue
		}

		p := &valueParser{
			flagSet:  flagSet,
			value:    value,
			field:    field,
			envName:  envName,
			envValue: os.Getenv(envName),
		}

		log.Trace(ctx, logger, "checking config field", "parser", p)

		if err := p.apply(); err != nil {
			return fmt.Errorf("failed to set config value: %w", err)
		}
	}

	return nil
}

// apply sets the value of the current field from the environment variable and
// the flags, in that order.
func (p *valueParser) apply() error {
	if p.envValue != "" {
		if err := p.set(p.envValue); err != nil {
			return fmt.Errorf("%s=%q: %w", p.envName, p.envValue, err)
		}
	}

	if p.flagSet == nil {
		return nil
	}

	if name := p.field.Tag.Get("flag"); name != "" && p.flagSet.Changed(name) {
		f := p.flagSet.Lookup(name)
		if err := p.set(f.Value.String()); err != nil {
			return fmt.Errorf("--%s=%q: %w", name, f.Value.String(), err)
		}
	}

	if name := p.field.Tag.Get("negflag"); name != "" && p.flagSet.Changed(name) {
		x, err := p.flagSet.GetBool(name)
		if err != nil {
			return fmt.Errorf("failed to get value for --%s: %w", name, err)
		}

		if p.value.Kind() != reflect.Bool {
			return fmt.Errorf("%w: --%s on %s field %s", errInvalidCast, name, p.value.Kind(), p.field.Name)
		}

		if x {
			p.value.SetBool(false)
		}
	}

	return nil
}

// set parses s into the current field. Types that implement
// [encoding.TextUnmarshaler] are parsed using it.
func (p *valueParser) set(s string) error {
	if canUnmarshal(p.value) {
		ptr := reflect.New(p.value.Type())

		u, ok := ptr.Interface().(encoding.TextUnmarshaler)
		if !ok {
			return fmt.Errorf("%w: type of %q to TextUnmarshaler", errInvalidCast, p.field.Name)
		}

		if err := u.UnmarshalText([]byte(s)); err != nil {
			return fmt.Errorf("failed to unmarshal %q: %w", s, err)
		}

		p.value.Set(ptr.Elem())

		return nil
	}

	switch p.value.Kind() { //nolint:exhaustive // implemented as needed
	case reflect.Bool:
		x, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("%w", err)
		}

		p.value.SetBool(x)
	case reflect.Int:
		x, err := strconv.ParseInt(s, 10, 0)
		if err != nil {
			return fmt.Errorf("%w", err)
		}

		p.value.SetInt(x)
	case reflect.String:
		p.value.SetString(s)
	default:
		panic(fmt.Sprintf("unsupported config field type for %s: %s", p.field.Name, p.value.Kind()))
	}

	return nil
}

// canUnmarshal reports whether a pointer to v implements
// [encoding.TextUnmarshaler].
func canUnmarshal(v reflect.Value) bool {
	return reflect.PointerTo(v.Type()).Implements(textUnmarshalerType)
}
