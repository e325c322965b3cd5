// Package config loads bank configurations.
//
// A configuration file is TOML unless its extension says YAML. As with the
// file name given to the original tool, the extension may be left out, in
// which case .toml, .yaml and .yml are tried in that order. Scalar settings
// can be overridden from the environment with the BANK2LEDGER_ prefix, e.g.
// BANK2LEDGER_DEFAULT_CURRENCY=EUR.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml"
	"github.com/plenert/bank2ledger"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "BANK2LEDGER"

var extensions = []string{".toml", ".yaml", ".yml"}

// overrides are the settings that may come from the environment.
type overrides struct {
	DefaultFirstAccount  string `envconfig:"DEFAULT_FIRST_ACCOUNT"`
	DefaultSecondAccount string `envconfig:"DEFAULT_SECOND_ACCOUNT"`
	DefaultCurrency      string `envconfig:"DEFAULT_CURRENCY"`
	MinusIsExpense       *bool  `envconfig:"MINUS_IS_EXPENSE"`
	DateFormat           string `envconfig:"DATE_FORMAT"`
	DateRegex            string `envconfig:"DATE_REGEX"`
	Delimiter            string `envconfig:"DELIMITER"`
	Encoding             string `envconfig:"ENCODING"`
	Sheet                string `envconfig:"SHEET"`
	HasHeaders           *bool  `envconfig:"HAS_HEADERS"`
	Debug                *bool  `envconfig:"DEBUG"`
}

func (o overrides) apply(s *bank2ledger.Settings) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setString(&s.DefaultFirstAccount, o.DefaultFirstAccount)
	setString(&s.DefaultSecondAccount, o.DefaultSecondAccount)
	setString(&s.DefaultCurrency, o.DefaultCurrency)
	setString(&s.DateFormat, o.DateFormat)
	setString(&s.DateRegex, o.DateRegex)
	setString(&s.Delimiter, o.Delimiter)
	setString(&s.Encoding, o.Encoding)
	setString(&s.Sheet, o.Sheet)
	if o.MinusIsExpense != nil {
		s.MinusIsExpense = o.MinusIsExpense
	}
	if o.HasHeaders != nil {
		s.HasHeaders = o.HasHeaders
	}
	if o.Debug != nil {
		s.Debug = *o.Debug
	}
}

// Load reads the configuration at path, applies environment overrides and
// checks that the result is structurally complete.
func Load(path string) (bank2ledger.Settings, error) {
	var s bank2ledger.Settings

	path, err := resolve(path)
	if err != nil {
		return s, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := Decode(data, filepath.Ext(path), &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}

	var env overrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return s, fmt.Errorf("failed to load config from env: %w", err)
	}
	env.apply(&s)

	if err := Validate(s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func resolve(path string) (string, error) {
	if filepath.Ext(path) != "" {
		return path, nil
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	for _, ext := range extensions {
		if _, err := os.Stat(path + ext); err == nil {
			return path + ext, nil
		}
	}
	return "", fmt.Errorf("config file %s not found (tried %s)", path, strings.Join(extensions, ", "))
}

// Decode unmarshals data in the format named by ext into s.
func Decode(data []byte, ext string, s *bank2ledger.Settings) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, s)
	default:
		return toml.Unmarshal(data, s)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks s field by field. Every failing field is reported as a
// *bank2ledger.ConfigError.
func Validate(s bank2ledger.Settings) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		errs = append(errs, &bank2ledger.ConfigError{Field: field, Err: fmt.Errorf("failed %q validation", rule)})
	}
	return errors.Join(errs...)
}
