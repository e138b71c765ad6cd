/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	// Backends register themselves with the registry
	_ "github.com/suparena/contenttemplate/datastore/ddb"
	_ "github.com/suparena/contenttemplate/datastore/sqlstore"

	"github.com/suparena/contenttemplate/errors"
	"github.com/suparena/contenttemplate/registry"
	"github.com/suparena/contenttemplate/resolver"
)

// Config lists the providers to register with a resolver
type Config struct {
	Providers []ProviderConfig `yaml:"providers" validate:"required,min=1,unique=Authority,dive"`
}

// ProviderConfig describes one provider and the authority it serves
type ProviderConfig struct {
	Authority string `yaml:"authority" validate:"required,hostname_rfc1123"`
	Backend   string `yaml:"backend" validate:"required,oneof=sqlite pgx mysql dynamodb memory"`
	DSN       string `yaml:"dsn"`
	Region    string `yaml:"region" validate:"required_if=Backend dynamodb"`
	Endpoint  string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKey string `yaml:"accessKey" validate:"required_with=SecretKey"`
	SecretKey string `yaml:"secretKey" validate:"required_with=AccessKey"`
	KeyColumn string `yaml:"keyColumn"`
}

// Spec converts p into the settings a registered backend reads
func (p ProviderConfig) Spec() registry.BackendSpec {
	return registry.BackendSpec{
		Kind:      p.Backend,
		Authority: p.Authority,
		DSN:       p.DSN,
		Region:    p.Region,
		AccessKey: p.AccessKey,
		SecretKey: p.SecretKey,
		Endpoint:  p.Endpoint,
		KeyColumn: p.KeyColumn,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report yaml names in validation errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(ProviderConfig)
		switch p.Backend {
		case "sqlite", "pgx", "mysql":
			if p.DSN == "" {
				sl.ReportError(p.DSN, "dsn", "DSN", "dsn", p.Backend)
			}
		}
	}, ProviderConfig{})

	return v
}

func msgForTag(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, fe.Param())
	case "required_with":
		return fmt.Sprintf("%s is required together with %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not repeat an %s", field, strings.ToLower(fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "hostname_rfc1123":
		return fmt.Sprintf("%s must be a valid host name", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "dsn":
		return fmt.Sprintf("%s is required for the %s backend", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// Validate checks cfg and returns every problem joined into one error.
// Each problem is an errors.ValidationError naming the offending field.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.NewValidationError("config", "configuration is required")
	}
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return err
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := strings.TrimPrefix(fe.Namespace(), "Config.")
		errs = append(errs, errors.NewValidationError(path, msgForTag(fe)))
	}
	return stderrors.Join(errs...)
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references with the environment value. A bare
// $ is left alone, so DSNs and secrets may contain one.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}

// Parse decodes a YAML configuration, expanding ${VAR} references from the
// environment first, and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := expandEnv(string(data))

	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the configuration at path. The given env files, or .env in
// the working directory when none are given, are loaded into the
// environment before expansion. A missing default .env is not an error.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	cfg, err := Parse(bytes.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// BuildResolver opens every configured provider through the backend
// registry and registers it under its authority. On failure the providers
// opened so far are closed.
func BuildResolver(ctx context.Context, cfg *Config, logger *slog.Logger, opts ...resolver.Option) (*resolver.Resolver, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := resolver.New(append([]resolver.Option{resolver.WithLogger(logger)}, opts...)...)
	for _, p := range cfg.Providers {
		open, err := registry.GetBackend(p.Backend)
		if err != nil {
			return nil, stderrors.Join(err, r.Close())
		}
		provider, err := open(ctx, p.Spec(), logger)
		if err != nil {
			return nil, stderrors.Join(fmt.Errorf("failed to open %s provider for %q: %w", p.Backend, p.Authority, err), r.Close())
		}
		if err := r.Register(p.Authority, provider); err != nil {
			if c, ok := provider.(io.Closer); ok {
				c.Close()
			}
			return nil, stderrors.Join(err, r.Close())
		}
		logger.Info("provider registered", "authority", p.Authority, "backend", p.Backend)
	}
	return r, nil
}
