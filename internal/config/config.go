// Package config loads settings for the hypostat binaries. Values are
// layered: built-in defaults, then a YAML file, then a .env file, then
// HYPOSTAT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is the config file read when no path is given.
	DefaultPath = "hypostat.yaml"

	// DotEnvPath is the .env file read from the working directory.
	DotEnvPath = ".env"

	envPrefix = "HYPOSTAT_"
)

// ErrInvalid indicates a setting that failed to parse or validate.
var ErrInvalid = errors.New("config: invalid setting")

// Config holds the settings shared by the CLI, batch runner and server.
type Config struct {
	Alpha     float64 `yaml:"alpha" validate:"gt=0,lt=1"`
	Precision int     `yaml:"precision" validate:"gte=-1,lte=15"`
	Addr      string  `yaml:"addr" validate:"required"`
	CacheSize int     `yaml:"cache_size" validate:"gte=0"`
	Workers   int     `yaml:"workers" validate:"gte=1"`
	LogLevel  string  `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Alpha:     0.05,
		Precision: 4,
		Addr:      ":8080",
		CacheSize: 256,
		Workers:   runtime.NumCPU(),
		LogLevel:  "info",
	}
}

// Load reads the settings. An empty path reads DefaultPath if it exists;
// an explicit path must exist.
func Load(path string) (Config, error) {
	return load(path, DotEnvPath, os.LookupEnv)
}

func load(path, dotenv string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	required := path != ""
	if path == "" {
		path = DefaultPath
	}
	if err := cfg.readFile(path, required); err != nil {
		return Config{}, err
	}

	fileEnv, err := godotenv.Read(dotenv)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading %s: %w", dotenv, err)
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	floats := map[string]*float64{"ALPHA": &c.Alpha}
	ints := map[string]*int{
		"PRECISION":  &c.Precision,
		"CACHE_SIZE": &c.CacheSize,
		"WORKERS":    &c.Workers,
	}
	strs := map[string]*string{
		"ADDR":      &c.Addr,
		"LOG_LEVEL": &c.LogLevel,
	}

	for name, dst := range floats {
		if v, ok := lookup(envPrefix + name); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q", ErrInvalid, envPrefix, name, v)
			}
			*dst = f
		}
	}
	for name, dst := range ints {
		if v, ok := lookup(envPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q", ErrInvalid, envPrefix, name, v)
			}
			*dst = n
		}
	}
	for name, dst := range strs {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	return nil
}

var configValidate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every setting and reports all violations at once.
func (c Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(fields, ", "))
}
