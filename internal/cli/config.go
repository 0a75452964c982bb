package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// RunConfig captures all inputs of the dump and openapi commands after
// merging defaults, config file values, and CLI overrides.
type RunConfig struct {
	Input      string
	Format     string
	Out        string
	Timeout    time.Duration
	Retries    int
	ConfigPath string
	Verbose    bool

	stdout io.Writer
	logger *slog.Logger
}

func defaultRunConfig(format string) RunConfig {
	return RunConfig{Format: format, Timeout: 10 * time.Second, Retries: 3}
}

func (c *RunConfig) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.logger
}

func addRunFlags(flags *pflag.FlagSet, formats []string) {
	flags.String("input", "", "Path or URL to the declaration file")
	flags.String("format", "", fmt.Sprintf("Output format (%s); defaults to %s", strings.Join(formats, "|"), formats[0]))
	flags.String("out", "", "Output file (stdout when omitted)")
	flags.Duration("timeout", 0, "Timeout for fetching a remote declaration")
	flags.Int("retries", 0, "Retries for transient fetch failures")
}

// resolveRunConfig merges the config file and flags of cmd. The first entry
// of formats is the default.
func resolveRunConfig(cmd *cobra.Command, formats []string) (*RunConfig, error) {
	cfg := defaultRunConfig(formats[0])

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyRunConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyRunFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize(formats[0])
	if err := cfg.validate(cmd.Name(), formats); err != nil {
		return nil, err
	}

	cfg.stdout = cmd.OutOrStdout()
	cfg.logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	return &cfg, nil
}

func applyRunFlagOverrides(flags *pflag.FlagSet, cfg *RunConfig) error {
	if flags.Changed("input") {
		value, err := flags.GetString("input")
		if err != nil {
			return err
		}
		cfg.Input = value
	}
	if flags.Changed("format") {
		value, err := flags.GetString("format")
		if err != nil {
			return err
		}
		cfg.Format = value
	}
	if flags.Changed("out") {
		value, err := flags.GetString("out")
		if err != nil {
			return err
		}
		cfg.Out = value
	}
	if flags.Changed("timeout") {
		value, err := flags.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = value
	}
	if flags.Changed("retries") {
		value, err := flags.GetInt("retries")
		if err != nil {
			return err
		}
		cfg.Retries = value
	}
	if flags.Changed("verbose") {
		value, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = value
	}
	return nil
}

func (c *RunConfig) normalize(defaultFormat string) {
	c.Input = strings.TrimSpace(c.Input)
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format == "yml" {
		c.Format = "yaml"
	}
	if c.Format == "" {
		c.Format = defaultFormat
	}
	c.Out = strings.TrimSpace(c.Out)
}

func (c *RunConfig) validate(command string, formats []string) error {
	if c.Input == "" {
		return newUsageError(fmt.Sprintf("%s: --input is required (set via flag or config file)", command))
	}
	allowed := false
	for _, f := range formats {
		allowed = allowed || f == c.Format
	}
	if !allowed {
		return newUsageError(fmt.Sprintf("%s: unsupported --format %q (allowed: %s)", command, c.Format, strings.Join(formats, ", ")))
	}
	if c.Timeout <= 0 {
		return newUsageError(fmt.Sprintf("%s: --timeout must be positive", command))
	}
	if c.Retries < 0 {
		return newUsageError(fmt.Sprintf("%s: --retries must not be negative", command))
	}
	return nil
}

func applyRunConfigFromFile(cfg *RunConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	for key, value := range raw {
		var err error
		switch normalizeKey(key) {
		case "input":
			cfg.Input, err = valueAsString(value)
		case "format":
			cfg.Format, err = valueAsString(value)
		case "out":
			cfg.Out, err = valueAsString(value)
		case "timeout":
			cfg.Timeout, err = valueAsDuration(value)
		case "retries":
			cfg.Retries, err = valueAsInt(value)
		case "verbose":
			cfg.Verbose, err = valueAsBool(value)
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
		if err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
	}

	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func valueAsInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case float64:
		if val != float64(int(val)) {
			return 0, fmt.Errorf("expected integer, got %v", val)
		}
		return int(val), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

// valueAsDuration accepts Go duration strings ("2s") or whole seconds.
func valueAsDuration(v any) (time.Duration, error) {
	switch val := v.(type) {
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", val)
		}
		return d, nil
	case int:
		return time.Duration(val) * time.Second, nil
	default:
		return 0, fmt.Errorf("expected duration, got %T", v)
	}
}
