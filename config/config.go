// Package config loads the pipeline configuration from a file, the
// environment and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/generator"
	"github.com/rjegjin/Specific-Skills-and-Accomplishments/record"
)

const (
	configName = "seteuk"
	envPrefix  = "SETEUK"
)

// ErrConfiguration marks a missing or invalid setting. It is fatal at startup.
var ErrConfiguration = errors.New("configuration error")

// Config is the complete pipeline configuration.
type Config struct {
	SourcePath      string            `mapstructure:"source_path" validate:"required"`
	StructuredPath  string            `mapstructure:"structured_path" validate:"required"`
	OutputDir       string            `mapstructure:"output_dir" validate:"required"`
	PromptsFile     string            `mapstructure:"prompts_file"`
	ProhibitedTerms []string          `mapstructure:"prohibited_terms" validate:"min=1,dive,required"`
	PromptTemplates map[string]string `mapstructure:"prompt_templates" validate:"dive,keys,oneof=course career autonomous behavior,endkeys"`

	Sink       SinkConfig       `mapstructure:"sink"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Generation GenerationConfig `mapstructure:"generation"`
	Server     ServerConfig     `mapstructure:"server"`
	Tabs       record.Tabs      `mapstructure:"tabs"`
	Log        LogConfig        `mapstructure:"log"`
}

// SinkConfig selects where final results go.
type SinkConfig struct {
	Kind            string `mapstructure:"kind" validate:"oneof=sheets csv"`
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	Worksheet       string `mapstructure:"worksheet" validate:"required"`
	CSVPath         string `mapstructure:"csv_path"`
	CredentialsFile string `mapstructure:"credentials_file"`
	BaseURL         string `mapstructure:"base_url" validate:"omitempty,url"`
}

// LLMConfig holds the generative model settings.
type LLMConfig struct {
	Provider string `mapstructure:"provider" validate:"oneof=gemini openai mock"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url" validate:"omitempty,url"`
}

// GenerationConfig controls batch behavior.
type GenerationConfig struct {
	SkipFailures bool          `mapstructure:"skip_failures"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"min=0"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// Options tells Load where to look.
type Options struct {
	// Path is an explicit config file; when empty ./seteuk.{yaml,json,toml} is tried.
	Path string
	Fs   afero.Fs
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("source_path", filepath.Join("세특", "observation_logs.csv"))
	v.SetDefault("structured_path", filepath.Join("세특", "structured_observations.json"))
	v.SetDefault("output_dir", filepath.Join("세특", "qualitative_seteuk_output"))
	v.SetDefault("prompts_file", "")
	v.SetDefault("prohibited_terms", generator.DefaultProhibitedTerms)
	v.SetDefault("prompt_templates", map[string]string{})

	v.SetDefault("sink.kind", "sheets")
	v.SetDefault("sink.spreadsheet_id", "")
	v.SetDefault("sink.worksheet", "세특최종결과물")
	v.SetDefault("sink.csv_path", filepath.Join("세특", "qualitative_seteuk_output", "results.csv"))
	v.SetDefault("sink.credentials_file", "")
	v.SetDefault("sink.base_url", "")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", generator.DefaultGeminiModel)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")

	v.SetDefault("generation.skip_failures", false)
	v.SetDefault("generation.timeout", 60*time.Second)

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("tabs.homeroom", record.DefaultTabs.Homeroom)
	v.SetDefault("tabs.roles", record.DefaultTabs.Roles)
	v.SetDefault("tabs.target_school", record.DefaultTabs.TargetSchool)
	v.SetDefault("tabs.auto_summary", record.DefaultTabs.AutoSummary)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads defaults, the config file and SETEUK_* environment variables,
// in increasing priority, and validates the result.
func Load(opts Options) (*Config, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	v := viper.New()
	v.SetFs(fs)
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Path != "" {
		v.SetConfigFile(opts.Path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.Path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: read config: %v", ErrConfiguration, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: decode config: %v", ErrConfiguration, err)
	}
	cfg.applyEnvKeys()

	if cfg.PromptsFile != "" {
		extra, err := loadPrompts(fs, cfg.PromptsFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		if cfg.PromptTemplates == nil {
			cfg.PromptTemplates = map[string]string{}
		}
		for k, t := range extra {
			cfg.PromptTemplates[k] = t
		}
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return &cfg, nil
}

// applyEnvKeys fills the API key from the provider's conventional variable.
func (c *Config) applyEnvKeys() {
	if c.LLM.APIKey != "" {
		return
	}
	switch c.LLM.Provider {
	case "gemini":
		c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	case "openai":
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

// RequireLLM reports a configuration error when the provider needs a key
// that is not set.
func (c *Config) RequireLLM() error {
	if c.LLM.Provider != "mock" && strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("%w: API key for %s not found in config or environment", ErrConfiguration, c.LLM.Provider)
	}
	return nil
}

// RequireSink reports a configuration error when the selected sink lacks
// the settings it needs.
func (c *Config) RequireSink() error {
	switch c.Sink.Kind {
	case "sheets":
		if c.Sink.SpreadsheetID == "" || c.Sink.CredentialsFile == "" {
			return fmt.Errorf("%w: sheets sink needs sink.spreadsheet_id and sink.credentials_file", ErrConfiguration)
		}
	case "csv":
		if c.Sink.CSVPath == "" {
			return fmt.Errorf("%w: csv sink needs sink.csv_path", ErrConfiguration)
		}
	}
	return nil
}

// Terms returns the prohibited-term set.
func (c *Config) Terms() generator.TermSet {
	return generator.NewTermSet(c.ProhibitedTerms)
}

// Templates returns the built-in prompts overridden by configured ones.
func (c *Config) Templates() generator.Templates {
	return generator.DefaultTemplates().Merge(c.PromptTemplates)
}

// ResultsPath is where integrated records are kept between runs.
func (c *Config) ResultsPath() string {
	return filepath.Join(c.OutputDir, "results.json")
}

// loadPrompts reads a YAML mapping of area to system instruction.
func loadPrompts(fs afero.Fs, path string) (map[string]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}
	var out map[string]string
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse prompts file %s: %w", path, err)
	}
	return out, nil
}

// WriteTemplate writes the default configuration as YAML to path. An
// existing file is left untouched and reported as an error.
func WriteTemplate(fs afero.Fs, path string) error {
	if ok, _ := afero.Exists(fs, path); ok {
		return fmt.Errorf("%s already exists", path)
	}
	v := viper.New()
	setDefaults(v)
	settings := v.AllSettings()
	settings["prompt_templates"] = stringMap(generator.DefaultTemplates())
	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return afero.WriteFile(fs, path, data, 0o644)
}

func stringMap(t generator.Templates) map[string]string {
	out := make(map[string]string, len(t))
	for k, v := range t {
		out[string(k)] = v
	}
	return out
}

// LoadDotEnv loads the first .secrets/.env found walking up from dir, or
// dir/.env as a fallback. Variables already set are kept. It returns the
// file loaded, or "" when none was found.
func LoadDotEnv(dir string) string {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(cur, ".secrets", ".env")
		if _, err := os.Stat(candidate); err == nil {
			if godotenv.Load(candidate) == nil {
				return candidate
			}
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	fallback := filepath.Join(dir, ".env")
	if err := godotenv.Load(fallback); err == nil {
		return fallback
	}
	return ""
}
