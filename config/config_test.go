package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/generator"
	"github.com/rjegjin/Specific-Skills-and-Accomplishments/record"
)

func clearKeys(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
}

func loadYAML(t *testing.T, content string) (*Config, error) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/etc/seteuk.yaml", []byte(content), 0o644))
	return Load(Options{Path: "/etc/seteuk.yaml", Fs: fsys})
}

func TestLoad_Defaults(t *testing.T) {
	clearKeys(t)
	cfg, err := Load(Options{Fs: afero.NewMemMapFs()})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("세특", "observation_logs.csv"), cfg.SourcePath)
	assert.Equal(t, filepath.Join("세특", "qualitative_seteuk_output", "results.json"), cfg.ResultsPath())
	assert.Equal(t, "sheets", cfg.Sink.Kind)
	assert.Equal(t, "세특최종결과물", cfg.Sink.Worksheet)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, generator.DefaultGeminiModel, cfg.LLM.Model)
	assert.Equal(t, 60*time.Second, cfg.Generation.Timeout)
	assert.False(t, cfg.Generation.SkipFailures)
	assert.Equal(t, record.DefaultTabs, cfg.Tabs)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, len(generator.DefaultProhibitedTerms), cfg.Terms().Len())
	assert.Equal(t, generator.DefaultTemplates(), cfg.Templates())
}

func TestLoad_File(t *testing.T) {
	clearKeys(t)
	cfg, err := loadYAML(t, `
output_dir: build
prohibited_terms: [수상, 학원]
llm:
  provider: openai
  model: gpt-4o-mini
  api_key: sk-test
generation:
  skip_failures: true
  timeout: 5s
sink:
  kind: csv
  csv_path: build/out.csv
tabs:
  homeroom: 메인
  roles: ""
prompt_templates:
  career: 진로 지침
`)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("build", "results.json"), cfg.ResultsPath())
	assert.Equal(t, []string{"수상", "학원"}, cfg.Terms().Terms())
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.True(t, cfg.Generation.SkipFailures)
	assert.Equal(t, 5*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, "메인", cfg.Tabs.Homeroom)
	assert.Empty(t, cfg.Tabs.Roles)
	assert.Equal(t, record.DefaultTabs.TargetSchool, cfg.Tabs.TargetSchool)
	assert.Equal(t, "진로 지침", cfg.Templates()[record.AreaCareer])
	assert.Equal(t, generator.DefaultTemplates()[record.AreaCourse], cfg.Templates()[record.AreaCourse])
	assert.NoError(t, cfg.RequireLLM())
	assert.NoError(t, cfg.RequireSink())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearKeys(t)
	t.Setenv("SETEUK_LLM_PROVIDER", "mock")
	t.Setenv("SETEUK_SINK_WORKSHEET", "다른탭")
	cfg, err := Load(Options{Fs: afero.NewMemMapFs()})
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, "다른탭", cfg.Sink.Worksheet)
	assert.NoError(t, cfg.RequireLLM())
}

func TestLoad_ProviderKeyFromEnv(t *testing.T) {
	clearKeys(t)
	cfg, err := Load(Options{Fs: afero.NewMemMapFs()})
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.RequireLLM(), ErrConfiguration)

	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, err = Load(Options{Fs: afero.NewMemMapFs()})
	require.NoError(t, err)
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
	assert.NoError(t, cfg.RequireLLM())
}

func TestLoad_Invalid(t *testing.T) {
	clearKeys(t)
	tests := map[string]string{
		"provider":     "llm:\n  provider: claude\n",
		"sink kind":    "sink:\n  kind: excel\n",
		"empty terms":  "prohibited_terms: []\n",
		"template key": "prompt_templates:\n  bogus: x\n",
		"log level":    "log:\n  level: loud\n",
		"syntax":       "llm: [",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loadYAML(t, content)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(Options{Path: "/nope.yaml", Fs: afero.NewMemMapFs()})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestLoad_PromptsFile(t *testing.T) {
	clearKeys(t)
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/prompts.yaml", []byte("behavior: 행동 지침\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/seteuk.yaml", []byte("prompts_file: /prompts.yaml\n"), 0o644))

	cfg, err := Load(Options{Path: "/seteuk.yaml", Fs: fsys})
	require.NoError(t, err)
	assert.Equal(t, "행동 지침", cfg.Templates()[record.AreaBehavior])

	require.NoError(t, afero.WriteFile(fsys, "/seteuk.yaml", []byte("prompts_file: /missing.yaml\n"), 0o644))
	_, err = Load(Options{Path: "/seteuk.yaml", Fs: fsys})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestRequireSink(t *testing.T) {
	c := &Config{Sink: SinkConfig{Kind: "sheets"}}
	assert.ErrorIs(t, c.RequireSink(), ErrConfiguration)

	c.Sink.SpreadsheetID = "id"
	c.Sink.CredentialsFile = "key.json"
	assert.NoError(t, c.RequireSink())

	c = &Config{Sink: SinkConfig{Kind: "csv"}}
	assert.ErrorIs(t, c.RequireSink(), ErrConfiguration)
}

func TestWriteTemplate(t *testing.T) {
	clearKeys(t)
	fsys := afero.NewMemMapFs()
	require.NoError(t, WriteTemplate(fsys, "/conf/seteuk.yaml"))
	assert.Error(t, WriteTemplate(fsys, "/conf/seteuk.yaml"), "existing file is not overwritten")

	cfg, err := Load(Options{Path: "/conf/seteuk.yaml", Fs: fsys})
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, record.DefaultTabs, cfg.Tabs)
	assert.Equal(t, generator.DefaultTemplates(), cfg.Templates())
}

func TestLoadDotEnv(t *testing.T) {
	const key = "SETEUK_DOTENV_PROBE"
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".secrets"), 0o755))
	path := filepath.Join(dir, ".secrets", ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=found\n"), 0o600))

	assert.Equal(t, path, LoadDotEnv(dir))
	assert.Equal(t, "found", os.Getenv(key))
}
