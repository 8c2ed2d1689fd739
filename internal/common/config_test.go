package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "llama3-70b-8192", cfg.LLM.Model)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, 800, cfg.LLM.MaxTokens)
	assert.Equal(t, 3000, cfg.LLM.MaxInputChars)
	assert.Equal(t, OCREngineTesseract, cfg.OCR.Engine)
	assert.Equal(t, RasterizerPoppler, cfg.OCR.Rasterizer)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "insuregenie.yaml")
	content := `
database:
  driver: postgres
  dsn: postgres://localhost/insure
ocr:
  engine: none
  dpi: 300
llm:
  timeout: 15s
queue:
  workers: 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("OCR_DPI", "150")
	t.Setenv("GROQ_API_KEY", "gsk_test")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/insure", cfg.Database.DSN)
	assert.Equal(t, OCREngineNone, cfg.OCR.Engine)
	assert.Equal(t, 150, cfg.OCR.DPI, "env wins over file")
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 8, cfg.Queue.Workers)
	assert.Equal(t, "gsk_test", cfg.LLM.APIKey)
	assert.Equal(t, "tesseract", cfg.OCR.Tesseract, "unset keys keep defaults")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, CodeConfigError, ErrorCode(err))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		requireLLM bool
		wantErr    bool
	}{
		{name: "defaults without llm", mutate: func(*Config) {}, requireLLM: false},
		{name: "llm key missing", mutate: func(*Config) {}, requireLLM: true, wantErr: true},
		{name: "llm key present", mutate: func(c *Config) { c.LLM.APIKey = "k" }, requireLLM: true},
		{name: "bad driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "empty dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: true},
		{name: "bad engine", mutate: func(c *Config) { c.OCR.Engine = "easyocr" }, wantErr: true},
		{name: "bad rasterizer", mutate: func(c *Config) { c.OCR.Rasterizer = "ghostscript" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate(tt.requireLLM)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			assert.NoError(t, err)
		})
	}
}
