package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	OCR      OCRConfig      `yaml:"ocr"`
	LLM      LLMConfig      `yaml:"llm"`
	Queue    QueueConfig    `yaml:"queue"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string        `yaml:"driver"` // sqlite | postgres
	DSN              string        `yaml:"dsn"`
	MaxConns         int32         `yaml:"max_conns"`
	MinConns         int32         `yaml:"min_conns"`
	MaxConnLifetime  time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `yaml:"max_conn_idle_time"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	StatementTimeout time.Duration `yaml:"statement_timeout"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr       string `yaml:"grpc_addr"`
	MaxUploadBytes int    `yaml:"max_upload_bytes"`
}

// OCRConfig holds extraction-related configuration
type OCRConfig struct {
	Engine         string        `yaml:"engine"`     // tesseract | none
	Rasterizer     string        `yaml:"rasterizer"` // poppler | embedded
	Tesseract      string        `yaml:"tesseract"`
	TessdataDir    string        `yaml:"tessdata_dir"`
	Lang           string        `yaml:"lang"`
	PSM            int           `yaml:"psm"`
	OEM            int           `yaml:"oem"`
	Pdftoppm       string        `yaml:"pdftoppm"`
	DPI            int           `yaml:"dpi"`
	MaxPages       int           `yaml:"max_pages"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

// LLMConfig holds summarizer configuration
type LLMConfig struct {
	BaseURL       string        `yaml:"base_url"`
	Model         string        `yaml:"model"`
	APIKey        string        `yaml:"-"`
	Temperature   float32       `yaml:"temperature"`
	MaxTokens     int           `yaml:"max_tokens"`
	MaxInputChars int           `yaml:"max_input_chars"`
	Timeout       time.Duration `yaml:"timeout"`
}

// QueueConfig holds batch worker configuration
type QueueConfig struct {
	Workers        int           `yaml:"workers"`
	Size           int           `yaml:"size"`
	ProcessTimeout time.Duration `yaml:"process_timeout"`
}

const (
	OCREngineTesseract = "tesseract"
	OCREngineNone      = "none"

	RasterizerPoppler  = "poppler"
	RasterizerEmbedded = "embedded"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			DSN:             "file:insuregenie.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
			MaxConns:        20,
			MinConns:        2,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			DialTimeout:     3 * time.Second,
		},
		Server: ServerConfig{
			GRPCAddr:       ":8080",
			MaxUploadBytes: 32 << 20,
		},
		OCR: OCRConfig{
			Engine:         OCREngineTesseract,
			Rasterizer:     RasterizerPoppler,
			Tesseract:      "tesseract",
			Lang:           "eng",
			Pdftoppm:       "pdftoppm",
			DPI:            200,
			CommandTimeout: 2 * time.Minute,
		},
		LLM: LLMConfig{
			BaseURL:       "https://api.groq.com/openai/v1",
			Model:         "llama3-70b-8192",
			Temperature:   0.3,
			MaxTokens:     800,
			MaxInputChars: 3000,
			Timeout:       60 * time.Second,
		},
		Queue: QueueConfig{
			Workers:        4,
			Size:           256,
			ProcessTimeout: 5 * time.Minute,
		},
	}
}

// LoadConfig builds the configuration: defaults, then the optional yaml file at path,
// then environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, NewAppError(CodeConfigError, fmt.Sprintf("read config file %s", path), err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, NewAppError(CodeConfigError, fmt.Sprintf("parse config file %s", path), err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnv("DB_URL", c.Database.DSN)
	c.Database.MaxConns = getEnvAsInt32("DB_MAX_CONNS", c.Database.MaxConns)
	c.Database.MinConns = getEnvAsInt32("DB_MIN_CONNS", c.Database.MinConns)
	c.Database.MaxConnLifetime = getEnvAsDuration("DB_MAX_CONN_LIFETIME", c.Database.MaxConnLifetime)
	c.Database.MaxConnIdleTime = getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", c.Database.MaxConnIdleTime)
	c.Database.DialTimeout = getEnvAsDuration("DB_DIAL_TIMEOUT", c.Database.DialTimeout)
	c.Database.StatementTimeout = getEnvAsDuration("DB_STATEMENT_TIMEOUT", c.Database.StatementTimeout)

	c.Server.GRPCAddr = getEnv("GRPC_ADDR", c.Server.GRPCAddr)
	c.Server.MaxUploadBytes = getEnvAsInt("MAX_UPLOAD_BYTES", c.Server.MaxUploadBytes)

	c.OCR.Engine = getEnv("OCR_ENGINE", c.OCR.Engine)
	c.OCR.Rasterizer = getEnv("PDF_RASTERIZER", c.OCR.Rasterizer)
	c.OCR.Tesseract = getEnv("TESSERACT_CMD", c.OCR.Tesseract)
	c.OCR.TessdataDir = getEnv("TESSDATA_PREFIX", c.OCR.TessdataDir)
	c.OCR.Lang = getEnv("OCR_LANG", c.OCR.Lang)
	c.OCR.PSM = getEnvAsInt("OCR_PSM", c.OCR.PSM)
	c.OCR.OEM = getEnvAsInt("OCR_OEM", c.OCR.OEM)
	c.OCR.Pdftoppm = getEnv("PDFTOPPM_CMD", c.OCR.Pdftoppm)
	c.OCR.DPI = getEnvAsInt("OCR_DPI", c.OCR.DPI)
	c.OCR.MaxPages = getEnvAsInt("OCR_MAX_PAGES", c.OCR.MaxPages)
	c.OCR.CommandTimeout = getEnvAsDuration("OCR_COMMAND_TIMEOUT", c.OCR.CommandTimeout)

	c.LLM.BaseURL = getEnv("GROQ_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = getEnv("GROQ_MODEL", c.LLM.Model)
	c.LLM.APIKey = getEnv("GROQ_API_KEY", c.LLM.APIKey)
	c.LLM.Temperature = getEnvAsFloat32("LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.MaxTokens = getEnvAsInt("LLM_MAX_TOKENS", c.LLM.MaxTokens)
	c.LLM.Timeout = getEnvAsDuration("LLM_TIMEOUT", c.LLM.Timeout)

	c.Queue.Workers = getEnvAsInt("QUEUE_WORKERS", c.Queue.Workers)
	c.Queue.Size = getEnvAsInt("QUEUE_SIZE", c.Queue.Size)
	c.Queue.ProcessTimeout = getEnvAsDuration("QUEUE_PROCESS_TIMEOUT", c.Queue.ProcessTimeout)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the loaded configuration. requireLLM is false for commands
// that never call the summarizer (extract, migrate, export).
func (c *Config) Validate(requireLLM bool) error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return NewAppError(CodeConfigError, fmt.Sprintf("unsupported DB_DRIVER %q", c.Database.Driver), ErrInvalidInput)
	}
	if c.Database.DSN == "" {
		return NewAppError(CodeConfigError, "DB_URL is required", ErrInvalidInput)
	}
	switch c.OCR.Engine {
	case OCREngineTesseract, OCREngineNone:
	default:
		return NewAppError(CodeConfigError, fmt.Sprintf("unsupported OCR_ENGINE %q", c.OCR.Engine), ErrInvalidInput)
	}
	switch c.OCR.Rasterizer {
	case RasterizerPoppler, RasterizerEmbedded:
	default:
		return NewAppError(CodeConfigError, fmt.Sprintf("unsupported PDF_RASTERIZER %q", c.OCR.Rasterizer), ErrInvalidInput)
	}
	if requireLLM && c.LLM.APIKey == "" {
		return NewAppError(CodeConfigError, "GROQ_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError(CodeConfigError, "GRPC_ADDR is required", ErrInvalidInput)
	}
	return nil
}
