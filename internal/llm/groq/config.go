package groq

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/joseph-ayodele/insuregenie/internal/common"
	"github.com/joseph-ayodele/insuregenie/internal/llm"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama3-70b-8192"

	DefaultTemperature float32 = 0.3
)

// Config for the Groq chat-completions client.
type Config struct {
	APIKey        string
	BaseURL       string        // default https://api.groq.com/openai/v1
	Model         string        // default llama3-70b-8192
	Temperature   *float32      // nil means DefaultTemperature; 0 is honored
	MaxTokens     int           // default 800
	MaxInputChars int           // default 3000
	Timeout       time.Duration // http client timeout
}

// ConfigFrom maps the application LLM settings onto a client Config. The
// application config already carries its defaults, so its temperature is
// always passed through.
func ConfigFrom(c common.LLMConfig) Config {
	temp := c.Temperature
	return Config{
		APIKey:        c.APIKey,
		BaseURL:       c.BaseURL,
		Model:         c.Model,
		Temperature:   &temp,
		MaxTokens:     c.MaxTokens,
		MaxInputChars: c.MaxInputChars,
		Timeout:       c.Timeout,
	}
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == nil {
		t := DefaultTemperature
		cfg.Temperature = &t
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 800
	}
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = llm.DefaultMaxInputChars
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}
