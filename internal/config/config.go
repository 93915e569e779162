// Package config manages TOML config for the draft editor and relay service.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/dsiddharth/autocomplete-demo/internal/types"
)

// Config holds the entire config structure.
type Config struct {
	Client ClientConfig `toml:"client"`
	Server ServerConfig `toml:"server"`
}

// ClientConfig has editor-side options.
type ClientConfig struct {
	ServiceURL     string  `toml:"service_url"`
	StreamAddr     string  `toml:"stream_addr"`
	Transport      string  `toml:"transport"` // "http" or "stream"
	DebounceMs     int     `toml:"debounce_ms"`
	SystemPrompt   string  `toml:"system_prompt"`
	MaxTokens      int     `toml:"max_tokens"`
	NumSuggestions int     `toml:"num_suggestions"`
	Temperature    float64 `toml:"temperature"`
}

// ServerConfig has relay service options.
type ServerConfig struct {
	ListenAddr     string `toml:"listen_addr"`
	StreamAddr     string `toml:"stream_addr"`
	UpstreamURL    string `toml:"upstream_url"`
	UpstreamModel  string `toml:"upstream_model"`
	CacheTTLSec    int    `toml:"cache_ttl_sec"`
	CacheSize      int    `toml:"cache_size"`
	MaxContextWord int    `toml:"max_context_words"`
	AllowOrigin    string `toml:"allow_origin"`
}

// Default returns the builtin config.
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			ServiceURL:     "http://127.0.0.1:8000",
			StreamAddr:     "127.0.0.1:8001",
			Transport:      "http",
			DebounceMs:     types.DefaultDebounceMs,
			SystemPrompt:   types.DefaultSystemPrompt,
			MaxTokens:      types.DefaultMaxTokens,
			NumSuggestions: types.DefaultNumSuggestions,
			Temperature:    types.DefaultTemperature,
		},
		Server: ServerConfig{
			ListenAddr:     "127.0.0.1:8000",
			StreamAddr:     "127.0.0.1:8001",
			UpstreamURL:    "http://127.0.0.1:8080",
			UpstreamModel:  "",
			CacheTTLSec:    300,
			CacheSize:      1000,
			MaxContextWord: 512,
			AllowOrigin:    "http://localhost:5173",
		},
	}
}

// DefaultPath returns [UserConfigDir]/draft/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".config", "draft", "config.toml"), nil
}

// Load reads config from path, filling unset fields with defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if len(meta.Undecoded()) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %s", path, meta.Undecoded()[0])
	}
	cfg.normalize()
	return cfg, nil
}

// LoadWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: ~/.config/draft/config.toml
// 3. Builtin defaults
// A missing file at either path is not an error.
func LoadWithPriority(customPath string) (*Config, string, error) {
	if customPath != "" {
		cfg, err := Load(customPath)
		if err != nil {
			return nil, "", err
		}
		return cfg, customPath, nil
	}
	path, err := DefaultPath()
	if err != nil {
		return Default(), "", nil
	}
	if _, err := os.Stat(path); err != nil {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func (c *Config) normalize() {
	if c.Client.DebounceMs <= 0 {
		c.Client.DebounceMs = types.DefaultDebounceMs
	}
	if c.Client.MaxTokens <= 0 {
		c.Client.MaxTokens = types.DefaultMaxTokens
	}
	if c.Client.NumSuggestions <= 0 {
		c.Client.NumSuggestions = types.DefaultNumSuggestions
	}
	if c.Client.Temperature <= 0 {
		c.Client.Temperature = types.DefaultTemperature
	}
	if c.Client.SystemPrompt == "" {
		c.Client.SystemPrompt = types.DefaultSystemPrompt
	}
	if c.Client.Transport == "" {
		c.Client.Transport = "http"
	}
	if c.Server.CacheSize <= 0 {
		c.Server.CacheSize = 1000
	}
	if c.Server.MaxContextWord <= 0 {
		c.Server.MaxContextWord = 512
	}
}

// Request builds a CompletionRequest for text from the client settings.
func (c ClientConfig) Request(text string) types.CompletionRequest {
	return types.CompletionRequest{
		Text:           text,
		SystemPrompt:   c.SystemPrompt,
		MaxTokens:      c.MaxTokens,
		NumSuggestions: c.NumSuggestions,
		Temperature:    c.Temperature,
	}
}
