package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"giniguardian/internal/model"
)

// Defaults applied when config.yaml leaves a field unset. The scoring
// weights and thresholds must stay stable across releases: stored risk
// levels are only comparable if every version scores the same way.
const (
	DefaultEmotionWeight    = 0.5
	DefaultVolatilityWeight = 0.3
	DefaultNewsWeight       = 0.2
	DefaultVolatility       = 5.0
	DefaultNews             = 3.0
	DefaultHighThreshold    = 6.5
	DefaultMidThreshold     = 5.0
)

// Load reads config.yaml and overlays environment variables on top.
func Load(path string) (*model.Config, error) {
	var config model.Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}

	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(config *model.Config) {
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "console"
	}
	if config.Log.Output == "" {
		config.Log.Output = "stdout"
	}
	if config.Log.FilePath == "" {
		config.Log.FilePath = "logs/guardian.log"
	}
	if config.Log.TimeFormat == "" {
		config.Log.TimeFormat = "rfc3339"
	}

	if config.LLM.Model == "" {
		config.LLM.Model = "openai/gpt-3.5-turbo"
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "https://openrouter.ai/api/v1"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 1500
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.3
	}

	if config.Risk.EmotionWeight == 0 {
		config.Risk.EmotionWeight = DefaultEmotionWeight
	}
	if config.Risk.VolatilityWeight == 0 {
		config.Risk.VolatilityWeight = DefaultVolatilityWeight
	}
	if config.Risk.NewsWeight == 0 {
		config.Risk.NewsWeight = DefaultNewsWeight
	}
	if config.Risk.Volatility == 0 {
		config.Risk.Volatility = DefaultVolatility
	}
	if config.Risk.News == 0 {
		config.Risk.News = DefaultNews
	}
	if config.Risk.HighThreshold == 0 {
		config.Risk.HighThreshold = DefaultHighThreshold
	}
	if config.Risk.MidThreshold == 0 {
		config.Risk.MidThreshold = DefaultMidThreshold
	}

	if config.Session.TTLSeconds == 0 {
		config.Session.TTLSeconds = 3600
	}
	if config.Session.MaxTurns == 0 {
		config.Session.MaxTurns = 5
	}

	if config.Store.Path == "" {
		config.Store.Path = "guardian.db"
	}

	if config.Market.CacheTTLSeconds == 0 {
		config.Market.CacheTTLSeconds = 300
	}
}
