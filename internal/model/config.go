package model

// ----------------------------------------------------
// ================ Config ================

// LogConfig holds logger configuration. No default tags here: envconfig
// applies defaults even when the YAML file set a value, so defaulting is
// done in config.applyDefaults after the overlay.
type LogConfig struct {
	Level      string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format     string `yaml:"format" envconfig:"LOG_FORMAT"`
	Output     string `yaml:"output" envconfig:"LOG_OUTPUT"`
	FilePath   string `yaml:"file_path" envconfig:"LOG_FILE_PATH"`
	TimeFormat string `yaml:"time_format" envconfig:"LOG_TIME_FORMAT"`
}

// LLMConfig holds configuration for the advice generation model.
type LLMConfig struct {
	Model       string  `yaml:"model" envconfig:"LLM_MODEL"`
	APIKey      string  `yaml:"-" envconfig:"OPENROUTER_API_KEY"`
	BaseURL     string  `yaml:"base_url" envconfig:"LLM_BASE_URL"`
	MaxTokens   int     `yaml:"max_tokens" envconfig:"LLM_MAX_TOKENS"`
	Temperature float64 `yaml:"temperature" envconfig:"LLM_TEMPERATURE"`
}

// RiskConfig holds the weighted-sum scoring parameters. The volatility
// and news sub-scores are constant stand-ins kept as extension points.
type RiskConfig struct {
	EmotionWeight    float64 `yaml:"emotion_weight"`
	VolatilityWeight float64 `yaml:"volatility_weight"`
	NewsWeight       float64 `yaml:"news_weight"`
	Volatility       float64 `yaml:"volatility"`
	News             float64 `yaml:"news"`
	HighThreshold    float64 `yaml:"high_threshold"`
	MidThreshold     float64 `yaml:"mid_threshold"`
}

// SessionConfig holds chat context settings.
type SessionConfig struct {
	TTLSeconds int `yaml:"ttl_seconds" envconfig:"SESSION_TTL_SECONDS"`
	MaxTurns   int `yaml:"max_turns" envconfig:"SESSION_MAX_TURNS"`
}

// StoreConfig holds the interaction log database settings.
type StoreConfig struct {
	Path string `yaml:"path" envconfig:"STORE_PATH"`
}

// MarketConfig holds price feed cache settings.
type MarketConfig struct {
	CacheTTLSeconds int `yaml:"cache_ttl_seconds" envconfig:"MARKET_CACHE_TTL_SECONDS"`
}

// Config is the top-level application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	LLM     LLMConfig     `yaml:"llm"`
	Risk    RiskConfig    `yaml:"risk"`
	Session SessionConfig `yaml:"session"`
	Store   StoreConfig   `yaml:"store"`
	Market  MarketConfig  `yaml:"market"`
}
