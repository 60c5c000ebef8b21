package config

import "time"

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	ListenAddress   string
	Mode            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	AdminToken      string
}

// TriageConfig represents the message triage engine configuration.
// Empty keyword lists keep the built-in defaults.
type TriageConfig struct {
	SpamThreshold       float64
	UseMLSentiment      bool
	UseZeroShotCategory bool
	ClassifierTimeout   time.Duration
	MaxSentimentChars   int
	JobInquiryBias      int
	SpamKeywords        []string
	UrgencyKeywords     []string
	PositiveWords       []string
	NegativeWords       []string
	DisposableDomains   []string
	WhitelistedDomains  []string
}

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI or an OpenAI compatible endpoint
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// CacheConfig represents the analysis cache configuration
type CacheConfig struct {
	Type             string
	Enabled          bool
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
}

// MongoConfig represents the document store configuration
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// SMTPConfig represents the notification mail configuration
type SMTPConfig struct {
	Enabled  bool
	Address  string
	Username string
	Password string
	StartTLS bool
	From     string
	To       string
	Timeout  time.Duration
}

// IntakeConfig represents the inbound mail server configuration
type IntakeConfig struct {
	Enabled         bool
	ListenAddress   string
	Domain          string
	MaxMessageBytes int64
}

// GitHubConfig represents the developer profile statistics source
type GitHubConfig struct {
	Username     string
	Token        string
	BaseURL      string
	Timeout      time.Duration
	CacheTTL     time.Duration
	RecentWindow time.Duration
	MaxRecent    int
	MaxLanguages int
}

// GetServer returns the HTTP API configuration
func (c *Config) GetServer() (ServerConfig, error) {
	read, err := c.GetDuration("server.read_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	write, err := c.GetDuration("server.write_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	shutdown, err := c.GetDuration("server.shutdown_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	return ServerConfig{
		ListenAddress:   c.GetString("server.listen_address"),
		Mode:            c.GetString("server.mode"),
		ReadTimeout:     read,
		WriteTimeout:    write,
		ShutdownTimeout: shutdown,
		AllowedOrigins:  c.GetStringSlice("server.allowed_origins"),
		AdminToken:      c.GetString("server.admin_token"),
	}, nil
}

// GetTriage returns the triage engine configuration
func (c *Config) GetTriage() (TriageConfig, error) {
	timeout, err := c.GetDuration("triage.classifier_timeout")
	if err != nil {
		return TriageConfig{}, err
	}
	return TriageConfig{
		SpamThreshold:       c.GetFloat64("triage.spam_threshold"),
		UseMLSentiment:      c.GetBool("triage.use_ml_sentiment"),
		UseZeroShotCategory: c.GetBool("triage.use_zero_shot_category"),
		ClassifierTimeout:   timeout,
		MaxSentimentChars:   c.GetInt("triage.max_sentiment_chars"),
		JobInquiryBias:      c.GetInt("triage.job_inquiry_bias"),
		SpamKeywords:        c.GetStringSlice("triage.spam_keywords"),
		UrgencyKeywords:     c.GetStringSlice("triage.urgency_keywords"),
		PositiveWords:       c.GetStringSlice("triage.positive_words"),
		NegativeWords:       c.GetStringSlice("triage.negative_words"),
		DisposableDomains:   c.GetStringSlice("triage.disposable_domains"),
		WhitelistedDomains:  c.GetStringSlice("triage.whitelisted_domains"),
	}, nil
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetCache returns the analysis cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, err
	}
	cleanup, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, err
	}
	return CacheConfig{
		Type:             c.GetString("cache.type"),
		Enabled:          c.GetBool("cache.enabled"),
		TTL:              ttl,
		CleanupFrequency: cleanup,
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
		RedisAddr:        c.GetString("cache.redis_addr"),
		RedisPassword:    c.GetString("cache.redis_password"),
		RedisDB:          c.GetInt("cache.redis_db"),
	}, nil
}

// GetMongo returns the document store configuration
func (c *Config) GetMongo() (MongoConfig, error) {
	timeout, err := c.GetDuration("mongo.timeout")
	if err != nil {
		return MongoConfig{}, err
	}
	return MongoConfig{
		URI:      c.GetString("mongo.uri"),
		Database: c.GetString("mongo.database"),
		Timeout:  timeout,
	}, nil
}

// GetSMTP returns the notification mail configuration
func (c *Config) GetSMTP() (SMTPConfig, error) {
	timeout, err := c.GetDuration("smtp.timeout")
	if err != nil {
		return SMTPConfig{}, err
	}
	return SMTPConfig{
		Enabled:  c.GetBool("smtp.enabled"),
		Address:  c.GetString("smtp.address"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
		StartTLS: c.GetBool("smtp.starttls"),
		From:     c.GetString("smtp.from"),
		To:       c.GetString("smtp.to"),
		Timeout:  timeout,
	}, nil
}

// GetIntake returns the inbound mail server configuration
func (c *Config) GetIntake() IntakeConfig {
	return IntakeConfig{
		Enabled:         c.GetBool("intake.enabled"),
		ListenAddress:   c.GetString("intake.listen_address"),
		Domain:          c.GetString("intake.domain"),
		MaxMessageBytes: int64(c.GetInt("intake.max_message_bytes")),
	}
}

// GetGitHub returns the developer profile statistics configuration
func (c *Config) GetGitHub() (GitHubConfig, error) {
	timeout, err := c.GetDuration("github.timeout")
	if err != nil {
		return GitHubConfig{}, err
	}
	ttl, err := c.GetDuration("github.cache_ttl")
	if err != nil {
		return GitHubConfig{}, err
	}
	window, err := c.GetDuration("github.recent_window")
	if err != nil {
		return GitHubConfig{}, err
	}
	return GitHubConfig{
		Username:     c.GetString("github.username"),
		Token:        c.GetString("github.token"),
		BaseURL:      c.GetString("github.base_url"),
		Timeout:      timeout,
		CacheTTL:     ttl,
		RecentWindow: window,
		MaxRecent:    c.GetInt("github.max_recent"),
		MaxLanguages: c.GetInt("github.max_languages"),
	}, nil
}
