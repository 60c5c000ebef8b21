package di

import (
	"flag"
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/portfolio-backend/internal/config"
	"github.com/mikey/portfolio-backend/internal/factory"
	"github.com/mikey/portfolio-backend/internal/logging"
	"github.com/mikey/portfolio-backend/internal/utils"
)

// CLIFlags contains all command line flags for the triage CLI
type CLIFlags struct {
	// Message flags
	Name    string
	Email   string
	Subject string
	Message string

	// Engine flags
	SpamThreshold float64
	NoMLSentiment bool
	ZeroShot      bool
	Provider      string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModelName string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Input and output flags
	InputFile  string
	JSONOutput bool
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	return ParseFlagSet(flag.CommandLine, nil)
}

// ParseFlagSet registers the CLI flags on fs and parses args. A nil args
// parses the process arguments.
func ParseFlagSet(fs *flag.FlagSet, args []string) *CLIFlags {
	flags := &CLIFlags{}

	// Message flags
	fs.StringVar(&flags.Name, "name", "", "Sender name")
	fs.StringVar(&flags.Email, "email", "", "Sender email address")
	fs.StringVar(&flags.Subject, "subject", "", "Message subject (reads a mail from -file or stdin when subject and message are empty)")
	fs.StringVar(&flags.Message, "message", "", "Message body")

	// Engine flags
	fs.Float64Var(&flags.SpamThreshold, "threshold", 0.5, "Spam score at or above which a message is spam")
	fs.BoolVar(&flags.NoMLSentiment, "no-ml", false, "Use keyword sentiment only")
	fs.BoolVar(&flags.ZeroShot, "zero-shot", false, "Classify the category with an LLM")
	fs.StringVar(&flags.Provider, "provider", "openai", "LLM provider for -zero-shot (bedrock, gemini, openai)")

	// OpenAI flags
	fs.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	fs.StringVar(&flags.OpenAIBaseURL, "openai-base-url", "", "Base URL of an OpenAI compatible endpoint")
	fs.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4o-mini", "OpenAI model name")

	// Gemini flags
	fs.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	fs.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-1.5-flash", "Gemini model name")

	// Bedrock flags
	fs.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	fs.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-3-haiku-20240307-v1:0", "Bedrock model ID")

	// Input and output flags
	fs.StringVar(&flags.InputFile, "file", "", "Input mail file (use stdin if not specified)")
	fs.BoolVar(&flags.JSONOutput, "json", false, "Print the analysis as JSON")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	if args == nil {
		args = os.Args[1:]
	}
	fs.Parse(args)
	return flags
}

// UsesStdinMessage reports whether the message comes from a mail on -file or stdin
func (f *CLIFlags) UsesStdinMessage() bool {
	return f.Subject == "" && f.Message == ""
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewWithFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewAnalyzerFactory); err != nil {
		return nil, err
	}

	if err := provideEngine(container); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("triage.spam_threshold", flags.SpamThreshold)
	v.Set("triage.use_ml_sentiment", !flags.NoMLSentiment)
	v.Set("triage.use_zero_shot_category", flags.ZeroShot)

	v.Set("llm.provider", flags.Provider)
	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.base_url", flags.OpenAIBaseURL)
		v.Set("openai.model_name", flags.OpenAIModelName)
	}

	return config.NewFromViper(v)
}
