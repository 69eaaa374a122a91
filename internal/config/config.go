package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Push     PushConfig     `mapstructure:"push"     validate:"required"`
	Task     TaskConfig     `mapstructure:"task"     validate:"required"`
	Fanout   FanoutConfig   `mapstructure:"fanout"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains authentication and authorization settings.
// AdminToken guards the privileged scheduler endpoints; the external
// cron caller presents it as a bearer token.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	AdminToken           string `mapstructure:"admin_token"            validate:"required,min=32"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"omitempty,gte=4,lte=31"`
}

// LLMConfig contains summarization provider settings. Models is the ordered
// fallback chain: each entry becomes one provider, tried in sequence.
type LLMConfig struct {
	GeminiAPIKey           string   `mapstructure:"gemini_api_key"           validate:"required"`
	Models                 []string `mapstructure:"models"                   validate:"required,min=1,dive,required"`
	ProviderTimeoutSeconds int      `mapstructure:"provider_timeout_seconds" validate:"required,gt=0"`
}

// PushConfig contains Web Push (VAPID) settings.
type PushConfig struct {
	VAPIDPublicKey  string `mapstructure:"vapid_public_key"  validate:"required"`
	VAPIDPrivateKey string `mapstructure:"vapid_private_key" validate:"required"`
	VAPIDSubject    string `mapstructure:"vapid_subject"     validate:"required"`
	TTLSeconds      int    `mapstructure:"ttl_seconds"       validate:"required,gt=0"`
}

// TaskConfig contains background task processing settings for the
// summary generation pipeline.
type TaskConfig struct {
	QueueSize   int `mapstructure:"queue_size"   validate:"required,gt=0"`
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
}

// FanoutConfig contains daily notification fanout settings.
type FanoutConfig struct {
	UserConcurrency int    `mapstructure:"user_concurrency" validate:"required,gt=0"`
	SendConcurrency int    `mapstructure:"send_concurrency" validate:"required,gt=0"`
	SendRetries     int    `mapstructure:"send_retries"     validate:"gte=0"`
	BaseURL         string `mapstructure:"base_url"         validate:"required,url"`
}
