package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "MCONSOLE"

// Environment variable names referenced by tests and error messages.
const (
	EnvAppEnv           = "MCONSOLE_APP_ENV"
	EnvPort             = "MCONSOLE_APP_PORT"
	EnvGatewayName      = "MCONSOLE_GATEWAY_API_LOGIN_NAME"
	EnvGatewayKey       = "MCONSOLE_GATEWAY_TRANSACTION_KEY"
	EnvGatewayEnv       = "MCONSOLE_GATEWAY_ENV"
	EnvPublicBaseURL    = "MCONSOLE_PUBLIC_BASE_URL"
	EnvStaffEmail       = "MCONSOLE_STAFF_EMAIL"
	EnvStaffPasswordArg = "MCONSOLE_STAFF_PASSWORD_HASH"
)

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App           AppConfig
	Gateway       GatewayConfig
	JWT           JWTConfig
	Staff         StaffConfig
	Password      PasswordConfig
	Redis         RedisConfig
	AuthRateLimit AuthRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Gateway.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MCONSOLE_APP_ENV" required:"true"`
	Port         string `envconfig:"MCONSOLE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MCONSOLE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MCONSOLE_LOG_WARN_STACK" default:"false"`

	// PublicBaseURL is where the browser reaches this console; the gateway
	// hosted-form return URLs are built from it.
	PublicBaseURL string `envconfig:"MCONSOLE_PUBLIC_BASE_URL" required:"true"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// GatewayConfig carries the payment gateway credentials and environment.
type GatewayConfig struct {
	APILoginName   string        `envconfig:"MCONSOLE_GATEWAY_API_LOGIN_NAME" required:"true"`
	TransactionKey string        `envconfig:"MCONSOLE_GATEWAY_TRANSACTION_KEY" required:"true"`
	Env            string        `envconfig:"MCONSOLE_GATEWAY_ENV" default:"sandbox"`
	Timeout        time.Duration `envconfig:"MCONSOLE_GATEWAY_TIMEOUT" default:"30s"`
}

// Environment returns the normalized gateway environment (sandbox/production).
func (g GatewayConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(g.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

func (g GatewayConfig) validate() error {
	switch g.Environment() {
	case "sandbox", "production":
		return nil
	default:
		return fmt.Errorf("%s must be %q or %q", EnvGatewayEnv, "sandbox", "production")
	}
}

type JWTConfig struct {
	Secret            string `envconfig:"MCONSOLE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MCONSOLE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MCONSOLE_JWT_EXPIRATION_MINUTES" default:"480"`
}

// StaffConfig holds the console staff login, provisioned out of band.
type StaffConfig struct {
	Email        string `envconfig:"MCONSOLE_STAFF_EMAIL" required:"true"`
	PasswordHash string `envconfig:"MCONSOLE_STAFF_PASSWORD_HASH" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MCONSOLE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MCONSOLE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MCONSOLE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MCONSOLE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MCONSOLE_ARGON_KEY_LEN" default:"32"`
}

// RedisConfig is optional; when URL and Address are both empty the console
// runs without login rate limiting.
type RedisConfig struct {
	URL          string        `envconfig:"MCONSOLE_REDIS_URL"`
	Address      string        `envconfig:"MCONSOLE_REDIS_ADDR"`
	Password     string        `envconfig:"MCONSOLE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MCONSOLE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MCONSOLE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MCONSOLE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MCONSOLE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MCONSOLE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MCONSOLE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"MCONSOLE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"MCONSOLE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"MCONSOLE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// ValidatePublicBaseURL ensures the configured base URL parses as absolute.
func (a AppConfig) ValidatePublicBaseURL() error {
	u, err := url.Parse(a.PublicBaseURL)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("%s must be an absolute URL", EnvPublicBaseURL)
	}
	return nil
}
