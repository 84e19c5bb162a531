package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App             AppConfig
	DB              DBConfig
	Redis           RedisConfig
	JWT             JWTConfig
	OAuth           OAuthConfig
	LLM             LLMConfig
	Recommendations RecommendationsConfig
	FeatureFlags    FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VESTRA_APP_ENV" required:"true"`
	Port         string `envconfig:"VESTRA_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"VESTRA_APP_BASE_URL" default:"http://localhost:8080"`
	LogLevel     string `envconfig:"VESTRA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VESTRA_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"VESTRA_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VESTRA_DB_DSN"`
	Driver string `envconfig:"VESTRA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"VESTRA_DB_HOST"`
	Port     int    `envconfig:"VESTRA_DB_PORT" default:"5432"`
	User     string `envconfig:"VESTRA_DB_USER"`
	Password string `envconfig:"VESTRA_DB_PASSWORD"`
	Name     string `envconfig:"VESTRA_DB_NAME"`
	SSLMode  string `envconfig:"VESTRA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VESTRA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VESTRA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VESTRA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VESTRA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VESTRA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VESTRA_REDIS_ADDR"`
	Password     string        `envconfig:"VESTRA_REDIS_PASSWORD"`
	DB           int           `envconfig:"VESTRA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VESTRA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VESTRA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VESTRA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VESTRA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VESTRA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"VESTRA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"VESTRA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"VESTRA_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"VESTRA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// OAuthConfig carries the two identity providers users can sign in with.
type OAuthConfig struct {
	GoogleClientID     string `envconfig:"VESTRA_OAUTH_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"VESTRA_OAUTH_GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `envconfig:"VESTRA_OAUTH_GOOGLE_REDIRECT_URL"`

	GitHubClientID     string `envconfig:"VESTRA_OAUTH_GITHUB_CLIENT_ID"`
	GitHubClientSecret string `envconfig:"VESTRA_OAUTH_GITHUB_CLIENT_SECRET"`
	GitHubRedirectURL  string `envconfig:"VESTRA_OAUTH_GITHUB_REDIRECT_URL"`

	StateTTL time.Duration `envconfig:"VESTRA_OAUTH_STATE_TTL" default:"10m"`
}

// OAuthProviderConfig is the per-provider view handed to the auth service.
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (o OAuthConfig) Google() OAuthProviderConfig {
	return OAuthProviderConfig{
		ClientID:     o.GoogleClientID,
		ClientSecret: o.GoogleClientSecret,
		RedirectURL:  o.GoogleRedirectURL,
	}
}

func (o OAuthConfig) GitHub() OAuthProviderConfig {
	return OAuthProviderConfig{
		ClientID:     o.GitHubClientID,
		ClientSecret: o.GitHubClientSecret,
		RedirectURL:  o.GitHubRedirectURL,
	}
}

func (p OAuthProviderConfig) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

type LLMConfig struct {
	APIKey         string        `envconfig:"VESTRA_LLM_API_KEY"`
	BaseURL        string        `envconfig:"VESTRA_LLM_BASE_URL"`
	Model          string        `envconfig:"VESTRA_LLM_MODEL" default:"gpt-4o-mini"`
	Temperature    float32       `envconfig:"VESTRA_LLM_TEMPERATURE" default:"0.7"`
	RequestTimeout time.Duration `envconfig:"VESTRA_LLM_REQUEST_TIMEOUT" default:"30s"`
}

// RecommendationsConfig bounds the outfit recommendation surface per user.
type RecommendationsConfig struct {
	Limit  int           `envconfig:"VESTRA_RECS_LIMIT" default:"15"`
	Window time.Duration `envconfig:"VESTRA_RECS_WINDOW" default:"1h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VESTRA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for envName, value := range map[string]string{
		"VESTRA_DB_HOST": db.Host,
		"VESTRA_DB_USER": db.User,
		"VESTRA_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, envName)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either VESTRA_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
