package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const minSecretKeyLen = 32

var (
	ErrSecretKeyMissing   = errors.New("JWT_SECRET is not set")
	ErrSecretKeyInsecure  = errors.New("JWT_SECRET is insecure")
	ErrDatabaseURLMissing = errors.New("DATABASE_URL is not set")

	// secrets shipped as defaults by earlier versions and tutorials
	insecureSecretKeys = []string{
		"your-secret-key",
		"secret",
		"changeme",
		"poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy",
	}
)

type Config struct {
	Env     string
	Debug   bool
	AppName string
	Build   string

	Server struct {
		Addr            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	Session struct {
		SecretKey    []byte
		TTL          time.Duration
		CookieSecure bool
	}

	Database struct {
		URL          string
		MaxOpenConns int
	}

	Log struct {
		Level string
		File  string
	}

	RollbarToken string
}

// NewConfig loads the configuration from the environment (and `config/.env.<env>` if present).
// It fails if a required setting is missing or unsafe.
func NewConfig() (*Config, error) {
	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("app_name", "Rapor")
	v.SetDefault("build", "develop")
	v.SetDefault("http_addr", ":8000")
	v.SetDefault("debug_host", "127.0.0.1:4000")
	v.SetDefault("shutdown_timeout", 5*time.Second)
	v.SetDefault("session_ttl", 7*24*time.Hour)
	v.SetDefault("cookie_secure", env == "PROD")
	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("rollbar_token", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("database_url", "")
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		AppName:      v.GetString("app_name"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbar_token"),
	}
	conf.Server.Addr = v.GetString("http_addr")
	conf.Server.DebugHost = v.GetString("debug_host")
	conf.Server.ShutdownTimeout = v.GetDuration("shutdown_timeout")
	conf.Session.SecretKey = []byte(v.GetString("jwt_secret"))
	conf.Session.TTL = v.GetDuration("session_ttl")
	conf.Session.CookieSecure = v.GetBool("cookie_secure")
	conf.Database.URL = v.GetString("database_url")
	conf.Database.MaxOpenConns = v.GetInt("db_max_open_conns")
	conf.Log.Level = v.GetString("log_level")
	conf.Log.File = v.GetString("log_file")

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) Validate() error {
	if len(c.Session.SecretKey) == 0 {
		return ErrSecretKeyMissing
	}
	for _, s := range insecureSecretKeys {
		if string(c.Session.SecretKey) == s {
			return errors.Wrap(ErrSecretKeyInsecure, "known default value")
		}
	}
	if len(c.Session.SecretKey) < minSecretKeyLen {
		return errors.Wrapf(ErrSecretKeyInsecure, "must be at least %d bytes", minSecretKeyLen)
	}
	if c.Database.URL == "" {
		return ErrDatabaseURLMissing
	}
	return nil
}

func (c *Config) IsTest() bool {
	return c.Env == "TEST"
}
