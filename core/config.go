package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (default), TEST, QA, PROD
		Build    string
		WorkDir  string

		AppName          string
		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		SendgridApiKey   string
		RollbarToken     string

		SessionTimeout            time.Duration // access token lifetime
		MaxLoginAttempts          int
		LockoutDuration           time.Duration
		PasswordResetTimeoutDelta time.Duration

		Database DatabaseConfig
		Server   ServerConfig
	}

	DatabaseConfig struct {
		URI  string
		Name string
	}

	ServerConfig struct {
		Host                      string
		Port                      string
		JWTRefreshExpirationDelta time.Duration
		ShutdownTimeout           time.Duration
	}
)

func (c ServerConfig) Address() string { return c.Host + ":" + c.Port }

// NewConfig loads the configuration from the environment; an optional
// config/.env.<env> file is loaded first if it exists.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Shule")
	conf.SetDefault("secretKey", "w3+2q(0b$zj^#yg4h^$cegm2emy!x)#*c2(#poq5-wer)enb")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("frontendBaseURL", "http://localhost:8501")
	conf.SetDefault("sessionTimeoutMinutes", 30)
	conf.SetDefault("maxLoginAttempts", 3)
	conf.SetDefault("lockoutDurationMinutes", 15)
	conf.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)
	conf.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	conf.SetDefault("shutdownTimeout", 20*time.Second)
	conf.SetDefault("mongoURI", "mongodb://localhost:27017")
	conf.SetDefault("mongoDBName", "shule")
	conf.SetDefault("host", "0.0.0.0")
	conf.SetDefault("port", "8000")

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:    conf.GetBool("debug"),
		TestMode: conf.GetBool("testMode"),
		Env:      env,
		Build:    conf.GetString("build"),
		WorkDir:  wd,

		AppName:          conf.GetString("appName"),
		SecretKey:        conf.GetString("secretKey"),
		FrontendBaseURL:  conf.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{Name: conf.GetString("appName"), Address: conf.GetString("defaultFromEmail")},
		SendgridApiKey:   conf.GetString("sendgridApiKey"),
		RollbarToken:     conf.GetString("rollbarToken"),

		SessionTimeout:            time.Duration(conf.GetInt("sessionTimeoutMinutes")) * time.Minute,
		MaxLoginAttempts:          conf.GetInt("maxLoginAttempts"),
		LockoutDuration:           time.Duration(conf.GetInt("lockoutDurationMinutes")) * time.Minute,
		PasswordResetTimeoutDelta: conf.GetDuration("passwordResetTimeoutDelta"),

		Database: DatabaseConfig{
			URI:  conf.GetString("mongoURI"),
			Name: conf.GetString("mongoDBName"),
		},
		Server: ServerConfig{
			Host:                      conf.GetString("host"),
			Port:                      conf.GetString("port"),
			JWTRefreshExpirationDelta: conf.GetDuration("jwtRefreshExpirationDelta"),
			ShutdownTimeout:           conf.GetDuration("shutdownTimeout"),
		},
	}
}
