package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	serverConfig struct {
		Host            string
		Port            int
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}

	databaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		MaxOpenConns  int
	}

	sessionConfig struct {
		Store         string // memory | database
		TTL           time.Duration
		CookieName    string
		SweepSchedule string // cron spec
	}

	uploadsConfig struct {
		Dir      string
		MaxBytes int64
	}

	authConfig struct {
		LoginRateLimit  int
		LoginRateWindow time.Duration
	}

	Config struct {
		Env             string // DEV (local; default), TEST, QA, PROD
		Debug           bool
		TestMode        bool
		AppName         string
		Build           string
		SecretKey       string
		LogLevel        string
		WorkDir         string
		FrontendBaseURL string
		RollbarToken    string
		SendgridApiKey  string
		MailTimeout     time.Duration

		defaultFromEmail string

		Server   serverConfig
		Database databaseConfig
		Session  sessionConfig
		Uploads  uploadsConfig
		Auth     authConfig
	}
)

func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
	}
	return *addr
}

func (c *Config) SetDefaultFromEmail(email string) { c.defaultFromEmail = email }

func (c serverConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c databaseConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewConfig reads the configuration from the environment (prefixed with the uppercased ENV),
// falling back to config/.env.<env> and then to defaults.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Al-Furqan Portal")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "al-furqan-secret-key-2024")
	v.SetDefault("logLevel", "info")
	v.SetDefault("frontendBaseURL", "http://localhost:5000")
	v.SetDefault("defaultFromEmail", "Al-Furqan Portal <noreply@alfurqan.edu.ng>")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("mailTimeout", 10*time.Second)

	v.SetDefault("serverHost", "0.0.0.0")
	v.SetDefault("serverPort", 5000)
	v.SetDefault("serverDebugHost", "0.0.0.0:4000")
	v.SetDefault("serverReadTimeout", 5*time.Second)
	v.SetDefault("serverWriteTimeout", 10*time.Second)
	v.SetDefault("serverShutdownTimeout", 5*time.Second)

	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", 5432)
	v.SetDefault("databaseName", "alfurqan")
	v.SetDefault("databaseUser", "alfurqan")
	v.SetDefault("databasePassword", "alfurqan")
	v.SetDefault("databaseAdminUser", "")
	v.SetDefault("databaseAdminPassword", "")
	v.SetDefault("databaseDisableTLS", true)
	v.SetDefault("databaseMaxOpenConns", 20)

	v.SetDefault("sessionStore", "database")
	v.SetDefault("sessionTTL", 24*time.Hour)
	v.SetDefault("sessionCookieName", "alfurqan_session")
	v.SetDefault("sessionSweepSchedule", "@every 15m")

	v.SetDefault("uploadsDir", "uploads")
	v.SetDefault("uploadsMaxBytes", int64(10<<20))

	v.SetDefault("authLoginRateLimit", 5)
	v.SetDefault("authLoginRateWindow", time.Minute)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

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
	v.AutomaticEnv()

	conf := &Config{
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		SecretKey:        v.GetString("secretKey"),
		LogLevel:         v.GetString("logLevel"),
		WorkDir:          wd,
		FrontendBaseURL:  strings.TrimRight(v.GetString("frontendBaseURL"), "/"),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		MailTimeout:      v.GetDuration("mailTimeout"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		Server: serverConfig{
			Host:            v.GetString("serverHost"),
			Port:            v.GetInt("serverPort"),
			DebugHost:       v.GetString("serverDebugHost"),
			ReadTimeout:     v.GetDuration("serverReadTimeout"),
			WriteTimeout:    v.GetDuration("serverWriteTimeout"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
		},
		Database: databaseConfig{
			Engine:        v.GetString("databaseEngine"),
			Host:          v.GetString("databaseHost"),
			Port:          v.GetInt("databasePort"),
			Name:          v.GetString("databaseName"),
			User:          v.GetString("databaseUser"),
			Password:      v.GetString("databasePassword"),
			AdminUser:     v.GetString("databaseAdminUser"),
			AdminPassword: v.GetString("databaseAdminPassword"),
			DisableTLS:    v.GetBool("databaseDisableTLS"),
			MaxOpenConns:  v.GetInt("databaseMaxOpenConns"),
		},
		Session: sessionConfig{
			Store:         v.GetString("sessionStore"),
			TTL:           v.GetDuration("sessionTTL"),
			CookieName:    v.GetString("sessionCookieName"),
			SweepSchedule: v.GetString("sessionSweepSchedule"),
		},
		Uploads: uploadsConfig{
			Dir:      v.GetString("uploadsDir"),
			MaxBytes: v.GetInt64("uploadsMaxBytes"),
		},
		Auth: authConfig{
			LoginRateLimit:  v.GetInt("authLoginRateLimit"),
			LoginRateWindow: v.GetDuration("authLoginRateWindow"),
		},
	}
	if !filepath.IsAbs(conf.Uploads.Dir) {
		conf.Uploads.Dir = filepath.Join(wd, conf.Uploads.Dir)
	}
	return conf
}

// NewTestConfig returns a Config suitable for unit tests: no env lookups, no file system side effects.
func NewTestConfig() *Config {
	return &Config{
		Env:              "TEST",
		TestMode:         true,
		AppName:          "Al-Furqan Portal",
		Build:            "test",
		SecretKey:        "test-secret",
		LogLevel:         "error",
		FrontendBaseURL:  "http://localhost:5000",
		MailTimeout:      time.Second,
		defaultFromEmail: "noreply@alfurqan.test",
		Session: sessionConfig{
			Store:         "memory",
			TTL:           24 * time.Hour,
			CookieName:    "alfurqan_session",
			SweepSchedule: "@every 15m",
		},
		Uploads: uploadsConfig{
			Dir:      filepath.Join(os.TempDir(), "alfurqan-test-uploads"),
			MaxBytes: 10 << 20,
		},
		Auth: authConfig{
			LoginRateLimit:  1000,
			LoginRateWindow: time.Minute,
		},
	}
}
