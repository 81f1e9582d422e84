package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Mail    MailConfig
	Booking BookingConfig
	Admin   AdminConfig
}

type AppConfig struct {
	Port string
	Env  string
	// FrontendURL is allowed by CORS and linked from emails.
	FrontendURL string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
	// MigrationsPath is a golang-migrate source URL, e.g. file://migrations
	MigrationsPath string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether an SMTP host is configured. Without one, mail is
// logged instead of sent.
func (c MailConfig) Enabled() bool {
	return c.Host != ""
}

type BookingConfig struct {
	Timezone   string
	OTPExpiry  time.Duration
	OTPResends int
	OTPWindow  time.Duration
}

// Location resolves the business timezone used for slots and email dates.
func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

type AdminConfig struct {
	Email    string
	Password string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("DB_MIGRATIONS_PATH", "file://migrations")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRY", "168h")

	v.SetDefault("SMTP_PORT", 587)

	v.SetDefault("BOOKING_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("OTP_EXPIRY", "10m")
	v.SetDefault("OTP_MAX_RESENDS", 3)
	v.SetDefault("OTP_RESEND_WINDOW", "10m")
}

func LoadConfig() (*Config, error) {
	return load(".env")
}

// load reads path if it exists; environment variables always win.
func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(v.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	otpExpiry, err := time.ParseDuration(v.GetString("OTP_EXPIRY"))
	if err != nil {
		otpExpiry = 10 * time.Minute
	}

	otpWindow, err := time.ParseDuration(v.GetString("OTP_RESEND_WINDOW"))
	if err != nil {
		otpWindow = 10 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			FrontendURL: v.GetString("FRONTEND_URL"),
		},
		DB: DBConfig{
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetString("DB_PORT"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			Name:           v.GetString("DB_NAME"),
			SSLMode:        v.GetString("DB_SSLMODE"),
			AutoMigrate:    v.GetBool("DB_AUTO_MIGRATE"),
			MigrationsPath: v.GetString("DB_MIGRATIONS_PATH"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Mail: MailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		Booking: BookingConfig{
			Timezone:   v.GetString("BOOKING_TIMEZONE"),
			OTPExpiry:  otpExpiry,
			OTPResends: v.GetInt("OTP_MAX_RESENDS"),
			OTPWindow:  otpWindow,
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if _, err := config.Booking.Location(); err != nil {
		return nil, err
	}

	return config, nil
}
