package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	JWTSecret      string
	AccessTokenTTL string

	Log      string
	LogLevel string
	Env      string // dev|prod

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	ContactEmail string

	SiteURL     string
	FrontendURL string

	UploadDir string
	ExportDir string

	UPIPayeeID   string
	UPIPayeeName string

	PasswordResetTTLMin string

	SeedAdminUsername string
	SeedAdminEmail    string
	SeedAdminPassword string
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует — чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: def(os.Getenv("ACCESS_TOKEN_EXPIRY"), "15m"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     def(os.Getenv("SMTP_PORT"), "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		ContactEmail: os.Getenv("CONTACT_EMAIL"),

		SiteURL:     os.Getenv("SITEURL"),
		FrontendURL: os.Getenv("FRONTEND_URL"),

		UploadDir: def(os.Getenv("UPLOAD_DIR"), "static/uploads"),
		ExportDir: def(os.Getenv("EXPORT_DIR"), "exports"),

		UPIPayeeID:   os.Getenv("UPI_PAYEE_ID"),
		UPIPayeeName: def(os.Getenv("UPI_PAYEE_NAME"), "Dhrub Foundation"),

		PasswordResetTTLMin: def(os.Getenv("PASSWORD_RESET_TTL_MIN"), "60"),

		SeedAdminUsername: def(os.Getenv("SEED_ADMIN_USERNAME"), "master"),
		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	// Критичные: БД
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		warnings = append(warnings, "JWT_SECRET is empty")
	}

	// UPI — предупреждение: без payee id не собрать платёжную ссылку
	if c.UPIPayeeID == "" {
		warnings = append(warnings, "UPI_PAYEE_ID is not set")
	}

	// SMTP — предупреждение
	if c.SMTPHost == "" || c.SMTPUser == "" {
		warnings = append(warnings, "SMTP is not fully configured")
	}

	if c.SeedAdminPassword == "" {
		warnings = append(warnings, "SEED_ADMIN_PASSWORD is empty, seed admin will not be created")
	}

	if c.Port == "" {
		warnings = append(warnings, "PORT is empty, using default 8080")
	}

	return warnings, nil
}

// GetDSN — полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
