package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_BASE_URL", "")
	t.Setenv("SESSION_TTL", "")

	cfg := Load()

	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "log", cfg.MailDriver)
	assert.True(t, cfg.MailSendEnabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("SMTP_PORT", "abc")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.CookieSecure)
}

func TestLinks(t *testing.T) {
	t.Setenv("APP_BASE_URL", "https://casas.example.com/")
	cfg := Load()

	assert.Equal(t, "https://casas.example.com/confirmar/abc", cfg.ConfirmURL("abc"))
	assert.Equal(t, "https://casas.example.com/olvide-password/xyz", cfg.ResetURL("xyz"))
}

func TestSplitLists(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a.test, ,http://b.test", ElasticsearchAddrs: ""}

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Empty(t, cfg.ESAddrs())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}

func TestPostgresDSN_EscapesCredentials(t *testing.T) {
	cfg := &Config{DBUser: "app", DBPassword: "p@ss/word", DBHost: "db", DBPort: "5432", DBName: "d", DBSSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/d?sslmode=require", cfg.PostgresDSN())
}

func TestValidate(t *testing.T) {
	ok := &Config{Env: "development", JWTSecret: devJWTSecret, MaxImageBytes: 1, MailDriver: "log", BaseURL: "http://localhost:3000"}
	assert.NoError(t, ok.Validate())

	prod := *ok
	prod.Env = "production"
	assert.ErrorContains(t, prod.Validate(), "JWT_SECRET")

	bad := *ok
	bad.MailDriver = "pigeon"
	bad.SessionTTL = -time.Second
	bad.BaseURL = "not a url"
	err := bad.Validate()
	assert.ErrorContains(t, err, "MAIL_DRIVER")
	assert.ErrorContains(t, err, "SESSION_TTL")
	assert.ErrorContains(t, err, "APP_BASE_URL")
}
