// Package logging builds the zap loggers used across the module and masks
// credentials before they reach a log line.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger when env is "production" and a
// colored development logger otherwise.
func New(env string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env != "production" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg.Build()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

const tokenVisiblePrefix = 8

// MaskToken keeps the first few characters of a bearer token.
// Example: "eyJhbGciOiJIUzI1NiJ9.xxx" -> "eyJhbGci..."
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= tokenVisiblePrefix {
		return "***"
	}
	return token[:tokenVisiblePrefix] + "..."
}

// MaskEmail keeps the first three characters of the local part.
// Example: john.doe@example.com -> joh***@example.com
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "***"
	}
	if len(local) > 3 {
		local = local[:3]
	}
	return local + "***@" + domain
}
