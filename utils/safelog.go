// utils/safelog.go
// ============================================================================
// SAFE LOGGING - masks sensitive data in production
// ============================================================================
// Structured logging on top of zerolog. In production, emails, card
// numbers, IBANs, amounts and identifiers are masked before they are written.
// ============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ============================================================================
// CONFIGURATION
// ============================================================================

var (
	// IsProduction switches masking on.
	IsProduction = os.Getenv("GIN_MODE") == "release" ||
		os.Getenv("ENVIRONMENT") == "production" ||
		os.Getenv("ENV") == "production"

	// Logger is the process-wide structured logger.
	Logger = newLogger(os.Stdout, "info")
)

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if !IsProduction {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// ConfigureLogging replaces the process logger. Call once at startup.
func ConfigureLogging(w io.Writer, level string, production bool) {
	IsProduction = production
	Logger = newLogger(w, level)
}

// ============================================================================
// MASKING PATTERNS
// ============================================================================

var (
	emailRegex              = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	amountWithCurrencyRegex = regexp.MustCompile(`(€|\$|£)\s*\d+([.,]\d{1,2})?|\b\d+([.,]\d{1,2})?\s*(€|EUR|USD|GBP|£|\$)`)
	ibanRegex               = regexp.MustCompile(`[A-Z]{2}\d{2}[A-Z0-9]{10,30}`)
	cardRegex               = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)
	uuidRegex               = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// ============================================================================
// MASKING
// ============================================================================

// MaskString masks sensitive data inside free text.
func MaskString(input string) string {
	if !IsProduction {
		return input
	}

	result := emailRegex.ReplaceAllString(input, "***@***.***")
	result = ibanRegex.ReplaceAllString(result, "****IBAN****")
	result = cardRegex.ReplaceAllString(result, "****-****-****-****")
	result = amountWithCurrencyRegex.ReplaceAllString(result, "***")
	result = uuidRegex.ReplaceAllStringFunc(result, shortenID)

	return result
}

func shortenID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return "***"
}

// MaskAmount hides a monetary amount.
func MaskAmount(amount fmt.Stringer) string {
	if IsProduction {
		return "***"
	}
	return amount.String()
}

// MaskID keeps the first 8 characters of an identifier.
func MaskID(id string) string {
	if !IsProduction {
		return id
	}
	return shortenID(id)
}

func MaskEmail(email string) string {
	if !IsProduction {
		return email
	}
	return "***@***.***"
}

// ============================================================================
// SAFE LOGGING
// ============================================================================

func SafeDebug(format string, args ...interface{}) {
	Logger.Debug().Msg(MaskString(fmt.Sprintf(format, args...)))
}

func SafeInfo(format string, args ...interface{}) {
	Logger.Info().Msg(MaskString(fmt.Sprintf(format, args...)))
}

func SafeWarn(format string, args ...interface{}) {
	Logger.Warn().Msg(MaskString(fmt.Sprintf(format, args...)))
}

func SafeError(format string, args ...interface{}) {
	Logger.Error().Msg(MaskString(fmt.Sprintf(format, args...)))
}

// ============================================================================
// DOMAIN LOGGERS
// ============================================================================

// LogLedgerAction records a write to a user's ledger without amounts.
func LogLedgerAction(action, collection, documentID, userID string) {
	Logger.Info().
		Str("component", "ledger").
		Str("action", action).
		Str("collection", collection).
		Str("document", MaskID(documentID)).
		Str("user", MaskID(userID)).
		Msg("ledger write")
}

func LogAuthAction(action, email string, success bool) {
	ev := Logger.Info()
	if !success {
		ev = Logger.Warn()
	}
	ev.Str("component", "auth").
		Str("action", action).
		Str("email", MaskEmail(email)).
		Bool("success", success).
		Msg("auth")
}

func LogAPIRequest(method, path, userID string, statusCode int, duration time.Duration) {
	if IsProduction {
		path = uuidRegex.ReplaceAllStringFunc(path, shortenID)
	}
	ev := Logger.Info()
	if statusCode >= 500 {
		ev = Logger.Error()
	}
	ev.Str("component", "api").
		Str("method", method).
		Str("path", path).
		Str("user", MaskID(userID)).
		Int("status", statusCode).
		Dur("duration", duration).
		Msg("request")
}

func LogWebSocket(action, userID string) {
	Logger.Info().
		Str("component", "ws").
		Str("action", action).
		Str("user", MaskID(userID)).
		Msg("websocket")
}

func GetEnvMode() string {
	if IsProduction {
		return "production"
	}
	return "development"
}

func LogStartup(appName, version, port string) {
	Logger.Info().
		Str("app", appName).
		Str("version", version).
		Str("mode", GetEnvMode()).
		Str("port", port).
		Str("level", Logger.GetLevel().String()).
		Msg("starting")
}
