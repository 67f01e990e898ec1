// Package logger wraps a sugared zap logger with key-based redaction:
// identifiers are hashed and clinical text is never written out.
package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a key/value logger. A nil *Logger discards everything.
type Logger struct {
	sugar  *zap.SugaredLogger
	redact redaction
}

type redaction struct {
	enabled bool
	salt    string
}

// Option configures a Logger.
type Option func(*Logger)

// WithRedaction overrides the LOG_REDACTION_ENABLED / LOG_HASH_SALT
// environment defaults.
func WithRedaction(enabled bool, salt string) Option {
	return func(l *Logger) {
		l.redact = redaction{enabled: enabled, salt: salt}
	}
}

// New builds a logger. mode "prod" emits JSON at info level; anything else
// emits console output at debug level.
func New(mode string, opts ...Option) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return newLogger(z, opts...), nil
}

// NewNop returns a logger that writes nothing.
func NewNop() *Logger {
	return newLogger(zap.NewNop())
}

// FromZap wraps an existing zap logger, for tests that observe output.
func FromZap(z *zap.Logger, opts ...Option) *Logger {
	return newLogger(z, opts...)
}

func newLogger(z *zap.Logger, opts ...Option) *Logger {
	l := &Logger{sugar: z.Sugar(), redact: redactionFromEnv()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Zap exposes the underlying logger for libraries that need one.
func (l *Logger) Zap() *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.sugar.Desugar()
}

func (l *Logger) Sync() {
	if l != nil {
		_ = l.sugar.Sync()
	}
}

func (l *Logger) Debug(msg string, keysAndValues ...any) {
	if l != nil {
		l.sugar.Debugw(msg, l.sanitize(keysAndValues)...)
	}
}

func (l *Logger) Info(msg string, keysAndValues ...any) {
	if l != nil {
		l.sugar.Infow(msg, l.sanitize(keysAndValues)...)
	}
}

func (l *Logger) Warn(msg string, keysAndValues ...any) {
	if l != nil {
		l.sugar.Warnw(msg, l.sanitize(keysAndValues)...)
	}
}

func (l *Logger) Error(msg string, keysAndValues ...any) {
	if l != nil {
		l.sugar.Errorw(msg, l.sanitize(keysAndValues)...)
	}
}

// With returns a child logger that always carries keysAndValues.
func (l *Logger) With(keysAndValues ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sugar: l.sugar.With(l.sanitize(keysAndValues)...), redact: l.redact}
}

func redactionFromEnv() redaction {
	r := redaction{enabled: true, salt: strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))}
	switch strings.TrimSpace(strings.ToLower(os.Getenv("LOG_REDACTION_ENABLED"))) {
	case "0", "false", "no", "off":
		r.enabled = false
	}
	return r
}

func (l *Logger) sanitize(kv []any) []any {
	if len(kv) == 0 || !l.redact.enabled {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := toString(kv[i])
		out = append(out, key, l.sanitizeValue(strings.ToLower(strings.TrimSpace(key)), kv[i+1]))
	}
	return out
}

func (l *Logger) sanitizeValue(key string, val any) any {
	switch {
	case isRedactKey(key):
		return "[REDACTED]"
	case isHashKey(key):
		return hashValue(l.redact.salt, val)
	}
	return val
}

func isRedactKey(key string) bool {
	if key == "text" || (strings.Contains(key, "token") && !strings.HasSuffix(key, "tokens")) {
		return true
	}
	for _, frag := range []string{
		"authorization", "password", "secret", "api_key", "apikey",
		"transcript", "message_body",
	} {
		if strings.Contains(key, frag) {
			return true
		}
	}
	return false
}

func isHashKey(key string) bool {
	return strings.Contains(key, "user_id") || strings.Contains(key, "session_id")
}

func hashValue(salt string, val any) string {
	raw := toString(val)
	if raw == "" {
		return ""
	}
	h := sha256.New()
	if salt != "" {
		_, _ = h.Write([]byte(salt))
	}
	_, _ = h.Write([]byte(raw))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
