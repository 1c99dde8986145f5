package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldSession  = "session"
	FieldReport   = "report_id"
	FieldProvider = "narrative_provider"
	FieldModel    = "narrative_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, trimming whitespace
// and omitting entries with an empty key or value.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to logger. A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// SessionFields identifies one report run.
func SessionFields(session, reportID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldSession, Value: session},
		StringField{Key: FieldReport, Value: reportID},
	)
}

// NarrativeFields describes the narrative backend in use.
func NarrativeFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}
