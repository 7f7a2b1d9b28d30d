package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldPage is the notebook page an entry belongs to.
	FieldPage = "page"
	// FieldBlock is the block currently being assembled.
	FieldBlock = "block"
	// FieldAttribute names the attribute template a value belongs to.
	FieldAttribute = "attribute"
	// FieldValue carries the categorical value under validation.
	FieldValue = "value"
	// FieldEntity is the generated name of a spec, run, or entity.
	FieldEntity = "entity"
	// FieldPolicy names the unknown-value policy in effect.
	FieldPolicy = "policy"
	// FieldPath is a file or database location.
	FieldPath = "path"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step for the operator.
	FieldErrorHint = "error_hint"
	// FieldDecisionType names a recorded decision.
	FieldDecisionType = "decision_type"
	// FieldImpact states what a warning means for the entry being written.
	FieldImpact = "impact"
)

type contextKey int

const (
	pageKey contextKey = iota
	blockKey
)

// WithPage returns a context carrying the notebook page number.
func WithPage(ctx context.Context, page string) context.Context {
	if page == "" {
		return ctx
	}
	return context.WithValue(ctx, pageKey, page)
}

// WithBlock returns a context carrying the block name.
func WithBlock(ctx context.Context, block string) context.Context {
	if block == "" {
		return ctx
	}
	return context.WithValue(ctx, blockKey, block)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if page, ok := ctx.Value(pageKey).(string); ok {
		fields = append(fields, slog.String(FieldPage, page))
	}
	if block, ok := ctx.Value(blockKey).(string); ok {
		fields = append(fields, slog.String(FieldBlock, block))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
