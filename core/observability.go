package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
	outcomeFault = "fault"
)

func (s *Service) startOperation(ctx context.Context, operation string) (context.Context, Span) {
	if s == nil || s.tracer == nil {
		return ctx, nopSpan{}
	}
	ctx, span := s.tracer.Start(ctx, "mtoken."+normalizeOperation(operation))
	if span == nil {
		span = nopSpan{}
	}
	span.SetAttribute("mtoken.operation", normalizeOperation(operation))
	return ctx, span
}

// observeOperation records the outcome of one call. outcome is "ok" for OK
// envelopes, "error" for server reported errors and "fault" for Go errors.
func (s *Service) observeOperation(
	ctx context.Context,
	span Span,
	startedAt time.Time,
	operation string,
	outcome string,
	err error,
	fields map[string]any,
) {
	if s == nil {
		return
	}
	operation = normalizeOperation(operation)
	if operation == "" {
		operation = "unknown"
	}
	status := "success"
	if err != nil {
		status = "failure"
		outcome = outcomeFault
	}

	contextFields := cloneFields(fields)
	contextFields["operation"] = operation
	contextFields["status"] = status
	contextFields["outcome"] = outcome
	contextFields["duration_ms"] = time.Since(startedAt).Milliseconds()
	if err != nil {
		contextFields["error"] = err.Error()
		var rich *goerrors.Error
		if goerrors.As(err, &rich) {
			contextFields["error_category"] = string(rich.Category)
			contextFields["error_text_code"] = rich.TextCode
		}
	}

	tags := map[string]string{
		"operation": operation,
		"status":    status,
		"outcome":   outcome,
	}
	if code := strings.TrimSpace(fmt.Sprint(contextFields["error_code"])); code != "" && code != "<nil>" {
		tags["error_code"] = code
	}

	s.recordCounter(ctx, "mtoken."+operation+".total", 1, tags)
	s.recordHistogram(ctx, "mtoken."+operation+".duration_ms", float64(time.Since(startedAt).Milliseconds()), tags)

	if span != nil {
		span.SetAttribute("mtoken.status", status)
		span.SetAttribute("mtoken.outcome", outcome)
		if code, ok := tags["error_code"]; ok {
			span.SetAttribute("mtoken.error_code", code)
		}
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}

	if err != nil {
		s.logError(ctx, operation+" failed", RedactSensitiveMap(contextFields))
		return
	}
	s.logInfo(ctx, operation+" succeeded", RedactSensitiveMap(contextFields))
}

func (s *Service) logInfo(ctx context.Context, message string, fields map[string]any) {
	s.logWithLevel(ctx, "info", message, fields)
}

func (s *Service) logDebug(ctx context.Context, message string, fields map[string]any) {
	s.logWithLevel(ctx, "debug", message, fields)
}

func (s *Service) logError(ctx context.Context, message string, fields map[string]any) {
	s.logWithLevel(ctx, "error", message, fields)
}

func (s *Service) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if s == nil || s.logger == nil {
		return
	}
	logger := s.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		logger.Error(message, args...)
	case "debug":
		logger.Debug(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (s *Service) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if s == nil || s.metricsRecorder == nil {
		return
	}
	s.metricsRecorder.IncCounter(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func (s *Service) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if s == nil || s.metricsRecorder == nil {
		return
	}
	s.metricsRecorder.ObserveHistogram(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeOperation(operation string) string {
	operation = strings.TrimSpace(strings.ToLower(operation))
	operation = strings.ReplaceAll(operation, " ", "_")
	operation = strings.ReplaceAll(operation, "-", "_")
	return operation
}
