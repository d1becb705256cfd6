package core

import (
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// operationReport is a finished bridge operation as seen by logs and metrics.
// mode is "direct", "replay" or "rejected" and comes from the caller's fields.
type operationReport struct {
	operation string
	mode      string
	elapsed   time.Duration
	err       error
	fields    map[string]any
}

func (r operationReport) status() string {
	if r.err != nil {
		return "failure"
	}
	return "success"
}

func (r operationReport) tags() map[string]string {
	tags := map[string]string{"operation": r.operation, "status": r.status()}
	if r.mode != "" {
		tags["mode"] = r.mode
	}
	var rich *goerrors.Error
	if goerrors.As(r.err, &rich) {
		tags["text_code"] = rich.TextCode
	}
	return tags
}

func (r operationReport) logFields() map[string]any {
	fields := cloneFields(r.fields)
	fields["operation"] = r.operation
	fields["status"] = r.status()
	fields["duration_ms"] = r.elapsed.Milliseconds()
	if r.err == nil {
		return fields
	}
	fields["error"] = r.err.Error()
	var rich *goerrors.Error
	if goerrors.As(r.err, &rich) {
		fields["error_category"] = string(rich.Category)
		fields["error_text_code"] = rich.TextCode
	}
	return fields
}

func (b *Bridge) observeOperation(
	ctx context.Context,
	startedAt time.Time,
	operation OperationKind,
	err error,
	fields map[string]any,
) {
	if b == nil {
		return
	}
	report := operationReport{
		operation: operationName(string(operation)),
		elapsed:   b.now().Sub(startedAt),
		err:       err,
		fields:    fields,
	}
	if mode, ok := fields["mode"].(string); ok {
		report.mode = strings.TrimSpace(mode)
	}

	tags := report.tags()
	b.recordCounter(ctx, operationMetric(report.operation, "total"), 1, tags)
	b.recordHistogram(ctx, operationMetric(report.operation, "duration_ms"), float64(report.elapsed.Milliseconds()), tags)

	if err != nil {
		b.logError(ctx, report.operation+" failed", report.logFields())
		return
	}
	b.logDebug(ctx, report.operation+" succeeded", report.logFields())
}

type logLevel uint8

const (
	levelDebug logLevel = iota
	levelInfo
	levelWarn
	levelError
)

func (b *Bridge) logDebug(ctx context.Context, message string, fields map[string]any) {
	b.log(ctx, levelDebug, message, fields)
}

func (b *Bridge) logInfo(ctx context.Context, message string, fields map[string]any) {
	b.log(ctx, levelInfo, message, fields)
}

func (b *Bridge) logWarn(ctx context.Context, message string, fields map[string]any) {
	b.log(ctx, levelWarn, message, fields)
}

func (b *Bridge) logError(ctx context.Context, message string, fields map[string]any) {
	b.log(ctx, levelError, message, fields)
}

// log attaches fields both through FieldsLogger, when the logger supports it,
// and as flattened key/value args.
func (b *Bridge) log(ctx context.Context, level logLevel, message string, fields map[string]any) {
	if b == nil || b.logger == nil {
		return
	}
	logger := b.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	emit := logger.Info
	switch level {
	case levelDebug:
		emit = logger.Debug
	case levelWarn:
		emit = logger.Warn
	case levelError:
		emit = logger.Error
	}
	emit(message, flattenFields(fields)...)
}

func (b *Bridge) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if b == nil || b.metricsRecorder == nil {
		return
	}
	b.metricsRecorder.IncCounter(ctx, name, value, cloneTags(tags))
}

func (b *Bridge) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if b == nil || b.metricsRecorder == nil {
		return
	}
	b.metricsRecorder.ObserveHistogram(ctx, name, value, cloneTags(tags))
}

func cloneFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	args := make([]any, 0, len(fields)*2)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, key, fields[key])
	}
	return args
}
