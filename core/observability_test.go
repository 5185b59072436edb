package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type capturedCounter struct {
	name  string
	value int64
	tags  map[string]string
}

type capturedHistogram struct {
	name  string
	value float64
	tags  map[string]string
}

type captureMetricsRecorder struct {
	mu         sync.Mutex
	counters   []capturedCounter
	histograms []capturedHistogram
}

func (m *captureMetricsRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, capturedCounter{name: name, value: value, tags: cloneTags(tags)})
}

func (m *captureMetricsRecorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms = append(m.histograms, capturedHistogram{name: name, value: value, tags: cloneTags(tags)})
}

type capturedLog struct {
	level  string
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu       *sync.Mutex
	records  *[]capturedLog
	defaults map[string]any
}

func newCaptureLogger() *captureLogger {
	records := []capturedLog{}
	return &captureLogger{mu: &sync.Mutex{}, records: &records, defaults: map[string]any{}}
}

func (l *captureLogger) WithFields(fields map[string]any) Logger {
	merged := cloneFields(l.defaults)
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{mu: l.mu, records: l.records, defaults: merged}
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) Logger {
	return &captureLogger{mu: l.mu, records: l.records, defaults: cloneFields(l.defaults)}
}

func (l *captureLogger) record(level string, msg string, args ...any) {
	fields := cloneFields(l.defaults)
	for index := 0; index+1 < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			continue
		}
		fields[key] = args[index+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, capturedLog{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) snapshot() []capturedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := *l.records
	out := make([]capturedLog, len(items))
	copy(out, items)
	return out
}

type captureSpan struct {
	name       string
	attributes map[string]string
	errs       []error
	ended      bool
}

func (s *captureSpan) SetAttribute(key string, value string) { s.attributes[key] = value }
func (s *captureSpan) RecordError(err error)                 { s.errs = append(s.errs, err) }
func (s *captureSpan) End()                                  { s.ended = true }

type captureTracer struct {
	mu    sync.Mutex
	spans []*captureSpan
}

func (t *captureTracer) Start(ctx context.Context, name string) (context.Context, Span) {
	t.mu.Lock()
	defer t.mu.Unlock()
	span := &captureSpan{name: name, attributes: map[string]string{}}
	t.spans = append(t.spans, span)
	return ctx, span
}

func newObservedService(t *testing.T, transport TransportAdapter) (*Service, *captureMetricsRecorder, *captureLogger, *captureTracer) {
	t.Helper()
	metrics := &captureMetricsRecorder{}
	logger := newCaptureLogger()
	tracer := &captureTracer{}
	svc, _ := newTestService(t, transport,
		WithMetricsRecorder(metrics),
		WithLoggerProvider(stubLoggerProvider{logger: logger}),
		WithLogger(logger),
		WithTracer(tracer),
	)
	return svc, metrics, logger, tracer
}

func TestServiceObservability_ListSuccess(t *testing.T) {
	svc, metrics, logger, tracer := newObservedService(t, okTransport(`{"status":"OK","responseObject":[]}`))

	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}

	if !hasCounter(metrics.counters, "mtoken.list.total", "success", "ok") {
		t.Fatalf("expected mtoken.list.total success counter")
	}
	if !hasHistogram(metrics.histograms, "mtoken.list.duration_ms", "success") {
		t.Fatalf("expected mtoken.list.duration_ms histogram")
	}
	if !hasLog(logger.snapshot(), "info", "list succeeded", "list") {
		t.Fatalf("expected list succeeded structured log")
	}
	if len(tracer.spans) != 1 || tracer.spans[0].name != "mtoken.list" || !tracer.spans[0].ended {
		t.Fatalf("expected one ended mtoken.list span, got %#v", tracer.spans)
	}
}

func TestServiceObservability_ServerErrorIsNotFailure(t *testing.T) {
	svc, metrics, _, tracer := newObservedService(t,
		okTransport(`{"status":"ERROR","responseObject":{"code":"OPERATION_ALREADY_FINISHED","message":"done"}}`))

	envelope, err := svc.Reject(context.Background(), "op_1", RejectReasonUnknown)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if envelope.ResponseError == nil || envelope.ResponseError.Code != ErrorCodeOperationAlreadyFinished {
		t.Fatalf("expected server error data, got %#v", envelope)
	}
	if !hasCounter(metrics.counters, "mtoken.reject.total", "success", "error") {
		t.Fatalf("expected reject counter with error outcome, got %#v", metrics.counters)
	}
	var tagged bool
	for _, counter := range metrics.counters {
		if counter.tags["error_code"] == string(ErrorCodeOperationAlreadyFinished) {
			tagged = true
		}
	}
	if !tagged {
		t.Fatalf("expected error_code tag on reject counter")
	}
	if tracer.spans[0].attributes["mtoken.error_code"] != string(ErrorCodeOperationAlreadyFinished) {
		t.Fatalf("expected error code span attribute, got %#v", tracer.spans[0].attributes)
	}
}

func TestServiceObservability_TransportFailure(t *testing.T) {
	transport := &stubTransport{err: goerrors.New("dial refused", goerrors.CategoryExternal).WithTextCode(ErrorTransportFailure)}
	svc, metrics, logger, tracer := newObservedService(t, transport)

	_, err := svc.Detail(context.Background(), "op_1")
	if !IsTransportFault(err) {
		t.Fatalf("expected transport fault, got %v", err)
	}
	if !hasCounter(metrics.counters, "mtoken.detail.total", "failure", "fault") {
		t.Fatalf("expected detail failure counter")
	}
	if !hasLog(logger.snapshot(), "error", "detail failed", "detail") {
		t.Fatalf("expected detail failure log")
	}
	if len(tracer.spans[0].errs) != 1 {
		t.Fatalf("expected span to record the error")
	}
}

func TestServiceObservability_EnrichesStructuredErrorFields(t *testing.T) {
	svc, _, logger, _ := newObservedService(t, okTransport(""))

	richErr := goerrors.New("upstream timeout", goerrors.CategoryExternal).
		WithCode(502).
		WithTextCode(ErrorTransportFailure)
	svc.observeOperation(
		context.Background(),
		nopSpan{},
		time.Now().UTC(),
		"authorize",
		outcomeOK,
		richErr,
		map[string]any{"operation_id": "op_1", "password": "1234"},
	)

	logs := logger.snapshot()
	if len(logs) != 1 {
		t.Fatalf("expected one log record, got %d", len(logs))
	}
	fields := logs[0].fields
	if fields["error_text_code"] != ErrorTransportFailure {
		t.Fatalf("expected error_text_code field, got %#v", fields["error_text_code"])
	}
	if fields["error_category"] != string(goerrors.CategoryExternal) {
		t.Fatalf("expected error_category field, got %#v", fields["error_category"])
	}
	if fields["outcome"] != outcomeFault {
		t.Fatalf("expected fault outcome for errors, got %#v", fields["outcome"])
	}
	if fields["password"] != RedactedValue {
		t.Fatalf("expected password to be redacted, got %#v", fields["password"])
	}
	if fields["operation_id"] != "op_1" {
		t.Fatalf("expected operation_id to remain visible, got %#v", fields["operation_id"])
	}
}

func TestServiceObservability_TokenProviderFailureSkipsTransport(t *testing.T) {
	transport := okTransport(`{"status":"OK"}`)
	svc, metrics, _, _ := newObservedService(t, transport)
	provider := svc.tokenProvider.(*stubTokenProvider)
	provider.requestErr = errors.New("activation is blocked")

	_, err := svc.Authorize(context.Background(), UserOperation{ID: "op_1"}, PasswordAuthentication("1234"))
	if !IsTokenProviderFault(err) {
		t.Fatalf("expected token provider fault, got %v", err)
	}
	if transport.calls() != 0 {
		t.Fatalf("expected no transport call")
	}
	if !hasCounter(metrics.counters, "mtoken.authorize.total", "failure", "fault") {
		t.Fatalf("expected authorize failure counter")
	}
}

func hasCounter(items []capturedCounter, name, status, outcome string) bool {
	for _, item := range items {
		if item.name == name && item.tags["status"] == status && item.tags["outcome"] == outcome {
			return true
		}
	}
	return false
}

func hasHistogram(items []capturedHistogram, name, status string) bool {
	for _, item := range items {
		if item.name == name && item.tags["status"] == status {
			return true
		}
	}
	return false
}

func hasLog(items []capturedLog, level, msg, operation string) bool {
	for _, item := range items {
		if item.level == level && item.msg == msg && item.fields["operation"] == operation {
			return true
		}
	}
	return false
}
