package core

import (
	"context"
	"sync"
)

type stubTokenProvider struct {
	mu           sync.Mutex
	baseURL      string
	tokenName    string
	headerKey    string
	requestErr   error
	headerErr    error
	requestCalls int
	headerCalls  int
	lastAuth     Authentication
	headerNames  []string
}

func newStubTokenProvider() *stubTokenProvider {
	return &stubTokenProvider{baseURL: "https://mtoken.example.test/enrollment-server", headerKey: "X-PowerAuth-Token"}
}

func (p *stubTokenProvider) BaseEndpointURL() string { return p.baseURL }

func (p *stubTokenProvider) RequestAccessToken(_ context.Context, tokenName string, auth Authentication) (AccessToken, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requestCalls++
	p.lastAuth = auth
	if p.requestErr != nil {
		return AccessToken{}, p.requestErr
	}
	name := tokenName
	if p.tokenName != "" {
		name = p.tokenName
	}
	return AccessToken{TokenName: name}, nil
}

func (p *stubTokenProvider) GenerateHeaderForToken(_ context.Context, tokenName string) (AuthHeader, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.headerCalls++
	p.headerNames = append(p.headerNames, tokenName)
	if p.headerErr != nil {
		return AuthHeader{}, p.headerErr
	}
	return AuthHeader{Key: p.headerKey, Value: `PowerAuth token_id="` + tokenName + `"`}, nil
}

type stubTransport struct {
	mu       sync.Mutex
	response TransportResponse
	err      error
	requests []TransportRequest
}

func okTransport(body string) *stubTransport {
	return &stubTransport{response: TransportResponse{StatusCode: 200, Body: []byte(body)}}
}

func (t *stubTransport) Kind() string { return "stub" }

func (t *stubTransport) Do(_ context.Context, req TransportRequest) (TransportResponse, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests = append(t.requests, req)
	return t.response, t.err
}

func (t *stubTransport) calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.requests)
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

func newTestService(tb interface{ Fatalf(string, ...any) }, transport TransportAdapter, opts ...Option) (*Service, *stubTokenProvider) {
	provider := newStubTokenProvider()
	all := append([]Option{WithTokenProvider(provider), WithTransport(transport)}, opts...)
	svc, err := NewService(DefaultConfig(), all...)
	if err != nil {
		tb.Fatalf("new service: %v", err)
	}
	return svc, provider
}
