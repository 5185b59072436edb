package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// DefaultTokenName is the logical token shared by every operation endpoint.
const DefaultTokenName = "possession_universal"

type SignatureFactor string

const (
	FactorPossession          SignatureFactor = "possession"
	FactorPossessionKnowledge SignatureFactor = "possession_knowledge"
	FactorPossessionBiometry  SignatureFactor = "possession_biometry"
)

// Authentication selects the factor set the token provider must satisfy when
// it issues (or reuses) an access token. It is handed to the provider verbatim.
type Authentication struct {
	Factor         SignatureFactor
	Password       string
	BiometryPrompt string
}

func PossessionAuthentication() Authentication {
	return Authentication{Factor: FactorPossession}
}

func PasswordAuthentication(password string) Authentication {
	return Authentication{Factor: FactorPossessionKnowledge, Password: password}
}

func BiometryAuthentication(prompt string) Authentication {
	return Authentication{Factor: FactorPossessionBiometry, BiometryPrompt: prompt}
}

func (a Authentication) ResolvedFactor() SignatureFactor {
	if a.Factor == "" {
		return FactorPossession
	}
	return a.Factor
}

func (a Authentication) String() string {
	return "Authentication(" + string(a.ResolvedFactor()) + ")"
}

func (a Authentication) GoString() string {
	return a.String()
}

// AccessToken is an opaque handle owned by the token provider.
type AccessToken struct {
	TokenName string
	Metadata  map[string]any
}

// AuthHeader is valid for exactly one request.
type AuthHeader struct {
	Key   string
	Value string
}

// TokenProvider is the authentication collaborator. Implementations own
// token persistence, cryptography and any retry or deduplication policy.
type TokenProvider interface {
	RequestAccessToken(ctx context.Context, tokenName string, auth Authentication) (AccessToken, error)
	GenerateHeaderForToken(ctx context.Context, tokenName string) (AuthHeader, error)
}

// EndpointProvider is implemented by token providers that know the server
// base URL they were configured with.
type EndpointProvider interface {
	BaseEndpointURL() string
}

type TransportRequest struct {
	Method      string
	URL         string
	Headers     map[string]string
	Body        []byte
	Metadata    map[string]any
	Timeout     time.Duration
	MaxBodySize int64
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// RequestProcessor runs as the last step before dispatch. It is meant for
// header augmentation; rewriting the body voids the signature guarantees.
type RequestProcessor func(req TransportRequest) TransportRequest

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Span interface {
	SetAttribute(key string, value string)
	RecordError(err error)
	End()
}

type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, Span)
}
