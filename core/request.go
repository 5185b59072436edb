package core

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const (
	headerAccept         = "Accept"
	headerContentType    = "Content-Type"
	headerAcceptLanguage = "Accept-Language"
	headerUserAgent      = "User-Agent"
	contentTypeJSON      = "application/json"
)

// SignedRequest describes one token authenticated call.
type SignedRequest struct {
	Path           string
	Body           any
	TokenName      string
	Authentication Authentication
	AcceptLanguage string
	Processor      RequestProcessor
}

type CallOption func(*callOptions)

type callOptions struct {
	processor RequestProcessor
	language  string
}

// WithRequestProcessor lets the caller adjust the request right before it is
// sent. Only header changes are safe.
func WithRequestProcessor(processor RequestProcessor) CallOption {
	return func(o *callOptions) {
		o.processor = processor
	}
}

// WithLanguage overrides Accept-Language for a single call.
func WithLanguage(tag string) CallOption {
	return func(o *callOptions) {
		o.language = strings.TrimSpace(tag)
	}
}

func resolveCallOptions(opts []CallOption) callOptions {
	resolved := callOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&resolved)
	}
	return resolved
}

// BuildSignedRequest acquires an access token, generates the one-time auth
// header for it and assembles the POST request. The token provider is called
// exactly once for each capability and failures are returned without retry.
func (s *Service) BuildSignedRequest(ctx context.Context, req SignedRequest) (TransportRequest, error) {
	if s == nil || s.tokenProvider == nil {
		return TransportRequest{}, internalError("core: service token provider is required")
	}
	path := strings.TrimLeft(strings.TrimSpace(req.Path), "/")
	if path == "" {
		return TransportRequest{}, s.mapError(validationError("path", "endpoint path is required"))
	}
	tokenName := strings.TrimSpace(req.TokenName)
	if tokenName == "" {
		tokenName = s.config.TokenName
	}
	language := strings.TrimSpace(req.AcceptLanguage)
	if language == "" {
		language = s.acceptLanguage
	}

	body, err := encodeRequestBody(req.Body)
	if err != nil {
		return TransportRequest{}, s.mapError(badInputError("core: request body is not JSON serializable: " + err.Error()))
	}

	token, err := s.tokenProvider.RequestAccessToken(ctx, tokenName, req.Authentication)
	if err != nil {
		return TransportRequest{}, s.mapError(tokenProviderError(err, "core: request access token", tokenName))
	}
	headerTokenName := strings.TrimSpace(token.TokenName)
	if headerTokenName == "" {
		headerTokenName = tokenName
	}
	authHeader, err := s.tokenProvider.GenerateHeaderForToken(ctx, headerTokenName)
	if err != nil {
		return TransportRequest{}, s.mapError(tokenProviderError(err, "core: generate token header", headerTokenName))
	}
	if strings.TrimSpace(authHeader.Key) == "" {
		return TransportRequest{}, s.mapError(tokenProviderError(
			errEmptyHeaderKey,
			"core: token provider returned an empty header",
			headerTokenName,
		))
	}

	out := TransportRequest{
		Method: http.MethodPost,
		URL:    s.baseURL + path,
		Headers: map[string]string{
			headerAccept:         contentTypeJSON,
			headerContentType:    contentTypeJSON,
			headerAcceptLanguage: language,
			headerUserAgent:      s.config.UserAgent,
			authHeader.Key:       authHeader.Value,
		},
		Body:        body,
		Timeout:     s.config.Timeout,
		MaxBodySize: s.config.MaxResponseBodyBytes,
		Metadata: map[string]any{
			"endpoint":   path,
			"token_name": headerTokenName,
		},
	}
	if req.Processor != nil {
		out = req.Processor(out)
	}
	return out, nil
}

func encodeRequestBody(body any) ([]byte, error) {
	if body == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(body)
}

// call runs one signed request end to end and records its outcome.
func call[T any](
	ctx context.Context,
	s *Service,
	operation string,
	req SignedRequest,
	expectPayload bool,
	fields map[string]any,
) (envelope Envelope[T], err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	startedAt := time.Now().UTC()
	ctx, span := s.startOperation(ctx, operation)
	outcome := outcomeOK
	if fields == nil {
		fields = map[string]any{}
	}
	fields["endpoint"] = req.Path
	defer func() {
		s.observeOperation(ctx, span, startedAt, operation, outcome, err, fields)
	}()

	if s.transport == nil {
		err = internalError("core: transport adapter is required")
		return Envelope[T]{}, err
	}

	transportReq, err := s.BuildSignedRequest(ctx, req)
	if err != nil {
		return Envelope[T]{}, err
	}
	s.logDebug(ctx, operation+" request", map[string]any{
		"endpoint": req.Path,
		"url":      transportReq.URL,
		"headers":  RedactHeaders(transportReq.Headers),
	})

	response, err := s.transport.Do(ctx, transportReq)
	if err != nil {
		err = s.mapError(err)
		return Envelope[T]{}, err
	}
	fields["status_code"] = response.StatusCode

	envelope, err = Classify[T](response.Body, expectPayload)
	if err != nil {
		err = s.mapError(withStatusCode(err, response.StatusCode))
		return Envelope[T]{}, err
	}
	if envelope.ResponseError != nil {
		outcome = outcomeError
		fields["error_code"] = string(envelope.ResponseError.Code)
	}
	return envelope, nil
}
