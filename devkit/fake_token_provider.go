package devkit

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-mtoken/core"
	"github.com/google/uuid"
)

const TokenHeaderKey = "X-PowerAuth-Token"

var tokenNamespace = uuid.MustParse("6f1c4c9e-2a7d-5d43-9a3e-0c1b7e5d2f10")

// FakeTokenProvider is a deterministic in-memory token provider. Token ids
// are derived from the token name and factor, header digests are an HMAC
// over the token id, a running nonce and the fixed clock.
type FakeTokenProvider struct {
	BaseURL   string
	Secret    []byte
	Now       func() time.Time
	HeaderKey string

	// RequestErr and HeaderErr, when set, are returned by the matching call.
	RequestErr error
	HeaderErr  error

	mu              sync.Mutex
	tokens          map[string]string
	nonce           int
	requestCalls    int
	headerCalls     int
	authentications []core.Authentication
}

func NewFakeTokenProvider(baseURL string) *FakeTokenProvider {
	return &FakeTokenProvider{
		BaseURL:   baseURL,
		Secret:    []byte("devkit-secret"),
		HeaderKey: TokenHeaderKey,
		Now: func() time.Time {
			return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		},
		tokens: map[string]string{},
	}
}

func (p *FakeTokenProvider) BaseEndpointURL() string {
	if p == nil {
		return ""
	}
	return p.BaseURL
}

func (p *FakeTokenProvider) RequestAccessToken(ctx context.Context, tokenName string, auth core.Authentication) (core.AccessToken, error) {
	if p == nil {
		return core.AccessToken{}, fmt.Errorf("devkit: token provider is nil")
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return core.AccessToken{}, err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requestCalls++
	p.authentications = append(p.authentications, auth)
	if p.RequestErr != nil {
		return core.AccessToken{}, p.RequestErr
	}
	tokenName = strings.TrimSpace(tokenName)
	if tokenName == "" {
		return core.AccessToken{}, fmt.Errorf("devkit: token name is required")
	}
	factor := auth.ResolvedFactor()
	tokenID := uuid.NewSHA1(tokenNamespace, []byte(tokenName+"|"+string(factor))).String()
	if p.tokens == nil {
		p.tokens = map[string]string{}
	}
	p.tokens[tokenName] = tokenID
	return core.AccessToken{
		TokenName: tokenName,
		Metadata: map[string]any{
			"token_id": tokenID,
			"factor":   string(factor),
		},
	}, nil
}

func (p *FakeTokenProvider) GenerateHeaderForToken(ctx context.Context, tokenName string) (core.AuthHeader, error) {
	if p == nil {
		return core.AuthHeader{}, fmt.Errorf("devkit: token provider is nil")
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return core.AuthHeader{}, err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.headerCalls++
	if p.HeaderErr != nil {
		return core.AuthHeader{}, p.HeaderErr
	}
	tokenID, ok := p.tokens[strings.TrimSpace(tokenName)]
	if !ok {
		return core.AuthHeader{}, fmt.Errorf("devkit: no token issued for %q", tokenName)
	}
	p.nonce++
	nonce := strconv.Itoa(p.nonce)
	timestamp := strconv.FormatInt(p.now().UnixMilli(), 10)

	mac := hmac.New(sha256.New, p.Secret)
	_, _ = mac.Write([]byte(tokenID + "&" + nonce + "&" + timestamp))
	digest := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return core.AuthHeader{
		Key: p.HeaderKey,
		Value: fmt.Sprintf(
			`PowerAuth version="3.1", token_id="%s", token_digest="%s", nonce="%s", timestamp="%s"`,
			tokenID, digest, nonce, timestamp,
		),
	}, nil
}

func (p *FakeTokenProvider) RequestCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requestCalls
}

func (p *FakeTokenProvider) HeaderCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.headerCalls
}

// Authentications returns the authentications passed to RequestAccessToken.
func (p *FakeTokenProvider) Authentications() []core.Authentication {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]core.Authentication(nil), p.authentications...)
}

func (p *FakeTokenProvider) now() time.Time {
	if p.Now == nil {
		return time.Now().UTC()
	}
	return p.Now()
}

var (
	_ core.TokenProvider    = (*FakeTokenProvider)(nil)
	_ core.EndpointProvider = (*FakeTokenProvider)(nil)
)
