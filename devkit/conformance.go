package devkit

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-mtoken/core"
)

func ValidateTransportAdapterConformance(
	ctx context.Context,
	adapter core.TransportAdapter,
	request core.TransportRequest,
) error {
	if adapter == nil {
		return fmt.Errorf("devkit: transport adapter is required")
	}
	if strings.TrimSpace(adapter.Kind()) == "" {
		return fmt.Errorf("devkit: transport adapter kind is required")
	}
	_, err := adapter.Do(ctx, request)
	return err
}

// ValidateTokenProviderConformance checks that a provider issues a token for
// possession authentication and produces a non-empty header for it.
func ValidateTokenProviderConformance(
	ctx context.Context,
	provider core.TokenProvider,
	tokenName string,
) error {
	if provider == nil {
		return fmt.Errorf("devkit: token provider is required")
	}
	token, err := provider.RequestAccessToken(ctx, tokenName, core.PossessionAuthentication())
	if err != nil {
		return fmt.Errorf("devkit: request access token: %w", err)
	}
	name := strings.TrimSpace(token.TokenName)
	if name == "" {
		name = tokenName
	}
	first, err := provider.GenerateHeaderForToken(ctx, name)
	if err != nil {
		return fmt.Errorf("devkit: generate header: %w", err)
	}
	if strings.TrimSpace(first.Key) == "" || strings.TrimSpace(first.Value) == "" {
		return fmt.Errorf("devkit: header key and value are required")
	}
	second, err := provider.GenerateHeaderForToken(ctx, name)
	if err != nil {
		return fmt.Errorf("devkit: generate second header: %w", err)
	}
	if second.Value == first.Value {
		return fmt.Errorf("devkit: headers must be one-time values")
	}
	return nil
}
