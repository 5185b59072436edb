// Package mtoken is a client for the mobile token operations API: it lists
// pending operations, shows their details and authorizes or rejects them
// with token signed requests.
package mtoken

import (
	"github.com/goliatone/go-mtoken/core"
	"github.com/goliatone/go-mtoken/transport"
)

type Config = core.Config

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies

type (
	TokenProvider    = core.TokenProvider
	TransportAdapter = core.TransportAdapter
	CallOption       = core.CallOption
	Authentication   = core.Authentication
	UserOperation    = core.UserOperation
	RejectReason     = core.RejectReason
	PushPlatform     = core.PushPlatform
	Empty            = core.Empty
)

type Envelope[T any] = core.Envelope[T]

var (
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithTracer          = core.WithTracer
	WithErrorMapper     = core.WithErrorMapper
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
	WithTokenProvider   = core.WithTokenProvider
	WithTransport       = core.WithTransport

	WithLanguage         = core.WithLanguage
	WithRequestProcessor = core.WithRequestProcessor

	PossessionAuthentication = core.PossessionAuthentication
	PasswordAuthentication   = core.PasswordAuthentication
	BiometryAuthentication   = core.BiometryAuthentication
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// NewService builds a service that talks to the server over net/http unless
// a transport is supplied with WithTransport.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	withDefaults := make([]Option, 0, len(opts)+1)
	withDefaults = append(withDefaults, core.WithTransport(transport.NewRESTAdapter(nil)))
	withDefaults = append(withDefaults, opts...)
	return core.NewService(cfg, withDefaults...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return NewService(cfg, opts...)
}
