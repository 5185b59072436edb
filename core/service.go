package core

import (
	"context"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

const loggerName = "mtoken"

// Service fetches, authorizes and rejects operations. A Service is safe for
// concurrent use, with the exception of SetAcceptLanguage.
type Service struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	tracer          Tracer
	errorMapper     ErrorMapper
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	tokenProvider   TokenProvider
	transport       TransportAdapter
	baseURL         string

	// acceptLanguage is read by every call without synchronization.
	acceptLanguage string
}

type ServiceDependencies struct {
	Logger          Logger
	LoggerProvider  LoggerProvider
	MetricsRecorder MetricsRecorder
	Tracer          Tracer
	ErrorMapper     ErrorMapper
	ConfigProvider  ConfigProvider
	OptionsResolver OptionsResolver
	TokenProvider   TokenProvider
	Transport       TransportAdapter
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve(loggerName, builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger(loggerName); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.tracer == nil {
		builder.tracer = NopTracer{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.tokenProvider == nil {
		return nil, mapBuildError(builder.errorMapper, internalError("core: token provider is required"))
	}
	if builder.transport == nil {
		return nil, mapBuildError(builder.errorMapper, internalError("core: transport adapter is required"))
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	baseURL := NormalizeBaseURL(finalConfig.BaseURL)
	if baseURL == "" {
		if endpoints, ok := builder.tokenProvider.(EndpointProvider); ok {
			baseURL = NormalizeBaseURL(endpoints.BaseEndpointURL())
		}
	}
	if baseURL == "" {
		return nil, mapBuildError(builder.errorMapper, validationError("base_url", "base url is required when the token provider does not supply one"))
	}
	if err := validateBaseURL(baseURL); err != nil {
		return nil, mapBuildError(builder.errorMapper, validationError("base_url", err.Error()))
	}

	return &Service{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		tracer:          builder.tracer,
		errorMapper:     builder.errorMapper,
		configProvider:  builder.configProvider,
		optionsResolver: builder.optionsResolver,
		tokenProvider:   builder.tokenProvider,
		transport:       builder.transport,
		baseURL:         baseURL,
		acceptLanguage:  finalConfig.AcceptLanguage,
	}, nil
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return NewService(cfg, opts...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) BaseURL() string {
	if s == nil {
		return ""
	}
	return s.baseURL
}

// AcceptLanguage returns the default language sent with every request.
func (s *Service) AcceptLanguage() string {
	if s == nil {
		return ""
	}
	return s.acceptLanguage
}

// SetAcceptLanguage changes the default Accept-Language header. Server texts
// (titles, messages, formatted amounts) are localized based on it.
//
// The value is not synchronized: calling SetAcceptLanguage while requests are
// in flight is a data race. Use WithLanguage for per-call languages when the
// Service is shared across goroutines.
func (s *Service) SetAcceptLanguage(tag string) error {
	if s == nil {
		return internalError("core: service is nil")
	}
	tag = strings.TrimSpace(tag)
	if err := ValidateLanguageTag(tag); err != nil {
		return s.mapError(validationError("accept_language", err.Error()))
	}
	s.acceptLanguage = tag
	return nil
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:          s.logger,
		LoggerProvider:  s.loggerProvider,
		MetricsRecorder: s.metricsRecorder,
		Tracer:          s.tracer,
		ErrorMapper:     s.errorMapper,
		ConfigProvider:  s.configProvider,
		OptionsResolver: s.optionsResolver,
		TokenProvider:   s.tokenProvider,
		Transport:       s.transport,
	}
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return err
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}
