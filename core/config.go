package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/text/language"
)

const (
	DefaultAcceptLanguage       = "en"
	DefaultUserAgent            = "go-mtoken"
	DefaultTimeout              = 30 * time.Second
	DefaultMaxResponseBodyBytes = int64(10 << 20)
)

type Config struct {
	ServiceName          string        `koanf:"service_name" mapstructure:"service_name"`
	BaseURL              string        `koanf:"base_url" mapstructure:"base_url"`
	AcceptLanguage       string        `koanf:"accept_language" mapstructure:"accept_language"`
	UserAgent            string        `koanf:"user_agent" mapstructure:"user_agent"`
	TokenName            string        `koanf:"token_name" mapstructure:"token_name"`
	Timeout              time.Duration `koanf:"timeout" mapstructure:"timeout"`
	MaxResponseBodyBytes int64         `koanf:"max_response_body_bytes" mapstructure:"max_response_body_bytes"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:          "mtoken",
		AcceptLanguage:       DefaultAcceptLanguage,
		UserAgent:            DefaultUserAgent,
		TokenName:            DefaultTokenName,
		Timeout:              DefaultTimeout,
		MaxResponseBodyBytes: DefaultMaxResponseBodyBytes,
	}
}

// Validate leaves BaseURL optional since it can be supplied by the token
// provider.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.ServiceName, validation.Required),
		validation.Field(&c.AcceptLanguage, validation.Required, validation.By(validateLanguageTag)),
		validation.Field(&c.UserAgent, validation.Required),
		validation.Field(&c.TokenName, validation.Required),
		validation.Field(&c.BaseURL, validation.By(validateBaseURL)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxResponseBodyBytes, validation.Min(int64(0))),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "core: invalid config").
			WithCode(400).
			WithTextCode(ErrorBadInput)
	}
	return nil
}

func validateLanguageTag(value any) error {
	tag, _ := value.(string)
	return ValidateLanguageTag(tag)
}

// ValidateLanguageTag checks an Accept-Language value. Plain BCP 47 tags and
// weighted lists such as "de-AT, de;q=0.8" are accepted.
func ValidateLanguageTag(tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("language tag is required")
	}
	if strings.ContainsAny(tag, ",;") {
		if _, _, err := language.ParseAcceptLanguage(tag); err != nil {
			return fmt.Errorf("invalid accept-language %q: %w", tag, err)
		}
		return nil
	}
	if _, err := language.Parse(tag); err != nil {
		return fmt.Errorf("invalid language tag %q: %w", tag, err)
	}
	return nil
}

func validateBaseURL(value any) error {
	raw, _ := value.(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("must be an http or https url")
	}
	if parsed.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// NormalizeBaseURL guarantees a trailing slash so endpoint paths can be
// appended directly.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return raw
}
