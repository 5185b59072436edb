package core

import (
	"errors"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocolFault_CarriesRawResponse(t *testing.T) {
	err := ProtocolFault(ErrNoDataObject, []byte(`{"status":"OK"}`))

	assert.Equal(t, goerrors.CategoryOperation, err.Category)
	assert.Equal(t, ErrorProtocolViolation, err.TextCode)
	assert.Equal(t, http.StatusBadGateway, err.Code)
	assert.True(t, errors.Is(err, ErrNoDataObject))

	raw, ok := RawResponse(err)
	require.True(t, ok)
	assert.Equal(t, `{"status":"OK"}`, raw)
}

func TestProtocolFault_DefaultsToUnknownStatus(t *testing.T) {
	err := ProtocolFault(nil, nil)
	assert.True(t, errors.Is(err, ErrUnknownStatus))
}

func TestFaultPredicates(t *testing.T) {
	transportErr := goerrors.New("dial tcp: refused", goerrors.CategoryExternal).WithTextCode(ErrorTransportFailure)
	assert.True(t, IsTransportFault(transportErr))
	assert.False(t, IsProtocolFault(transportErr))

	tokenErr := tokenProviderError(errors.New("no activation"), "core: request access token", DefaultTokenName)
	assert.True(t, IsTokenProviderFault(tokenErr))
	assert.Equal(t, DefaultTokenName, tokenErr.Metadata["token_name"])

	assert.False(t, IsProtocolFault(errors.New("plain")))
	_, ok := RawResponse(errors.New("plain"))
	assert.False(t, ok)
}

func TestServiceErrorMapper_EnsuresEnvelope(t *testing.T) {
	mapped := serviceErrorMapper(goerrors.New("boom", goerrors.CategoryExternal))
	require.NotNil(t, mapped)
	assert.Equal(t, ErrorTransportFailure, mapped.TextCode)
	assert.Equal(t, http.StatusBadGateway, mapped.Code)

	mapped = serviceErrorMapper(errors.New("operation id is required"))
	require.NotNil(t, mapped)
	assert.Equal(t, ErrorBadInput, mapped.TextCode)

	mapped = serviceErrorMapper(errors.New("token provider unavailable"))
	require.NotNil(t, mapped)
	assert.Equal(t, ErrorTokenProviderFailure, mapped.TextCode)

	assert.Nil(t, serviceErrorMapper(nil))
}

func TestValidationError_Shape(t *testing.T) {
	err := validationError("operation_id", "operation id is required")
	assert.Equal(t, goerrors.CategoryValidation, err.Category)
	assert.Equal(t, ErrorBadInput, err.TextCode)
	require.Len(t, err.ValidationErrors, 1)
	assert.Equal(t, "operation_id", err.ValidationErrors[0].Field)
}
