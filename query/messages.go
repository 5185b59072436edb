package query

import (
	"strings"

	"github.com/goliatone/go-mtoken/core"
)

const (
	TypeListOperations   = "mtoken.query.operation.list"
	TypeOperationDetail  = "mtoken.query.operation.detail"
	TypeOperationHistory = "mtoken.query.operation.history"
)

type ListOperationsMessage struct {
	Language string
}

func (ListOperationsMessage) Type() string { return TypeListOperations }

func (ListOperationsMessage) Validate() error { return nil }

type OperationDetailMessage struct {
	OperationID string
	Language    string
}

func (OperationDetailMessage) Type() string { return TypeOperationDetail }

func (m OperationDetailMessage) Validate() error {
	if strings.TrimSpace(m.OperationID) == "" {
		return queryValidationError("operation_id", "operation id is required")
	}
	return nil
}

// OperationHistoryMessage requires a knowledge or biometry factor.
type OperationHistoryMessage struct {
	Authentication core.Authentication
	Language       string
}

func (OperationHistoryMessage) Type() string { return TypeOperationHistory }

func (m OperationHistoryMessage) Validate() error {
	if m.Authentication.ResolvedFactor() == core.FactorPossession {
		return queryValidationError("authentication", "history requires two factor authentication")
	}
	return nil
}

func callOptions(language string) []core.CallOption {
	if strings.TrimSpace(language) == "" {
		return nil
	}
	return []core.CallOption{core.WithLanguage(language)}
}
