package query

import (
	"context"

	"github.com/goliatone/go-mtoken/core"
)

type OperationReader interface {
	List(ctx context.Context, opts ...core.CallOption) (core.Envelope[[]core.UserOperation], error)
	Detail(ctx context.Context, operationID string, opts ...core.CallOption) (core.Envelope[core.UserOperation], error)
}

type HistoryReader interface {
	History(ctx context.Context, auth core.Authentication, opts ...core.CallOption) (core.Envelope[[]core.UserOperation], error)
}

type ListOperationsQuery struct {
	reader OperationReader
}

func NewListOperationsQuery(reader OperationReader) *ListOperationsQuery {
	return &ListOperationsQuery{reader: reader}
}

func (q *ListOperationsQuery) Query(ctx context.Context, msg ListOperationsMessage) (core.Envelope[[]core.UserOperation], error) {
	if q == nil || q.reader == nil {
		return core.Envelope[[]core.UserOperation]{}, queryDependencyError("query: operation reader is required")
	}
	return q.reader.List(ctx, callOptions(msg.Language)...)
}

type OperationDetailQuery struct {
	reader OperationReader
}

func NewOperationDetailQuery(reader OperationReader) *OperationDetailQuery {
	return &OperationDetailQuery{reader: reader}
}

func (q *OperationDetailQuery) Query(ctx context.Context, msg OperationDetailMessage) (core.Envelope[core.UserOperation], error) {
	if q == nil || q.reader == nil {
		return core.Envelope[core.UserOperation]{}, queryDependencyError("query: operation reader is required")
	}
	return q.reader.Detail(ctx, msg.OperationID, callOptions(msg.Language)...)
}

type OperationHistoryQuery struct {
	reader HistoryReader
}

func NewOperationHistoryQuery(reader HistoryReader) *OperationHistoryQuery {
	return &OperationHistoryQuery{reader: reader}
}

func (q *OperationHistoryQuery) Query(ctx context.Context, msg OperationHistoryMessage) (core.Envelope[[]core.UserOperation], error) {
	if q == nil || q.reader == nil {
		return core.Envelope[[]core.UserOperation]{}, queryDependencyError("query: history reader is required")
	}
	return q.reader.History(ctx, msg.Authentication, callOptions(msg.Language)...)
}
