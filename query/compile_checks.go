package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-mtoken/core"
)

var (
	_ gocmd.Querier[ListOperationsMessage, core.Envelope[[]core.UserOperation]]   = (*ListOperationsQuery)(nil)
	_ gocmd.Querier[OperationDetailMessage, core.Envelope[core.UserOperation]]    = (*OperationDetailQuery)(nil)
	_ gocmd.Querier[OperationHistoryMessage, core.Envelope[[]core.UserOperation]] = (*OperationHistoryQuery)(nil)

	_ OperationReader = (*core.Service)(nil)
	_ HistoryReader   = (*core.Service)(nil)
)
