// Package core contains the mobile token operation contracts, the signed
// request builder, the response classifier and the Service that composes them.
// Transport and observability adapters depend on this package; core must not
// depend on them.
package core
