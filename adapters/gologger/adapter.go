package gologger

import (
	glog "github.com/goliatone/go-logger/glog"
)

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(name, provider, logger)
}

// Named resolves the logger and then derives a child logger for one
// operation, so each call logs under "mtoken.<operation>".
func Named(name, operation string, provider glog.LoggerProvider, logger glog.Logger) glog.Logger {
	resolvedProvider, resolvedLogger := Resolve(name, provider, logger)
	if resolvedProvider == nil || operation == "" {
		return glog.Ensure(resolvedLogger)
	}
	if child := resolvedProvider.GetLogger(name + "." + operation); child != nil {
		return child
	}
	return glog.Ensure(resolvedLogger)
}
