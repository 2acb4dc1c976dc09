// Package crdtlog gives each package of the engine a named, leveled
// logger, following the same github.com/ipfs/go-log/v2 convention the
// rest of this lineage uses (see crdtserver's package-level logger).
package crdtlog

import (
	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/zap"
)

// Named returns the package-level logger for name, creating it on
// first use. Safe to call at package init time.
func Named(name string) *zap.SugaredLogger {
	return logging.Logger(name)
}

// SetLevel adjusts the log level for every logger created through this
// package ("debug", "info", "warn", "error").
func SetLevel(level string) {
	logging.SetLogLevel("*", level)
}
