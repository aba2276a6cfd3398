// Package logger wires zap into the application.
//
// New builds a *zap.Logger from the log section of the configuration
// (level and encoding). WithRayID and WithListing enrich a logger with
// the request trace ID and the listing a sync run is operating on, so
// every line of a run can be correlated.
package logger
