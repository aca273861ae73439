// Package logger provides a context-aware wrapper around log/slog with
// functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// New builds a *slog.Logger from a set of Option functions: output
// format (text or json), minimum level, static attributes applied to
// every record, and ContextExtractor callbacks that pull dynamic
// attributes such as request IDs out of the context on each log call.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Environment, "flagkit"),
//	)
//	logger.SetAsDefault(log)
//
// Helper constructors in attr.go keep attribute naming consistent
// across the codebase.
package logger
