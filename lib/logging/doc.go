// Package logging configures the named package loggers of jKV.
//
// Packages obtain their logger once with logger.GetLogger(name) from
// github.com/lni/dragonboat/v4/logger. InitLoggers replaces the default factory
// with one writing through log/slog and a tint handler, and sets the level of all
// loggers listed in Packages.
package logging
