/*
Package log provides structured logging for burrow using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific loggers, configurable log levels, and helper functions
for common logging patterns. All logs include timestamps and support filtering
by severity level.

# Architecture

	┌──────────────── LOGGING ────────────────┐
	│                                          │
	│  Global Logger (zerolog instance)        │
	│    - Initialized via log.Init()          │
	│    - JSON or console output              │
	│    - Level: debug/info/warn/error        │
	│              │                           │
	│  Component Loggers                       │
	│    - WithComponent("schema")             │
	│    - WithNode("alpha")                   │
	│    - WithVersion("burrow-2.0")           │
	│              │                           │
	│  Output                                  │
	│    {"level":"info","component":"schema", │
	│     "time":"...","message":"..."}        │
	└──────────────────────────────────────────┘

# Usage

Initializing the logger:

	// JSON output (production)
	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

	// Console output (development)
	log.Init(log.Config{
		Level:      log.DebugLevel,
		JSONOutput: false,
		Output:     os.Stdout,
	})

Simple logging:

	log.Info("registry initialized")
	log.Error("failed to read configuration document")

Component loggers:

	schemaLog := log.WithComponent("schema")
	schemaLog.Info().
		Str("version", "burrow-1.1").
		Int("ordinal", 1).
		Msg("schema registered")

Error logging:

	log.Logger.Error().
		Err(err).
		Str("path", path).
		Msg("failed to open configuration store")

Before Init runs the global logger writes JSON to stderr, so early startup
and tests can log without setup.

# Integration Points

This package integrates with:

  - pkg/schema: logs catalog construction and validation attempts
  - pkg/cib: logs store loads and commits
  - pkg/constraint: logs query construction
  - pkg/attrs: logs attribute store lifecycle
  - cmd/burrow: initializes the logger from CLI flags

The rule evaluator and NV-block unpacker stay silent; they are pure
computation and surface their diagnostics as error values instead.

# See Also

  - Zerolog documentation: https://github.com/rs/zerolog
  - 12-Factor App Logs: https://12factor.net/logs
*/
package log
