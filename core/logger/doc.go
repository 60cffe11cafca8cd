// Package logger provides structured logging utilities built on Go's standard slog package.
// It offers environment presets, context-aware attribute extraction and a set of
// pre-built attributes for the cache and its collaborators.
//
// # Basic Usage
//
//	import "github.com/stvn101/carbonintelligence/core/logger"
//
//	log := logger.New(
//		logger.WithDevelopment("reportcache"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("cache ready",
//		logger.CacheName("calc"),
//		logger.Count("max_size", 50),
//	)
//
// # Environment Configurations
//
//	// Development: text format, debug level, stdout
//	devLogger := logger.New(logger.WithDevelopment("reportcache"))
//
//	// Production: JSON format, info level, stdout
//	prodLogger := logger.New(logger.WithProduction("reportcache"))
//
// # Context-Aware Logging
//
// Values stored in a context can be injected into every record logged with it:
//
//	log := logger.New(
//		logger.WithJSONFormatter(),
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	log.InfoContext(ctx, "report rendered")
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for nil input, so they can be passed
// unconditionally:
//
//	log.Error("load failed",
//		logger.Error(err),
//		logger.Endpoint("/projects"),
//		logger.Component("apicache"),
//	)
//
// # Testing with Custom Output
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
//	log.Info("swept", logger.Count("removed", 3))
//	assert.Contains(t, buf.String(), `"removed":3`)
package logger
