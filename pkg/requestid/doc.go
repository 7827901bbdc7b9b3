// Package requestid attaches a correlation id to every HTTP request served by
// rolesim so log records for one navigation or role switch can be grouped.
//
// Middleware reuses a valid incoming X-Request-ID header or generates a UUID,
// stores it with WithContext and echoes it on the response. LoggerExtractor
// plugs the id into the logger factory:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid
