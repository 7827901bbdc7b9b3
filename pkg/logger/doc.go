// Package logger builds *slog.Logger values for rolesim components.
//
// New takes functional options for the output format (text or json), the
// minimum level, static attributes and ContextExtractor callbacks. When
// extractors are registered every record passes through them with its
// context before reaching the slog handler. WithEnvironment applies the
// development (text, debug), staging or production (json, info) preset.
//
// RoleExtractor adds the simulated role id found in an rbac.State stored on the
// context, so handlers behind the route guard log the role automatically.
//
// Attribute helpers (Error, RoleID, Resource, Action, URL, Reason, StorageKey)
// keep key names consistent across packages. Error and Reason return an empty
// attribute for zero input, so callers need no nil checks:
//
//	log.WarnContext(ctx, "role switch failed", logger.RoleID(id), logger.Error(err))
//
// Components that accept a logger default to Discard.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "rolesim"),
//	    logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
//	    logger.WithContextExtractors(logger.RoleExtractor()),
//	)
//	logger.SetAsDefault(log)
package logger
