// Package httpserver runs the rolesim HTTP surface with configurable timeouts,
// graceful shutdown on context cancellation or SIGINT/SIGTERM, and health
// check handlers.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Listen errors are joined with ErrStart and shutdown errors with ErrShutdown.
package httpserver
