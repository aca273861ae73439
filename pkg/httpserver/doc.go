// Package httpserver runs the service's HTTP listener with graceful
// shutdown.
//
// Run blocks until the context is cancelled, SIGINT/SIGTERM arrives,
// or the listener fails, and drains in-flight requests within the
// configured shutdown timeout before returning. Config fields are
// populated from HTTP_* environment variables.
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// HealthCheckHandler builds liveness and readiness endpoints from
// dependency probes such as pg.Healthcheck and redis.Healthcheck.
package httpserver
