// Package server runs the operational HTTP endpoint (metrics and health probes)
// with graceful shutdown and production-ready timeouts.
//
// # Basic Usage
//
//	srv := server.New(":9090",
//		server.WithShutdownTimeout(10*time.Second),
//		server.WithLogger(log),
//	)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, mux))
//	g.Go(janitor.Run(ctx))
//	if err := g.Wait(); err != nil {
//		log.Error("shutdown", logger.Error(err))
//	}
//
// # Configuration
//
// Config maps HTTP_* environment variables:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//
// Start binds the listener before serving, so Addr reports the actual address
// when the configured one uses port 0.
package server
