// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

/*
Package supervisor runs the long-lived parts of `steamlens serve` under a
suture v4 supervisor tree.

The ETL job (`steamlens run`) is a single synchronous batch and is not
supervised. Only the dashboard server is:

	steamlens
	├── data-layer
	│   └── ExportWatcherService   clears the read cache when the export changes
	└── api-layer
	    └── HTTPServerService      chi router over the read-only export

Crashed services are restarted with suture's backoff. Supervisor events are
logged through sutureslog into the zerolog logger (see logging.NewSlogLogger).

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewExportWatcherService(st.Path(), st, 5*time.Second))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)
*/
package supervisor
