// Package app provides application initialization and lifecycle management for
// the bike sharing dashboard. It wires configuration, telemetry, the dataset
// store, the dashboard services and the HTTP and websocket transports.
//
// # Initialization Flow
//
// The initialization sequence:
//
//  1. Load configuration from .env, config.yaml and BIKE_* variables
//  2. Initialize logging and OpenTelemetry
//  3. Create the loader and the memoizing store
//  4. Initialize the dashboard and health services and the websocket hub
//  5. Set up the chi router and middleware
//  6. Load both tables, then start the HTTP server
//
// # Usage
//
// The main entry point is typically:
//
//	application, err := app.NewApplication(frontendFS)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Run handles SIGINT and SIGTERM. Websocket clients are disconnected, active
// requests are drained within the shutdown timeout and telemetry is flushed.
//
// # Error Handling
//
// All initialization errors are returned to the caller. A dataset that cannot
// be fetched or parsed makes Start fail. The app does not call os.Exit itself.
package app
