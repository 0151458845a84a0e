// Package app wires the Cargo Pulse web server together: configuration,
// logging, OpenTelemetry, the websocket hub, the services layer and the
// chi router with its middleware stack. The cmd/web binary is a thin shell
// around this package.
package app
