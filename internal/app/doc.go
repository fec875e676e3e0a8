// Package app wires the discovery engine, the compiled-in modules and the
// ambient services (logging, metrics, tracing, health check server) into one
// App, decoupled from any specific entrypoint like a CLI.
package app
