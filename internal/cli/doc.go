// Package cli is responsible for parsing command-line arguments, merging
// them with the config file and environment, and handling process-level
// concerns like exit codes. It translates CLI input into the application's
// internal configuration.
package cli
