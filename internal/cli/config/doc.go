// Package config provides CLI configuration for tcplink.
//
//   - spec.go: CLIConfig struct (~/.tcplink/cli.yaml)
//   - loader.go: Configuration loading, merging and saving
//
// Precedence is Flag > Env (TCPLINK_CLI_*) > File > Default.
package config
