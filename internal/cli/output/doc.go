// Package output provides output formatting for the tcplink CLI.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: Table rendering for structs, slices and maps
//   - json.go: JSON output formatting
//   - yaml.go: YAML output formatting
//   - spinner.go: Progress animation for connects
//
// JSON and YAML field names both follow the json struct tags, so the two
// machine-readable formats always agree.
package output
