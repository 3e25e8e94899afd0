// Package v1 defines the skipfinder configuration file.
//
// The file format is YAML. All fields are optional, for example:
//
//	exclude:
//	  - "generated/**"
//	  - "*_mock.go"
//	excludeDirs: [".git", "node_modules", "vendor"]
//	includeComments: true
//	concurrency: 4
//	maxFileSize: 2097152
//	format: markdown
//	outputDir: reports
//	metricsFile: /var/lib/node_exporter/skipfinder.prom
//
// The same settings can be given as SKIPFINDER_* environment variables, see
// FromEnv.
package v1
