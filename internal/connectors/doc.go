// Package connectors provides document sources that feed uploads from
// outside the CLI arguments. Each source implements driven.DocumentSource.
package connectors
