// Package config provides application configuration loaded from environment
// variables (prefix CARGO) with an optional YAML file overlay, plus the
// centralized filesystem path resolution used by every component that reads
// workbooks or writes reports.
//
// All paths resolve relative to the executable directory, never the current
// working directory, so the binary behaves the same wherever it is launched
// from.
package config
