// Package config provides configuration structures and utilities for sitegraph.
// It defines the main configuration options for crawling websites,
// broken-link detection, and report generation preferences.
package config
