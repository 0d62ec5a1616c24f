// Package config provides configuration structures and utilities for the
// toolkit. It defines the main options for auditing websites, request
// pacing, and report generation preferences.
package config
