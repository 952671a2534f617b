// File: internal/config/doc.go
// Package config defines the application configuration. Values are loaded
// through Viper from a YAML file, with SYNTHMOUSE_ prefixed environment
// variables taking precedence, and the browser, pointer pacing and static
// document settings can be tuned without changing code.
package config
