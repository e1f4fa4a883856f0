// Package config provides configuration loading, merging, and validation
// facilities for the toolkeeper server and client.
//
// Configuration is assembled from multiple sources; for every field the first
// source holding a non-zero value wins:
//  1. Environment variables (TOOLKEEPER_ prefix)
//  2. Command-line flags
//  3. JSON or YAML config file
//  4. Built-in defaults
//
// The main entry points are [GetServerConfig] and [GetClientConfig].
package config
