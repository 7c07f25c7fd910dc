// Package config provides configuration loading, merging, and validation
// for the document server and the sync client.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The main entry points are [GetServerConfig] for the document server and
// [GetClientConfig] for the sync client.
package config
