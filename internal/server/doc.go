// Package server runs the sync server's HTTP API and gRPC health endpoint
// side by side and stops both when either fails or the context ends.
package server
