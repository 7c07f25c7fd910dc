// Package domain holds the in-memory module stores of the client.
//
// Each [ModuleStore] owns one module's data, persists every mutation to local
// storage under the module's key and reports it to the [ChangeTracker].
// Stores re-read their key whenever the bus carries events.TopicReload.
package domain
