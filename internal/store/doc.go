// Package store keeps a history of serialized timeline projects in a
// SQLite database. Every save appends a snapshot; loading picks a snapshot
// by ID or the latest one of a project.
package store
