// Package drafts persists named snapshots of in-progress work, grouped by
// storage scope. Collections are stored whole as JSON arrays through a small
// KV interface with SQLite, flat-file, and in-memory backends.
package drafts
