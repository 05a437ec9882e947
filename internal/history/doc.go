// Package history persists a ledger of weeding runs in SQLite.
//
// Each invocation records its parameters when it starts and its counts or
// failure when it ends. Only run metadata is stored; weeded text lives solely
// in the output directory. The schema is managed by embedded migrations
// tracked in a schema_migrations table.
package history
