// Package store persists built road catalogs in SQLite, one catalog
// per city. The build command writes here; the match and quiz
// commands read catalogs back through a catalog.Source so the rest of
// the engine never sees the database.
//
// SQLite is configured with WAL mode and a single writer connection.
// Catalog replacement is transactional, so readers always see either
// the old build or the new one.
package store
