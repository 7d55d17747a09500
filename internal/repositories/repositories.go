// package repositories provides the local SQLite persistence layer.
//
// Two things live here: the persisted session token (at most one row, read
// once at startup) and a cache of fetched catalog videos so feeds can be
// rendered offline.
package repositories
