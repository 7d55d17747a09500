// Package models contains the wire and domain types shared across the
// client: videos, users, tokens, and the in-memory session.
//
// Types here are plain data. Behavior lives with the services that fetch
// them ([internal/services]) and the stores that hold them
// ([internal/session], [internal/repositories]).
package models
