// Package services contains the HTTP client for the Cinephile backend and
// the interfaces the rest of the client programs against.
package services

var (
	_ Catalog = (*Client)(nil)
	_ Account = (*Client)(nil)
	_ Prober  = (*Client)(nil)
)
