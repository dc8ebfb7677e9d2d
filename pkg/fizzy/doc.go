// Package fizzy provides types, errors, and helpers for working with the
// Fizzy project-management API.
//
// # Overview
//
// The fizzy package defines the domain types (Board, Card, Column, Comment,
// Reaction, Step, Tag, User, Notification), the error taxonomy raised by the
// request pipeline, Link-header pagination parsing, and a pluggable response
// cache. The concrete client lives in internal/client and is wired by the
// fizzy CLI; this package holds everything the client exposes to callers.
//
// # Errors
//
// Every failure the pipeline surfaces is an *APIError carrying a closed
// ErrorKind (generic, rate_limit, authentication, not_found, validation),
// the HTTP status, and the raw response body. Helpers such as IsNotFound,
// IsRateLimit, and IsValidation make it easy to branch on common cases:
//
//	card, err := client.Cards().Get(ctx, 42)
//	if fizzy.IsNotFound(err) {
//	  // ...
//	}
//
// # Pagination
//
// List endpoints paginate via RFC 5988 Link headers. ParseLinkHeader extracts
// the next/prev/first/last relations; the HTTP layer builds a lazy iterator
// and an eager collector on top of it.
//
// # Caching
//
// GET responses carrying an ETag are cached in memory for up to five minutes
// and revalidated with If-None-Match; a 304 answer is served from the cached
// body. The cache is scoped to one client instance and never persisted.
package fizzy
