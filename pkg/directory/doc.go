// Package directory is the data-access layer of the restaurant directory.
//
// A Service resolves the current collection cache-first: it reads the local
// store and only queries the remote endpoint when the store is empty or
// absent. A successful remote fetch is written back to the store in the
// background; that write is best-effort and its failure never reaches the
// caller. Every derived query (by id, by facet, unique facet values) is a pure
// function over the resolved collection and returns either a value or an
// error, never both. Async adapts any query to a single-delivery channel for
// callers that want to fan out.
package directory
