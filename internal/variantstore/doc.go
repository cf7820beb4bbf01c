// Package variantstore provides an ephemeral, thread-safe, in-memory record
// of the variants handled during a run: their status, their result or error,
// and the output paths claimed by memoized writes.
package variantstore
