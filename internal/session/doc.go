// Package session tracks an image through its enhancement lifetime.
//
// A Session holds two buffers: the original, captured when the image is
// loaded, and the current one, which every applied operation replaces.
// Restore discards all applied operations at once by resetting the current
// buffer to the original; there is no multi-step history.
//
// # States
//
//	Empty --Load--> Loaded --Apply--> Modified --Restore--> Loaded
//
// Load is accepted in every state. Apply in the Empty state fails with
// ErrNotLoaded and failed operations never change the state.
//
// # Concurrency
//
// A Session is safe for concurrent use. Only one mutating call (Load, Apply
// or Restore) runs at a time; a second one started meanwhile fails
// immediately with ErrBusy rather than queueing. Accessors never block on a
// running operation and always observe a consistent original/current pair.
package session
