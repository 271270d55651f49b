// Package normalisers provides implementations of the NoteNormaliser
// interface. Each normaliser flattens one platform's raw note payloads
// into the flat Record shape the thread engine consumes.
package normalisers
