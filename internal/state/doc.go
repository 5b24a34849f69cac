// Package state provides the shared competition state used by every command.
//
// # Overview
//
// A single Store lives for the whole process. Commands from several windows
// (or CLI invocations sharing an App) read and write it concurrently. Each
// field of the competition has its own mutex, so two commands touching
// different fields never contend.
//
// # Lock Order
//
// Fields are declared, and therefore locked, in this order:
//
//	name → date → place → responsiblePerson → judgesMeetingTime →
//	replacementJudges → judgingTables
//
// Snapshot and ReplaceAll walk the fields in that order and hold at most one
// lock at a time. No call site holds two field locks at once, which rules out
// lock-ordering deadlocks.
//
// # Consistency
//
// There is no transaction across fields:
//
//	ReplaceAll(A)   ReplaceAll(B)
//	  name = A
//	                  name = B
//	                  date = B
//	  date = A
//
// leaves name from B and date from A. A Snapshot taken meanwhile is
// consistent per field only. This is accepted for a single-user tool with one
// active editor at a time.
//
// # Poisoning
//
// Guard.Release is deferred by every holder. When the critical section
// panics, Release marks the field poisoned, unlocks it and re-panics. Every
// later Lock on that field fails with apperr.MutexPoisonedError (wrapping
// ErrPoisoned). Other fields are unaffected.
//
//	g, err := state.Lock(store, state.Place)
//	if err != nil {
//		return err // MutexPoisonedError, do not retry
//	}
//	defer g.Release()
//	g.Set("Halle")
//
// # Copying
//
// Load, Put, Snapshot and ReplaceAll deep-copy collections in both
// directions, and collections returned from the store are never nil. Guard
// exposes the stored value directly; callers holding a Guard own it until
// Release.
package state
