// Package apperr defines the status codes returned to front ends and the
// error type that carries them through the core packages.
//
// Core operations return ordinary Go errors. Each failure is wrapped in an
// *Error naming the Code the front end should see; the command layer
// collapses the chain to a single Code with CodeOf. Codes keep the numeric
// values and names existing front ends already switch on, so new codes are
// only ever appended.
package apperr
