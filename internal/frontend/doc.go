// Package frontend translates between the record shape front ends send and
// the shared state.Store.
package frontend
