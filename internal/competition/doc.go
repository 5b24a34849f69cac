// Package competition holds the judge-assignment data model and its JSON
// exchange format.
//
// The same encoding is used for save files and for the payload handed to the
// document writer, so the JSON keys are fixed. Record is the front-end view of
// the model, where a nil collection means the field was omitted.
package competition
