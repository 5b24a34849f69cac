// Package logtail provides utilities for reading session log files.
//
// # Overview
//
// This package implements tail-like reading of log files for the logs
// command. It's optimized for reading the last N lines from potentially large
// log files without loading the entire file into memory.
//
// # Core Functionality
//
//  1. Read: Extract the last N lines from a log file
//  2. Latest: Find the newest session log in a directory
//
// # Reading Log Files
//
// The Read function uses a ring buffer to extract the last maxLines from a
// file, regardless of file size:
//
//   - Scans the file sequentially (one pass)
//   - Uses O(maxLines) memory, not O(file size)
//   - Returns lines in correct chronological order
//
// A non-positive maxLines returns the whole file.
//
// Example usage:
//
//	path, _ := logtail.Latest(cfg.LogDir(), "LOG__*.txt")
//	lines, err := logtail.Read(path, 200)
//
// # Ring Buffer Algorithm
//
//	1. Allocate ring buffer of size maxLines
//	2. For each line in file:
//	   - Store line at current index
//	   - Increment index (wrapping at maxLines)
//	   - Track total lines seen
//	3. If total < maxLines:
//	   - Return first 'count' entries from buffer
//	4. If total >= maxLines:
//	   - Return buffer starting from current index (oldest line)
//
// # Error Handling
//
// Read returns nil, nil for non-existent files (graceful degradation).
// Other errors (permission denied, I/O errors) are returned wrapped.
// Latest ignores entries it cannot stat.
package logtail
