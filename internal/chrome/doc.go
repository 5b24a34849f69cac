// Package chrome provisions the private Chromium build used for PDF export.
//
// Builds come from the Chromium snapshot bucket at a pinned revision per
// platform and are extracted under <data_dir>/Externals/<platform>-<revision>.
// Downloads are retried with exponential backoff on network and 5xx errors;
// a file lock keeps two processes from installing at the same time.
package chrome
