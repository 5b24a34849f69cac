// Package printer turns the writer's intermediate HTML into a PDF using a
// headless Chromium.
package printer
