// Package app is the command layer between front ends and the planner core.
//
// # Overview
//
// App owns every piece of process-wide state: the shared competition store,
// the front-end sync adapter, the export orchestrator, the resolved Chromium
// binary and the update coordinator. There are no package-level globals; a
// front end creates one App at start-up and calls its handlers.
//
// # Handlers
//
// Handlers mirror the commands a front end issues and collapse the detailed
// error chain to a single apperr.Code, logging the full error:
//
//   - UpdateStorageData, CreateCompetition: overwrite the store from a record
//   - DataForFrontend: snapshot plus the last imported save path
//   - SyncAndSave, ImportFile: save files (both update the recent-files list)
//   - SyncAndCreateDocx, SyncAndCreatePDF: exports
//   - AddTable, SetJudge, AddReplacementJudge: edits used by the CLI
//   - CheckForChromeBinary, DownloadChrome, PDFAvailable: Chromium discovery
//   - ShowItemInFolder: reveal an exported file
//   - StartUpdateCheck, RunUpdateCheck, UpdateApp: in-app updates
//
// A PDF that was written but whose intermediates could not be removed reports
// RemovalOfTemporaryGeneratedFilesFailed; the output file is still valid.
//
// # Collaborators
//
// Options may supply the renderer, printer, Chromium provisioner and update
// source; tests pass mocks from the mocks packages. Left empty, New builds the
// production implementations from config.Config. A provisioner or update feed
// that cannot be built on this system is logged and disabled instead of
// failing start-up.
//
// Update events are delivered through SetUpdateNotifier so a UI created after
// the App can subscribe.
package app
