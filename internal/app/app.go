package app

//go:generate mockgen -destination=mocks/mock_provisioner.go -package=mocks -source=app.go ChromeProvisioner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/pkg/browser"

	"github.com/five82/kampfrichter/internal/apperr"
	"github.com/five82/kampfrichter/internal/chrome"
	"github.com/five82/kampfrichter/internal/competition"
	"github.com/five82/kampfrichter/internal/config"
	"github.com/five82/kampfrichter/internal/export"
	"github.com/five82/kampfrichter/internal/frontend"
	"github.com/five82/kampfrichter/internal/prefs"
	"github.com/five82/kampfrichter/internal/printer"
	"github.com/five82/kampfrichter/internal/render"
	"github.com/five82/kampfrichter/internal/state"
	"github.com/five82/kampfrichter/internal/update"
)

// ChromeProvisioner finds or installs the Chromium build used for printing.
// *chrome.Fetcher implements it.
type ChromeProvisioner interface {
	Local() (string, bool)
	Fetch(ctx context.Context) (string, error)
}

// Options configure an App. Zero-valued collaborators are built from Config.
type Options struct {
	Config    config.Config
	PrefsPath string // empty uses default ~/.config/kampfrichter/prefs.toml
	Version   string
	Logger    *log.Logger
	StageHook func(op string, stage export.Stage)

	Renderer render.Renderer
	Printer  printer.Printer
	Chrome   ChromeProvisioner
	Updates  update.Source
	// OpenFile reveals a path in the desktop file manager.
	OpenFile func(path string) error
}

// App is the application context shared by every front-end command.
type App struct {
	cfg       config.Config
	prefsPath string
	version   string
	logger    *log.Logger

	store    *state.Store
	adapter  *frontend.Adapter
	exporter *export.Orchestrator
	chrome   ChromeProvisioner
	updater  *update.Coordinator
	relay    *notifierRelay
	openFile func(string) error

	chromeBin atomic.Pointer[string]
}

// New wires an App. Collaborators that cannot be built on this system (an
// unsupported Chromium platform, an update feed without an install path) are
// logged and left disabled.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	a := &App{
		cfg:       opts.Config,
		prefsPath: opts.PrefsPath,
		version:   opts.Version,
		logger:    logger,
		store:     &state.Store{},
		relay:     &notifierRelay{},
		openFile:  opts.OpenFile,
	}
	if a.openFile == nil {
		a.openFile = browser.OpenFile
	}
	a.adapter = frontend.NewAdapter(a.store, logger.With("component", "sync"))

	if bin := strings.TrimSpace(opts.Config.ChromeBinary); bin != "" {
		a.chromeBin.Store(&bin)
	}

	a.chrome = opts.Chrome
	if a.chrome == nil {
		fetcher, err := chrome.NewFetcher(chrome.Options{
			InstallRoot: opts.Config.ExternalsDir(),
			BaseURL:     opts.Config.ChromeDownloadBase,
			Revision:    opts.Config.ChromeRevision,
			Logger:      logger,
		})
		if err != nil {
			logger.Warn("chromium provisioning disabled", "error", err)
		} else {
			a.chrome = fetcher
		}
	}

	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.NewExecRenderer(opts.Config.RendererCommand, opts.Config.RendererArgs, logger)
	}
	pdf := opts.Printer
	if pdf == nil {
		pdf = printer.NewChromePrinter(a.ChromeBinary, logger)
	}
	exportOpts := []export.Option{export.WithLogger(logger)}
	if opts.StageHook != nil {
		exportOpts = append(exportOpts, export.WithStageHook(opts.StageHook))
	}
	a.exporter = export.New(a.adapter, renderer, pdf, exportOpts...)

	source := opts.Updates
	if source == nil {
		s, err := newManifestSource(opts.Config, opts.Version, logger)
		if err != nil {
			logger.Warn("update checks disabled", "error", err)
		} else {
			source = s
		}
	}
	if source != nil {
		a.updater = update.NewCoordinator(source,
			update.WithNotifier(a.relay),
			update.WithLogger(logger))
	}
	return a, nil
}

func newManifestSource(cfg config.Config, version string, logger *log.Logger) (*update.ManifestSource, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	return update.NewManifestSource(update.ManifestOptions{
		Endpoint:       cfg.UpdateEndpoint,
		CurrentVersion: version,
		InstallPath:    exe,
		StagingDir:     cfg.UpdatesDir(),
		Logger:         logger,
	})
}

// Version returns the running version.
func (a *App) Version() string {
	return a.version
}

// Snapshot is the state handed to a front end.
type Snapshot struct {
	Record   competition.Record `json:"storage"`
	SavePath string             `json:"save_path,omitempty"`
	Saved    bool               `json:"saved"`
}

// UpdateStorageData overwrites the shared state with rec.
func (a *App) UpdateStorageData(rec competition.Record) apperr.Code {
	return a.code("update storage", a.adapter.ApplyIncoming(rec))
}

// CreateCompetition seeds the shared state with a new competition. The save
// path of an earlier import is left alone.
func (a *App) CreateCompetition(rec competition.Record) apperr.Code {
	if err := a.adapter.ApplyIncoming(rec); err != nil {
		return a.code("create competition", err)
	}
	a.logger.Info("created competition", "name", rec.Name, "date", rec.Date, "place", rec.Place)
	return apperr.NoError
}

// DataForFrontend snapshots the shared state.
func (a *App) DataForFrontend() (Snapshot, apperr.Code) {
	rec, path, ok, err := a.adapter.ExportOutgoing()
	if err != nil {
		return Snapshot{}, a.code("data for frontend", err)
	}
	return Snapshot{Record: rec, SavePath: path, Saved: ok}, apperr.NoError
}

// EditorTitle is the window title for the current competition.
func (a *App) EditorTitle() string {
	name, err := state.Load(a.store, state.Name)
	if err != nil {
		return ""
	}
	if _, saved := a.adapter.SavePath(); saved {
		return name + " (gespeichert)"
	}
	return name + " (nicht gespeichert)"
}

// SyncAndSave syncs rec and writes the save file to path.
func (a *App) SyncAndSave(rec competition.Record, path string) apperr.Code {
	if err := a.exporter.Save(rec, path); err != nil {
		return a.code("save", err)
	}
	a.touchRecent(path)
	return apperr.NoError
}

// SyncAndCreateDocx syncs rec and writes the plans to a Word document.
func (a *App) SyncAndCreateDocx(ctx context.Context, rec competition.Record, path string) apperr.Code {
	return a.code("create docx", a.exporter.ExportDocx(ctx, rec, path))
}

// SyncAndCreatePDF syncs rec and prints the plans to path. A PDF that was
// written but left intermediates behind reports
// RemovalOfTemporaryGeneratedFilesFailed.
func (a *App) SyncAndCreatePDF(ctx context.Context, rec competition.Record, path string) apperr.Code {
	report, err := a.exporter.ExportPDF(ctx, rec, path)
	if err != nil {
		return a.code("create pdf", err)
	}
	if report.CleanupErr != nil {
		a.logger.Warn("pdf written but temporary files remain",
			"output", report.Output, "html", report.HTMLTemp, "docx", report.DocxTemp, "error", report.CleanupErr)
		return apperr.CodeOf(report.CleanupErr)
	}
	return apperr.NoError
}

// ImportFile replaces the shared state with the save file at path and
// remembers path as the save path.
func (a *App) ImportFile(path string) apperr.Code {
	if err := a.adapter.Import(path); err != nil {
		return a.code("import", err)
	}
	a.touchRecent(path)
	return apperr.NoError
}

// AddTable adds an empty judging table and returns its id.
func (a *App) AddTable(kind, name string, final bool) (string, apperr.Code) {
	table := competition.NewTable(kind, name)
	table.IsFinal = final
	err := state.Update(a.store, state.JudgingTables, func(tables map[string]competition.JudgingTable) map[string]competition.JudgingTable {
		if tables == nil {
			tables = make(map[string]competition.JudgingTable)
		}
		tables[table.ID] = table
		return tables
	})
	if err != nil {
		return "", a.code("add table", err)
	}
	return table.ID, apperr.NoError
}

// SetJudge assigns name to role on the table with tableID and refreshes the
// duplicate markers of every table.
func (a *App) SetJudge(tableID, role, name string) apperr.Code {
	var missing bool
	err := state.Update(a.store, state.JudgingTables, func(tables map[string]competition.JudgingTable) map[string]competition.JudgingTable {
		table, ok := tables[tableID]
		if !ok {
			missing = true
			return tables
		}
		table.SetJudge(role, name)
		tables[tableID] = table
		return competition.MarkDuplicates(tables)
	})
	if err != nil {
		return a.code("set judge", err)
	}
	if missing {
		return a.code("set judge", apperr.New(apperr.DeserializeArgumentNullError, "lookup table",
			fmt.Errorf("no judging table %q", tableID)))
	}
	return apperr.NoError
}

// AddReplacementJudge appends name to the replacement judges.
func (a *App) AddReplacementJudge(name string) apperr.Code {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.DeserializeArgumentNullError
	}
	err := state.Update(a.store, state.ReplacementJudges, func(names []string) []string {
		return append(names, name)
	})
	return a.code("add replacement judge", err)
}

// CheckForChromeBinary reports whether a Chromium build is available and
// caches its path for printing. It never downloads.
func (a *App) CheckForChromeBinary() bool {
	if bin, ok := a.ChromeBinary(); ok {
		if _, err := os.Stat(bin); err == nil {
			return true
		}
	}
	if a.chrome == nil {
		return false
	}
	bin, ok := a.chrome.Local()
	if !ok {
		return false
	}
	a.chromeBin.Store(&bin)
	return true
}

// DownloadChrome installs the pinned Chromium build.
func (a *App) DownloadChrome(ctx context.Context) apperr.Code {
	if a.chrome == nil {
		return a.code("download chrome", apperr.New(apperr.ChromeDownloadError, "download chrome",
			errors.New("chromium is not available for this platform")))
	}
	bin, err := a.chrome.Fetch(ctx)
	if err != nil {
		return a.code("download chrome", apperr.New(apperr.ChromeDownloadError, "download chrome", err))
	}
	a.chromeBin.Store(&bin)
	a.logger.Info("chromium ready", "path", bin)
	return apperr.NoError
}

// PDFAvailable reports whether a Chromium binary has been resolved.
func (a *App) PDFAvailable() bool {
	_, ok := a.ChromeBinary()
	return ok
}

// ChromeBinary returns the resolved Chromium executable.
func (a *App) ChromeBinary() (string, bool) {
	p := a.chromeBin.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

// ShowItemInFolder opens the folder that contains path.
func (a *App) ShowItemInFolder(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("show item in folder: path is empty")
	}
	dir := filepath.Dir(path)
	if err := a.openFile(dir); err != nil {
		return fmt.Errorf("show item in folder: %w", err)
	}
	return nil
}

// SetUpdateNotifier routes update events to n. A nil n discards them.
func (a *App) SetUpdateNotifier(n update.Notifier) {
	a.relay.set(n)
}

// UpdateAvailable reports whether update checks are enabled.
func (a *App) UpdateAvailable() bool {
	return a.updater != nil
}

// UpdateApp delivers the user's answer to a pending update prompt.
func (a *App) UpdateApp(requested bool) {
	if a.updater == nil {
		return
	}
	if requested {
		a.updater.Decide(update.Accepted)
		return
	}
	a.updater.Decide(update.Declined)
}

// StartUpdateCheck runs one update check in the background.
func (a *App) StartUpdateCheck(ctx context.Context) {
	if a.updater == nil {
		a.logger.Debug("update check skipped, no update source")
		return
	}
	a.updater.Start(ctx)
}

// RunUpdateCheck runs one update check and waits for it to finish.
func (a *App) RunUpdateCheck(ctx context.Context) error {
	if a.updater == nil {
		return errors.New("update checks are disabled")
	}
	return a.updater.Run(ctx)
}

// UpdateProgress returns the bytes downloaded by the current update.
func (a *App) UpdateProgress() uint64 {
	if a.updater == nil {
		return 0
	}
	return a.updater.Progress()
}

// RecentFiles returns the recently opened or saved competitions.
func (a *App) RecentFiles() []string {
	p, _ := prefs.Load(a.prefsPath)
	return p.RecentFiles
}

func (a *App) touchRecent(path string) {
	if err := prefs.Touch(a.prefsPath, path); err != nil {
		a.logger.Warn("recent files not updated", "error", err)
	}
}

func (a *App) code(op string, err error) apperr.Code {
	if err == nil {
		return apperr.NoError
	}
	c := apperr.CodeOf(err)
	a.logger.Error(op+" failed", "code", c, "error", err)
	return c
}

type notifierRelay struct {
	mu sync.RWMutex
	n  update.Notifier
}

func (r *notifierRelay) set(n update.Notifier) {
	r.mu.Lock()
	r.n = n
	r.mu.Unlock()
}

func (r *notifierRelay) Notify(event string, payload any) {
	r.mu.RLock()
	n := r.n
	r.mu.RUnlock()
	if n != nil {
		n.Notify(event, payload)
	}
}
