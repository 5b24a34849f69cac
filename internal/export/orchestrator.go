package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/five82/kampfrichter/internal/apperr"
	"github.com/five82/kampfrichter/internal/competition"
	"github.com/five82/kampfrichter/internal/printer"
	"github.com/five82/kampfrichter/internal/render"
)

// StateSync pushes a front-end record into shared state and reads it back.
// *frontend.Adapter implements it.
type StateSync interface {
	ApplyIncoming(rec competition.Record) error
	ExportOutgoing() (competition.Record, string, bool, error)
}

// Report describes a finished PDF export.
type Report struct {
	Output   string
	HTMLTemp string
	DocxTemp string
	// CleanupErr is set when an intermediate could not be removed. It never
	// turns a successful print into a failure.
	CleanupErr error
}

// Orchestrator runs the sync → serialize → render [→ print → cleanup]
// pipeline. Stages are never retried and a failed run cannot be resumed.
type Orchestrator struct {
	sync     StateSync
	renderer render.Renderer
	printer  printer.Printer
	page     printer.PageConfig
	logger   *log.Logger
	hook     func(op string, stage Stage)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStageHook registers fn to observe every stage transition. op is "docx",
// "pdf" or "save".
func WithStageHook(fn func(op string, stage Stage)) Option {
	return func(o *Orchestrator) {
		o.hook = fn
	}
}

// WithPageConfig overrides the default A4 page geometry.
func WithPageConfig(cfg printer.PageConfig) Option {
	return func(o *Orchestrator) {
		o.page = cfg
	}
}

// New returns an Orchestrator. p may be nil when PDF export is unused.
func New(sync StateSync, r render.Renderer, p printer.Printer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sync:     sync,
		renderer: r,
		printer:  p,
		page:     printer.A4(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("component", "export")
	return o
}

type run struct {
	o      *Orchestrator
	op     string
	logger *log.Logger
	stage  Stage
}

func (o *Orchestrator) begin(op, path string) *run {
	r := &run{o: o, op: op, logger: o.logger.With("op", op, "path", path)}
	r.enter(StageSyncing)
	return r
}

func (r *run) enter(stage Stage) {
	r.stage = stage
	r.logger.Debug("export stage", "stage", stage)
	if r.o.hook != nil {
		r.o.hook(r.op, stage)
	}
}

func (r *run) fail(err error) error {
	stageErr := &StageError{Stage: r.stage, Err: err}
	r.logger.Error("export failed", "stage", r.stage, "code", apperr.CodeOf(err), "error", err)
	r.enter(StageFailed)
	return stageErr
}

// ExportDocx syncs rec into shared state and has the writer produce path.
func (o *Orchestrator) ExportDocx(ctx context.Context, rec competition.Record, path string) error {
	if strings.TrimSpace(path) == "" {
		return apperr.New(apperr.MarshalSavePathNullError, "export docx", errors.New("output path is empty"))
	}
	r := o.begin("docx", path)
	payload, err := o.syncAndEncode(r, rec)
	if err != nil {
		return err
	}
	if err := o.render(ctx, r, render.KindDocx, payload, path); err != nil {
		return err
	}
	r.enter(StageDone)
	r.logger.Info("docx exported")
	return nil
}

// ExportPDF syncs rec, has the writer produce the HTML/DOCX intermediates next
// to path, prints the HTML to path and removes both intermediates whatever the
// print outcome.
func (o *Orchestrator) ExportPDF(ctx context.Context, rec competition.Record, path string) (Report, error) {
	htmlPath, docxPath, err := TempPaths(path)
	if err != nil {
		return Report{}, err
	}
	report := Report{Output: strings.TrimSpace(path), HTMLTemp: htmlPath, DocxTemp: docxPath}
	if o.printer == nil {
		return report, apperr.New(apperr.ChromiumBinaryIsUnexpectedlyNone, "export pdf", errors.New("no printer configured"))
	}

	r := o.begin("pdf", report.Output)
	payload, err := o.syncAndEncode(r, rec)
	if err != nil {
		return report, err
	}
	if err := o.render(ctx, r, render.KindPDFSources, payload, report.Output); err != nil {
		// The writer may have left partial intermediates behind.
		removeQuietly(htmlPath, docxPath)
		return report, err
	}

	r.enter(StagePrinting)
	printErr := o.printer.PrintToPDF(ctx, htmlPath, report.Output, o.page)
	if printErr != nil && apperr.CodeOf(printErr) == apperr.UnknownError {
		printErr = apperr.New(apperr.PDFGenerationInChromiumFailed, "print pdf", printErr)
	}
	if printErr != nil {
		r.logger.Warn("printing failed, cleaning up intermediates", "error", printErr)
	}

	r.enter(StageCleanup)
	report.CleanupErr = removeTemps(htmlPath, docxPath)
	if report.CleanupErr != nil {
		r.logger.Warn("intermediate cleanup incomplete", "error", report.CleanupErr)
	}

	if printErr != nil {
		r.stage = StagePrinting
		return report, r.fail(printErr)
	}
	r.enter(StageDone)
	r.logger.Info("pdf exported")
	return report, nil
}

// Save syncs rec and writes the resulting state to path atomically.
func (o *Orchestrator) Save(rec competition.Record, path string) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return apperr.New(apperr.MarshalSavePathNullError, "save", errors.New("save path is empty"))
	}
	r := o.begin("save", trimmed)
	if err := o.sync.ApplyIncoming(rec); err != nil {
		return r.fail(err)
	}

	r.enter(StageSerializing)
	current, _, _, err := o.sync.ExportOutgoing()
	if err != nil {
		return r.fail(err)
	}
	data, err := competition.EncodeIndent(current.Competition())
	if err != nil {
		return r.fail(apperr.New(apperr.JSONSerializeError, "save", err))
	}

	r.enter(StageWriting)
	if err := writeFileAtomic(trimmed, data); err != nil {
		return r.fail(apperr.New(apperr.RustWriteFileError, "save", err))
	}
	r.enter(StageDone)
	r.logger.Info("competition saved")
	return nil
}

func (o *Orchestrator) syncAndEncode(r *run, rec competition.Record) ([]byte, error) {
	if err := o.sync.ApplyIncoming(rec); err != nil {
		return nil, r.fail(err)
	}

	r.enter(StageSerializing)
	current, _, _, err := o.sync.ExportOutgoing()
	if err != nil {
		return nil, r.fail(err)
	}
	payload, err := competition.Encode(current.Competition())
	if err != nil {
		return nil, r.fail(apperr.New(apperr.JSONSerializeError, "serialize", err))
	}
	return payload, nil
}

func (o *Orchestrator) render(ctx context.Context, r *run, kind render.Kind, payload []byte, path string) error {
	r.enter(StageRendering)
	status, err := o.renderer.Render(ctx, kind, payload, path)
	if err != nil {
		return r.fail(apperr.New(apperr.CSharpWriteError, "render "+kind.String(), err))
	}
	if status != int(apperr.NoError) {
		return r.fail(apperr.New(apperr.Code(status), "render "+kind.String(),
			fmt.Errorf("document writer returned status %d", status)))
	}
	return nil
}

// removeTemps attempts both deletions independently and reports every
// failure, including files that were never created.
func removeTemps(htmlPath, docxPath string) error {
	var errs []error
	for _, p := range []string{htmlPath, docxPath} {
		if err := os.Remove(p); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", filepath.Base(p), err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return apperr.New(apperr.RemovalOfTemporaryGeneratedFilesFailed, "cleanup", errors.Join(errs...))
}

func removeQuietly(paths ...string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
