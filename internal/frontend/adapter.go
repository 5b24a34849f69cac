package frontend

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/five82/kampfrichter/internal/apperr"
	"github.com/five82/kampfrichter/internal/competition"
	"github.com/five82/kampfrichter/internal/state"
)

// Adapter maps front-end records onto the shared store and back.
type Adapter struct {
	store    *state.Store
	savePath atomic.Pointer[string]
	logger   *log.Logger
}

// NewAdapter returns an Adapter over store. A nil logger uses log.Default().
func NewAdapter(store *state.Store, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.Default()
	}
	return &Adapter{store: store, logger: logger}
}

// Store returns the underlying shared state.
func (a *Adapter) Store() *state.Store {
	return a.store
}

// ApplyIncoming writes every field of rec into the store. Omitted collections
// overwrite the stored ones with empty values.
func (a *Adapter) ApplyIncoming(rec competition.Record) error {
	if rec.ReplacementJudges == nil || rec.JudgingTables == nil {
		a.logger.Debug("incoming record omits collections, clearing them",
			"replacement_judges", rec.ReplacementJudges != nil,
			"judging_tables", rec.JudgingTables != nil)
	}
	if err := a.store.ReplaceAll(rec.Competition()); err != nil {
		return fmt.Errorf("apply incoming record: %w", err)
	}
	return nil
}

// ExportOutgoing snapshots the store for the front end. Both collections are
// always present. The second and third results carry the last imported path.
func (a *Adapter) ExportOutgoing() (competition.Record, string, bool, error) {
	snap, err := a.store.Snapshot()
	if err != nil {
		return competition.Record{}, "", false, fmt.Errorf("export outgoing record: %w", err)
	}
	path, ok := a.SavePath()
	return snap.Record(), path, ok, nil
}

// SavePath returns the path of the last successful import, if any.
func (a *Adapter) SavePath() (string, bool) {
	p := a.savePath.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

// Import reads a save file, replaces the store with its contents and records
// path as the save path.
func (a *Adapter) Import(path string) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return apperr.New(apperr.MarshalSavePathNullError, "import", errors.New("path is empty"))
	}
	data, err := os.ReadFile(trimmed)
	if err != nil {
		return apperr.New(apperr.JSONDeserializeImporterError, "import", fmt.Errorf("read save file: %w", err))
	}
	c, err := competition.Decode(data)
	if err != nil {
		return apperr.New(apperr.JSONDeserializeImporterError, "import", err)
	}
	if err := a.store.ReplaceAll(c); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	a.savePath.Store(&trimmed)
	a.logger.Info("imported competition", "path", trimmed, "tables", len(c.JudgingTables))
	return nil
}
