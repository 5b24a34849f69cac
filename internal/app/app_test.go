package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/five82/kampfrichter/internal/app"
	appmocks "github.com/five82/kampfrichter/internal/app/mocks"
	"github.com/five82/kampfrichter/internal/apperr"
	"github.com/five82/kampfrichter/internal/competition"
	"github.com/five82/kampfrichter/internal/config"
	"github.com/five82/kampfrichter/internal/printer"
	printermocks "github.com/five82/kampfrichter/internal/printer/mocks"
	"github.com/five82/kampfrichter/internal/render"
	rendermocks "github.com/five82/kampfrichter/internal/render/mocks"
	"github.com/five82/kampfrichter/internal/update"
	updatemocks "github.com/five82/kampfrichter/internal/update/mocks"
)

type fixture struct {
	app      *app.App
	renderer *rendermocks.MockRenderer
	printer  *printermocks.MockPrinter
	chrome   *appmocks.MockChromeProvisioner
	updates  *updatemocks.MockSource
	opened   []string
	dir      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := log.New(os.Stderr)
	logger.SetLevel(log.FatalLevel)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = filepath.Join(dir, "data")

	f := &fixture{
		renderer: rendermocks.NewMockRenderer(ctrl),
		printer:  printermocks.NewMockPrinter(ctrl),
		chrome:   appmocks.NewMockChromeProvisioner(ctrl),
		updates:  updatemocks.NewMockSource(ctrl),
		dir:      dir,
	}
	a, err := app.New(app.Options{
		Config:    cfg,
		PrefsPath: filepath.Join(dir, "prefs.toml"),
		Version:   "2.0.3",
		Logger:    logger,
		Renderer:  f.renderer,
		Printer:   f.printer,
		Chrome:    f.chrome,
		Updates:   f.updates,
		OpenFile: func(path string) error {
			f.opened = append(f.opened, path)
			return nil
		},
	})
	require.NoError(t, err)
	f.app = a
	return f
}

func landesfinale() competition.Record {
	return competition.Record{
		Name:              "Landesfinale",
		Date:              "2024-05-11",
		Place:             "Halle",
		ResponsiblePerson: "M. Muster",
		JudgesMeetingTime: "08:30",
		ReplacementJudges: []string{"Ersatz 1"},
		JudgingTables: map[string]competition.JudgingTable{
			"t1": {ID: "t1", Name: "Gerade", Kind: "KG", Judges: map[string]competition.Judge{
				"j1": {Role: "OK", Name: "Anna"},
			}},
		},
	}
}

func TestUpdateStorageDataRoundTrip(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, apperr.NoError, f.app.UpdateStorageData(landesfinale()))

	snap, code := f.app.DataForFrontend()
	require.Equal(t, apperr.NoError, code)
	assert.Equal(t, landesfinale(), snap.Record)
	assert.False(t, snap.Saved)
	assert.Empty(t, snap.SavePath)
	assert.Equal(t, "Landesfinale (nicht gespeichert)", f.app.EditorTitle())
}

func TestCreateCompetitionKeepsCollectionsPresent(t *testing.T) {
	f := newFixture(t)

	code := f.app.CreateCompetition(competition.Record{Name: "Neu", Date: "2024-09-01"})
	require.Equal(t, apperr.NoError, code)

	snap, code := f.app.DataForFrontend()
	require.Equal(t, apperr.NoError, code)
	assert.NotNil(t, snap.Record.ReplacementJudges)
	assert.NotNil(t, snap.Record.JudgingTables)
	assert.Empty(t, snap.Record.JudgingTables)
}

func TestSaveThenImport(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.dir, "landesfinale.json")

	require.Equal(t, apperr.NoError, f.app.SyncAndSave(landesfinale(), path))
	_, code := f.app.DataForFrontend()
	require.Equal(t, apperr.NoError, code)

	other := newFixture(t)
	require.Equal(t, apperr.NoError, other.app.ImportFile(path))

	snap, code := other.app.DataForFrontend()
	require.Equal(t, apperr.NoError, code)
	assert.Equal(t, landesfinale(), snap.Record)
	assert.True(t, snap.Saved)
	assert.Equal(t, path, snap.SavePath)
	assert.Equal(t, "Landesfinale (gespeichert)", other.app.EditorTitle())
	assert.Equal(t, []string{path}, other.app.RecentFiles())
	assert.Equal(t, []string{path}, f.app.RecentFiles())
}

func TestImportFileErrors(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, apperr.MarshalSavePathNullError, f.app.ImportFile("  "))

	bad := filepath.Join(f.dir, "broken.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	assert.Equal(t, apperr.JSONDeserializeImporterError, f.app.ImportFile(bad))
	assert.Equal(t, apperr.JSONDeserializeImporterError, f.app.ImportFile(filepath.Join(f.dir, "missing.json")))

	snap, code := f.app.DataForFrontend()
	require.Equal(t, apperr.NoError, code)
	assert.False(t, snap.Saved)
	assert.Empty(t, f.app.RecentFiles())
}

func TestSyncAndCreateDocxPassesWriterStatus(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "plan.docx")

	f.renderer.EXPECT().
		Render(gomock.Any(), render.KindDocx, gomock.Any(), out).
		Return(0, nil)
	assert.Equal(t, apperr.NoError, f.app.SyncAndCreateDocx(context.Background(), landesfinale(), out))

	f.renderer.EXPECT().
		Render(gomock.Any(), render.KindDocx, gomock.Any(), out).
		Return(int(apperr.CSharpWriteError), nil)
	assert.Equal(t, apperr.CSharpWriteError, f.app.SyncAndCreateDocx(context.Background(), landesfinale(), out))

	f.renderer.EXPECT().
		Render(gomock.Any(), render.KindDocx, gomock.Any(), out).
		Return(-1, errors.New("writer missing"))
	assert.Equal(t, apperr.CSharpWriteError, f.app.SyncAndCreateDocx(context.Background(), landesfinale(), out))
}

func TestSyncAndCreatePDF(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "plan.pdf")
	htmlPath := filepath.Join(f.dir, "plan_temp.html")
	docxPath := filepath.Join(f.dir, "plan_temp.docx")

	f.renderer.EXPECT().
		Render(gomock.Any(), render.KindPDFSources, gomock.Any(), out).
		DoAndReturn(func(context.Context, render.Kind, []byte, string) (int, error) {
			require.NoError(t, os.WriteFile(htmlPath, []byte("<html></html>"), 0o644))
			require.NoError(t, os.WriteFile(docxPath, []byte("docx"), 0o644))
			return 0, nil
		})
	f.printer.EXPECT().
		PrintToPDF(gomock.Any(), htmlPath, out, printer.A4()).
		DoAndReturn(func(_ context.Context, _, pdf string, _ printer.PageConfig) error {
			return os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644)
		})

	assert.Equal(t, apperr.NoError, f.app.SyncAndCreatePDF(context.Background(), landesfinale(), out))
	assert.FileExists(t, out)
	assert.NoFileExists(t, htmlPath)
	assert.NoFileExists(t, docxPath)
}

func TestSyncAndCreatePDFReportsLeftoverIntermediates(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "plan.pdf")

	f.renderer.EXPECT().
		Render(gomock.Any(), render.KindPDFSources, gomock.Any(), out).
		Return(0, nil)
	f.printer.EXPECT().
		PrintToPDF(gomock.Any(), gomock.Any(), out, gomock.Any()).
		Return(nil)

	code := f.app.SyncAndCreatePDF(context.Background(), landesfinale(), out)
	assert.Equal(t, apperr.RemovalOfTemporaryGeneratedFilesFailed, code)
}

func TestSyncAndCreatePDFRejectsNonPDFPath(t *testing.T) {
	f := newFixture(t)
	code := f.app.SyncAndCreatePDF(context.Background(), landesfinale(), filepath.Join(f.dir, "plan.docx"))
	assert.Equal(t, apperr.InvalidExportPathError, code)

	code = f.app.SyncAndCreatePDF(context.Background(), landesfinale(), "")
	assert.Equal(t, apperr.CSharpPDFSavePathIsEmpty, code)
}

func TestTableAndJudgeEditing(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, apperr.NoError, f.app.CreateCompetition(competition.Record{Name: "DM"}))

	kg, code := f.app.AddTable("KG", "Kampfgericht 1", false)
	require.Equal(t, apperr.NoError, code)
	kg2, code := f.app.AddTable("KG", "Kampfgericht 2", false)
	require.Equal(t, apperr.NoError, code)

	require.Equal(t, apperr.NoError, f.app.SetJudge(kg, "OK", "Anna"))
	require.Equal(t, apperr.NoError, f.app.SetJudge(kg2, "OK", "Anna"))
	assert.Equal(t, apperr.DeserializeArgumentNullError, f.app.SetJudge("nope", "OK", "Ben"))

	snap, code := f.app.DataForFrontend()
	require.Equal(t, apperr.NoError, code)
	require.Len(t, snap.Record.JudgingTables, 2)
	for _, table := range snap.Record.JudgingTables {
		require.Len(t, table.Judges, 1)
		for _, judge := range table.Judges {
			assert.True(t, judge.DuplicateFound, "Anna sits on two regular tables")
		}
	}

	require.Equal(t, apperr.NoError, f.app.SetJudge(kg2, "OK", "Berta"))
	snap, code = f.app.DataForFrontend()
	require.Equal(t, apperr.NoError, code)
	assert.Empty(t, competition.DuplicateNames(snap.Record.JudgingTables))

	require.Equal(t, apperr.NoError, f.app.AddReplacementJudge("Carla"))
	assert.Equal(t, apperr.DeserializeArgumentNullError, f.app.AddReplacementJudge(" "))
	snap, code = f.app.DataForFrontend()
	require.Equal(t, apperr.NoError, code)
	assert.Equal(t, []string{"Carla"}, snap.Record.ReplacementJudges)
}

func TestChromeBinaryDiscovery(t *testing.T) {
	f := newFixture(t)
	bin := filepath.Join(f.dir, "chrome")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))

	assert.False(t, f.app.PDFAvailable())

	f.chrome.EXPECT().Local().Return("", false)
	assert.False(t, f.app.CheckForChromeBinary())
	assert.False(t, f.app.PDFAvailable())

	f.chrome.EXPECT().Local().Return(bin, true)
	assert.True(t, f.app.CheckForChromeBinary())
	assert.True(t, f.app.PDFAvailable())

	// Cached once found.
	assert.True(t, f.app.CheckForChromeBinary())
	got, ok := f.app.ChromeBinary()
	assert.True(t, ok)
	assert.Equal(t, bin, got)
}

func TestDownloadChrome(t *testing.T) {
	f := newFixture(t)

	f.chrome.EXPECT().Fetch(gomock.Any()).Return("", errors.New("mirror down"))
	assert.Equal(t, apperr.ChromeDownloadError, f.app.DownloadChrome(context.Background()))
	assert.False(t, f.app.PDFAvailable())

	f.chrome.EXPECT().Fetch(gomock.Any()).Return("/opt/chrome/chrome", nil)
	assert.Equal(t, apperr.NoError, f.app.DownloadChrome(context.Background()))
	assert.True(t, f.app.PDFAvailable())
}

func TestShowItemInFolder(t *testing.T) {
	f := newFixture(t)
	target := filepath.Join(f.dir, "exports", "plan.pdf")

	require.NoError(t, f.app.ShowItemInFolder(target))
	assert.Equal(t, []string{filepath.Join(f.dir, "exports")}, f.opened)
	assert.Error(t, f.app.ShowItemInFolder(""))
}

func TestUpdateFlowThroughApp(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	notifier := updatemocks.NewMockNotifier(ctrl)
	f.app.SetUpdateNotifier(notifier)

	rel := update.Release{Version: "2.1.0", Notes: "Neu", Date: "2024-06-01"}
	f.updates.EXPECT().Check(gomock.Any()).Return(&rel, nil)

	available := make(chan struct{})
	notifier.EXPECT().
		Notify(update.EventAvailable, update.AvailablePayload{Body: "Neu", Date: "2024-06-01", Version: "2.1.0"}).
		Do(func(string, any) { close(available) })

	done := make(chan error, 1)
	go func() { done <- f.app.RunUpdateCheck(context.Background()) }()

	select {
	case <-available:
	case <-time.After(2 * time.Second):
		t.Fatal("no updateIsAvailable event")
	}
	f.app.UpdateApp(false)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("update run did not end after decline")
	}
	assert.Zero(t, f.app.UpdateProgress())
}
