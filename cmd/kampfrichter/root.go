package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/five82/kampfrichter/internal/app"
	"github.com/five82/kampfrichter/internal/apperr"
	"github.com/five82/kampfrichter/internal/config"
	"github.com/five82/kampfrichter/internal/logging"
	"github.com/five82/kampfrichter/internal/prefs"
	"github.com/five82/kampfrichter/internal/ui"
	"github.com/five82/kampfrichter/internal/update"
)

// skipSession marks commands that run without an App or session log.
const skipSession = "skip-session"

// cli carries state from the persistent pre-run to the subcommands.
type cli struct {
	configPath string
	prefsPath  string
	logLevel   string
	progress   bool

	cfg     config.Config
	prefs   prefs.Prefs
	session *logging.Session
	logger  *log.Logger
	app     *app.App
}

// codeError reports a handler that did not return NoError.
type codeError struct {
	op   string
	code apperr.Code
}

func (e *codeError) Error() string {
	return fmt.Sprintf("%s: %s", e.op, e.code)
}

func check(op string, code apperr.Code) error {
	if code == apperr.NoError {
		return nil
	}
	return &codeError{op: op, code: code}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "kampfrichter",
		Short:         "Plan and print judge assignments for gymnastics competitions",
		Long:          "kampfrichter edits competition save files and exports the judge assignment plans as DOCX or PDF.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{skipSession: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return c.session.Close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/kampfrichter/config.toml)")
	root.PersistentFlags().StringVar(&c.prefsPath, "prefs", "", "preferences file (default ~/.config/kampfrichter/prefs.toml)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&c.progress, "progress", false, "print export and save stages to stderr")

	root.AddCommand(
		newNewCmd(c),
		newShowCmd(c),
		newTableCmd(c),
		newJudgeCmd(c),
		newReplacementCmd(c),
		newDocxCmd(c),
		newPDFCmd(c),
		newChromeCmd(c),
		newUpdateCmd(c),
		newLogsCmd(c),
		newRecentCmd(c),
		newThemeCmd(c),
		newVersionCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	c.cfg = cfg
	c.prefs, _ = prefs.Load(c.prefsPath)

	if cmd.Annotations[skipSession] != "" {
		lvl, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		c.logger = logging.New(cmd.ErrOrStderr(), lvl)
		return nil
	}

	session, err := logging.Open(cfg.LogDir(), cfg.LogLevel, time.Now())
	if err != nil {
		return err
	}
	c.session = session
	c.logger = session.Logger
	c.logger.Debug("session started", "version", version, "command", cmd.CommandPath(), "log", session.Path)

	opts := app.Options{
		Config:    cfg,
		PrefsPath: c.prefsPath,
		Version:   version,
		Logger:    c.logger,
	}
	if c.progress {
		opts.StageHook = ui.NewStagePrinter(cmd.ErrOrStderr(), c.prefs.Theme).Hook
	}
	a, err := app.New(opts)
	if err != nil {
		return err
	}
	c.app = a

	if cfg.UpdateOnStart && cmd.Name() != "update" && a.UpdateAvailable() {
		a.SetUpdateNotifier(update.NotifierFunc(func(event string, payload any) {
			if event != update.EventAvailable {
				return
			}
			if p, ok := payload.(update.AvailablePayload); ok {
				c.logger.Info("update available, run `kampfrichter update` to install", "version", p.Version)
			}
			a.UpdateApp(false)
		}))
		a.StartUpdateCheck(cmd.Context())
	}
	return nil
}
