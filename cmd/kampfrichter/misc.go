package main

import (
	"fmt"
	"runtime"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/five82/kampfrichter/internal/logging"
	"github.com/five82/kampfrichter/internal/logtail"
	"github.com/five82/kampfrichter/internal/prefs"
	"github.com/five82/kampfrichter/internal/ui"
)

func newLogsCmd(c *cli) *cobra.Command {
	var (
		lines    int
		pathOnly bool
	)
	cmd := &cobra.Command{
		Use:         "logs",
		Short:       "Print the newest session log",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSession: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := logtail.Latest(c.cfg.LogDir(), logging.FilePattern)
			if err != nil {
				return err
			}
			if path == "" {
				return fmt.Errorf("no session logs in %s", c.cfg.LogDir())
			}
			if pathOnly {
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}
			tail, err := logtail.Read(path, lines)
			if err != nil {
				return err
			}
			for _, line := range tail {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 200, "number of lines to print (0 for all)")
	cmd.Flags().BoolVar(&pathOnly, "path", false, "print only the log file path")
	return cmd
}

func newRecentCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:         "recent",
		Short:       "List recently opened competitions",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSession: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, f := range c.prefs.RecentFiles {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
}

func newThemeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:         "theme [NAME]",
		Short:       "Show or set the color theme",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipSession: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (available: %s)\n", c.prefs.Theme, strings.Join(ui.ThemeNames(), ", "))
				return nil
			}
			name := ui.GetTheme(args[0]).Name
			if name != args[0] {
				return fmt.Errorf("unknown theme %q (available: %s)", args[0], strings.Join(ui.ThemeNames(), ", "))
			}
			return prefs.Update(c.prefsPath, func(p *prefs.Prefs) { p.Theme = name })
		},
	}
}

type versionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func newVersionCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSession: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{
				Version:   version,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			if format == "json" {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("format version info: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "kampfrichter %s (%s, %s)\n", info.Version, info.GoVersion, info.Platform)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "output format (json)")
	return cmd
}
