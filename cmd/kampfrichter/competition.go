package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/kampfrichter/internal/app"
	"github.com/five82/kampfrichter/internal/competition"
	"github.com/five82/kampfrichter/internal/ui"
)

func newNewCmd(c *cli) *cobra.Command {
	var (
		out   string
		input ui.CompetitionInput
	)
	cmd := &cobra.Command{
		Use:   "new -o FILE",
		Short: "Create a competition save file",
		Long:  "Create a competition save file. Without --name the header fields are asked for interactively.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(input.Name) == "" {
				if err := ui.NewCompetitionForm(&input).Run(); err != nil {
					return fmt.Errorf("competition form: %w", err)
				}
			}
			rec := input.Record()
			if err := check("create competition", c.app.CreateCompetition(rec)); err != nil {
				return err
			}
			if err := check("save", c.app.SyncAndSave(rec, out)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "save file to create")
	cmd.Flags().StringVar(&input.Name, "name", "", "competition name")
	cmd.Flags().StringVar(&input.Date, "date", "", "competition date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&input.Place, "place", "", "venue")
	cmd.Flags().StringVar(&input.ResponsiblePerson, "responsible", "", "responsible person")
	cmd.Flags().StringVar(&input.JudgesMeetingTime, "meeting", "", "judges meeting time (HH:MM)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newShowCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print a competition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.load(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				data, err := competition.EncodeIndent(snap.Record.Competition())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderSummary(snap.Record, ui.SummaryOptions{
				Theme:    c.prefs.Theme,
				Title:    c.app.EditorTitle(),
				SavePath: snap.SavePath,
				Saved:    snap.Saved,
			}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the save file encoding")
	return cmd
}

func newTableCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Edit judging tables",
	}
	var (
		kind, name string
		final      bool
	)
	add := &cobra.Command{
		Use:   "add FILE",
		Short: "Add an empty judging table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(args[0], func() error {
				id, code := c.app.AddTable(kind, name, final)
				if err := check("add table", code); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
	add.Flags().StringVar(&kind, "kind", "", "discipline, e.g. Gerade")
	add.Flags().StringVar(&name, "name", "", "table name")
	add.Flags().BoolVar(&final, "final", false, "table judges a final")
	_ = add.MarkFlagRequired("name")
	cmd.AddCommand(add)
	return cmd
}

func newJudgeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "judge",
		Short: "Edit judge assignments",
	}
	var table, role, name string
	set := &cobra.Command{
		Use:   "set FILE",
		Short: "Assign a judge to a role on a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(args[0], func() error {
				return check("set judge", c.app.SetJudge(table, role, name))
			})
		},
	}
	set.Flags().StringVar(&table, "table", "", "table id")
	set.Flags().StringVar(&role, "role", "", "role on the table, e.g. OK")
	set.Flags().StringVar(&name, "name", "", "judge name")
	_ = set.MarkFlagRequired("table")
	_ = set.MarkFlagRequired("role")
	cmd.AddCommand(set)
	return cmd
}

func newReplacementCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replacement",
		Short: "Edit replacement judges",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add FILE NAME",
		Short: "Add a replacement judge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(args[0], func() error {
				return check("add replacement judge", c.app.AddReplacementJudge(args[1]))
			})
		},
	})
	return cmd
}

// load imports path and returns the resulting snapshot.
func (c *cli) load(path string) (app.Snapshot, error) {
	if err := check("import", c.app.ImportFile(path)); err != nil {
		return app.Snapshot{}, err
	}
	snap, code := c.app.DataForFrontend()
	if err := check("read state", code); err != nil {
		return app.Snapshot{}, err
	}
	return snap, nil
}

// edit imports path, applies fn to the shared state and saves back to path.
func (c *cli) edit(path string, fn func() error) error {
	if _, err := c.load(path); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	snap, code := c.app.DataForFrontend()
	if err := check("read state", code); err != nil {
		return err
	}
	if !snap.Saved {
		return errors.New("save path lost after import")
	}
	return check("save", c.app.SyncAndSave(snap.Record, snap.SavePath))
}
