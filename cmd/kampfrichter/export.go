package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/kampfrichter/internal/apperr"
)

func newDocxCmd(c *cli) *cobra.Command {
	var (
		out    string
		reveal bool
	)
	cmd := &cobra.Command{
		Use:   "docx FILE -o OUT",
		Short: "Export the plans as a Word document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.load(args[0])
			if err != nil {
				return err
			}
			if err := check("create docx", c.app.SyncAndCreateDocx(cmd.Context(), snap.Record, out)); err != nil {
				return err
			}
			return c.finishExport(cmd, out, reveal)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "document to write")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "open the containing folder afterwards")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newPDFCmd(c *cli) *cobra.Command {
	var (
		out    string
		reveal bool
	)
	cmd := &cobra.Command{
		Use:   "pdf FILE -o OUT",
		Short: "Export the plans as PDF",
		Long:  "Export the plans as PDF. Requires a Chromium build; see `kampfrichter chrome download`.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.app.CheckForChromeBinary() {
				return fmt.Errorf("%w (run `kampfrichter chrome download`)",
					&codeError{op: "create pdf", code: apperr.ChromiumBinaryIsUnexpectedlyNone})
			}
			snap, err := c.load(args[0])
			if err != nil {
				return err
			}
			code := c.app.SyncAndCreatePDF(cmd.Context(), snap.Record, out)
			if code == apperr.RemovalOfTemporaryGeneratedFilesFailed {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s written, but temporary files remain next to it\n", out)
				return c.finishExport(cmd, out, reveal)
			}
			if err := check("create pdf", code); err != nil {
				return err
			}
			return c.finishExport(cmd, out, reveal)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "PDF to write")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "open the containing folder afterwards")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (c *cli) finishExport(cmd *cobra.Command, out string, reveal bool) error {
	fmt.Fprintln(cmd.OutOrStdout(), out)
	if reveal {
		return c.app.ShowItemInFolder(out)
	}
	return nil
}
