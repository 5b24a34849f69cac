package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newChromeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chrome",
		Short: "Manage the Chromium build used for PDF export",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "check",
			Short: "Report whether Chromium is installed",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if !c.app.CheckForChromeBinary() {
					fmt.Fprintln(cmd.OutOrStdout(), "not installed")
					return nil
				}
				bin, _ := c.app.ChromeBinary()
				fmt.Fprintln(cmd.OutOrStdout(), bin)
				return nil
			},
		},
		&cobra.Command{
			Use:   "download",
			Short: "Download and install the pinned Chromium build",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := check("download chrome", c.app.DownloadChrome(cmd.Context())); err != nil {
					return err
				}
				bin, _ := c.app.ChromeBinary()
				fmt.Fprintln(cmd.OutOrStdout(), bin)
				return nil
			},
		},
	)
	return cmd
}
