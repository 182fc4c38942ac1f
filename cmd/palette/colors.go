package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/five82/palette/internal/colorapi"
)

func newListCmd(flags *globalFlags) *cobra.Command {
	var (
		byCategory bool
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered colors",
		Long: `List every color the service holds.

Examples:
  palette list
  palette list --by-category
  palette list --json | jq '.[].color'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setupEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer env.Close()

			if cmd.Flags().Changed("by-category") {
				if err := env.Store.SetSortByCategory(cmd.Context(), byCategory); err != nil {
					return errReported
				}
			} else if err := env.Store.Load(cmd.Context()); err != nil {
				return errReported
			}

			records := env.Store.State().Records
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			return writeTable(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().BoolVar(&byCategory, "by-category", false, "group colors by category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func writeTable(w io.Writer, records []colorapi.Color) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No colors yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tCODE\tNAME\tCATEGORY\tID")
	for _, c := range records {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(c.Code)).Render("  ")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", swatch, c.Code, c.Name, c.Category, c.ID)
	}
	return tw.Flush()
}

func newAddCmd(flags *globalFlags) *cobra.Command {
	var name, category string
	cmd := &cobra.Command{
		Use:   "add CODE",
		Short: "Add a color to the registry",
		Long: `Add a color. A missing leading "#" is added for you.

Examples:
  palette add ff8800 --name tangerine --category warm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setupEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.Store.Create(cmd.Context(), args[0], name, category); err != nil {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().StringVar(&category, "category", "", "category label")
	return cmd
}

func newRemoveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a color by id",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setupEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.Store.Load(cmd.Context()); err != nil {
				return errReported
			}
			if err := env.Store.Remove(cmd.Context(), args[0]); err != nil {
				return errReported
			}
			return nil
		},
	}
}
