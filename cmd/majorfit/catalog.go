package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/majorfit/internal/catalog"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the built-in quiz items and majors",
	}

	cmd.AddCommand(catalogItemsCmd())
	cmd.AddCommand(catalogCandidatesCmd())

	return cmd
}

func catalogItemsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List the quiz items and their options",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := catalog.DefaultItems().All()
			return writeOutput(cmd.OutOrStdout(), output, items, func(w io.Writer) error {
				return renderItems(w, items)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, json, yaml)")

	return cmd
}

func catalogCandidatesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "majors",
		Aliases: []string{"candidates"},
		Short:   "List the recommendable majors and their trait codes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			candidates := catalog.DefaultCandidates().All()
			return writeOutput(cmd.OutOrStdout(), output, candidates, func(w io.Writer) error {
				return renderCandidates(w, candidates)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, json, yaml)")

	return cmd
}
