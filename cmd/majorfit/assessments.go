package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/majorfit/internal/service"
	"github.com/Veraticus/majorfit/internal/storage"
)

func assessmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assessments",
		Short: "Browse stored assessments",
	}

	cmd.AddCommand(listAssessmentsCmd())

	return cmd
}

func listAssessmentsCmd() *cobra.Command {
	var (
		filter service.AssessmentFilter
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assessments, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, store, err := newQuizService(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			page, err := svc.ListAssessments(ctx, filter)
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), output, page, func(w io.Writer) error {
				return renderAssessments(w, page.Assessments, page.Total)
			})
		},
	}

	cmd.Flags().IntVar(&filter.Limit, "limit", storage.DefaultListLimit, "maximum number of assessments to show")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "number of assessments to skip")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, json, yaml)")

	return cmd
}
