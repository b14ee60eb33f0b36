package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/majorfit/internal/cli"
	"github.com/Veraticus/majorfit/internal/model"
)

func confirmCmd() *cobra.Command {
	var (
		identity  string
		candidate string
		rating    int
		output    string
	)

	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Confirm the chosen major and rate it",
		Long: `Lock in one of the recommended majors for an identity together with a
satisfaction rating from 1 to 5. The confirmation can only be made once.`,
		Example: `  majorfit confirm --identity 3f2a... --candidate "Computer Science" --rating 4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, store, err := newQuizService(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			outcome, err := withRetry(ctx, func() (*model.Outcome, error) {
				return svc.Confirm(ctx, identity, candidate, rating)
			})
			if err != nil {
				return userFacing(err)
			}

			return writeOutput(cmd.OutOrStdout(), output, outcome, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Confirmed %s with satisfaction %d/5",
					cli.BoldStyle.Render(outcome.Candidate), outcome.Satisfaction)))
				return err
			})
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "identity that took the quiz")
	cmd.Flags().StringVar(&candidate, "candidate", "", "recommended major to confirm")
	cmd.Flags().IntVar(&rating, "rating", 0, "satisfaction rating (1-5)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, json, yaml)")
	_ = cmd.MarkFlagRequired("identity")
	_ = cmd.MarkFlagRequired("candidate")
	_ = cmd.MarkFlagRequired("rating")

	return cmd
}
