package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/majorfit/internal/catalog"
	"github.com/Veraticus/majorfit/internal/quiz"
)

func recommendCmd() *cobra.Command {
	var (
		profile string
		output  string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Preview recommendations for a trait profile",
		Long: `Rank the majors catalog against a RIASEC profile such as "SAI" without
storing anything. Nothing is read from or written to the database.`,
		Example: `  majorfit recommend --profile SAI
  majorfit recommend --profile rias --limit 5 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = viper.GetInt("recommend.limit")
			}

			recs, err := quiz.Preview(profile, catalog.DefaultCandidates().All(), limit)
			if err != nil {
				return userFacing(err)
			}

			return writeOutput(cmd.OutOrStdout(), output, recs, func(w io.Writer) error {
				return renderRecommendations(w, recs)
			})
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "", "trait letters in order of strength, e.g. SAI")
	cmd.Flags().IntVarP(&limit, "limit", "n", quiz.DefaultPreviewLimit, "number of majors to show (max 20)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, json, yaml)")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}
