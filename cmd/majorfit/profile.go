package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/majorfit/internal/model"
)

// profileOutput is the machine readable form of the profile command.
type profileOutput struct {
	model.ProfileView `yaml:",inline"`
	Responses         []model.Response `json:"responses,omitempty" yaml:"responses,omitempty"`
}

func profileCmd() *cobra.Command {
	var (
		identity      string
		output        string
		withResponses bool
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the stored profile of an identity",
		Long: `Display the trait scores, RIASEC profile, recommendations and any
confirmed outcome of an identity.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, store, err := newQuizService(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			view, err := svc.Profile(ctx, identity)
			if err != nil {
				return userFacing(err)
			}

			result := profileOutput{ProfileView: *view}
			if withResponses {
				result.Responses, err = svc.Responses(ctx, identity)
				if err != nil {
					return err
				}
			}

			return writeOutput(cmd.OutOrStdout(), output, result, func(w io.Writer) error {
				if err := renderProfile(w, view); err != nil {
					return err
				}
				if withResponses {
					return renderResponses(w, result.Responses)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "identity to show")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, json, yaml)")
	cmd.Flags().BoolVar(&withResponses, "responses", false, "include the stored answers")
	_ = cmd.MarkFlagRequired("identity")

	return cmd
}
