package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Veraticus/majorfit/internal/catalog"
	"github.com/Veraticus/majorfit/internal/cli"
	"github.com/Veraticus/majorfit/internal/quiz"
)

type submitOptions struct {
	metadata     quiz.Metadata
	identity     string
	answersFile  string
	output       string
	answers      []string
	elapsed      []string
	interactive  bool
	withMetadata bool
}

func submitCmd() *cobra.Command {
	var opts submitOptions

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a completed quiz",
		Long: `Record the answers of one identity, compute its RIASEC profile and store
the top recommended majors.

Answers come from a JSON or YAML file (--answers), from repeated
--answer Q07=7b flags, or from an interactive session (--interactive).
Items that are left out are scored as if the first option was chosen.
An identity can only complete the quiz once.`,
		Example: `  majorfit submit --interactive
  majorfit submit --identity 3f2a... --answers answers.yaml
  majorfit submit --answer Q01=1b --answer Q02=2c --first-name Ada --subject Physics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.withMetadata = metadataFlagsChanged(cmd)
			return runSubmit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.identity, "identity", "", "identity to submit for (default: a new random UUID)")
	cmd.Flags().StringVarP(&opts.answersFile, "answers", "f", "", "JSON or YAML file holding the submission")
	cmd.Flags().StringArrayVarP(&opts.answers, "answer", "a", nil, "answer as ITEM=OPTION, e.g. Q07=7b (repeatable)")
	cmd.Flags().StringArrayVar(&opts.elapsed, "elapsed", nil, "seconds spent as ITEM=SECONDS (repeatable)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "answer the quiz item by item in the terminal")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, "output format (table, json, yaml)")

	cmd.Flags().StringVar(&opts.metadata.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&opts.metadata.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&opts.metadata.Gender, "gender", "", "gender (male, female, other, prefer_not)")
	cmd.Flags().StringVar(&opts.metadata.EducationLevel, "education", "", "education level, e.g. high_school or bachelor")
	cmd.Flags().StringArrayVar(&opts.metadata.FavoriteSubjects, "subject", nil, "favorite subject (repeatable, first two are kept)")

	cmd.MarkFlagsMutuallyExclusive("interactive", "answers")

	return cmd
}

var metadataFlags = []string{"first-name", "last-name", "gender", "education", "subject"}

func metadataFlagsChanged(cmd *cobra.Command) bool {
	for _, name := range metadataFlags {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func runSubmit(cmd *cobra.Command, opts submitOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	req, err := buildSubmitRequest(opts)
	if err != nil {
		return err
	}

	if opts.interactive {
		answered, err := collectInteractive(ctx, cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
		if answered == nil {
			return nil
		}
		req.Answers = answered.Answers
		req.ElapsedSeconds = answered.ElapsedSeconds
	}

	svc, store, err := newQuizService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	slog.Debug("Submitting quiz", "identity", req.Identity, "answers", len(req.Answers))

	result, err := withRetry(ctx, func() (*quiz.SubmitResult, error) {
		return svc.Submit(ctx, *req)
	})
	if err != nil {
		return userFacing(err)
	}

	return writeOutput(out, opts.output, result, func(w io.Writer) error {
		return renderSubmitResult(w, result)
	})
}

// buildSubmitRequest merges the answers file with the flags. Flags win over
// values read from the file.
func buildSubmitRequest(opts submitOptions) (*quiz.SubmitRequest, error) {
	req := &quiz.SubmitRequest{}
	if opts.answersFile != "" {
		loaded, err := readSubmissionFile(opts.answersFile)
		if err != nil {
			return nil, err
		}
		req = loaded
	}

	answers, err := parseKeyValues(opts.answers)
	if err != nil {
		return nil, fmt.Errorf("invalid --answer: %w", err)
	}
	if len(answers) > 0 && req.Answers == nil {
		req.Answers = make(map[string]string, len(answers))
	}
	for key, value := range answers {
		req.Answers[key] = value
	}

	elapsed, err := parseElapsed(opts.elapsed)
	if err != nil {
		return nil, fmt.Errorf("invalid --elapsed: %w", err)
	}
	if len(elapsed) > 0 && req.ElapsedSeconds == nil {
		req.ElapsedSeconds = make(map[string]float64, len(elapsed))
	}
	for key, value := range elapsed {
		req.ElapsedSeconds[key] = value
	}

	if opts.withMetadata {
		md := opts.metadata
		req.Metadata = &md
	}

	if opts.identity != "" {
		req.Identity = opts.identity
	}
	if req.Identity == "" {
		req.Identity = uuid.NewString()
	}

	return req, nil
}

// collectInteractive runs the terminal quiz. A nil result means the user
// interrupted the session and nothing should be submitted.
func collectInteractive(ctx context.Context, in io.Reader, out io.Writer) (*cli.QuizAnswers, error) {
	handler := cli.NewInterruptHandler(out, "Nothing was submitted.")
	ctx = handler.HandleInterrupts(ctx)
	defer handler.Stop()

	fmt.Fprintln(out, cli.FormatTitle("RIASEC quiz"))
	fmt.Fprintln(out, cli.SubtleStyle.Render("Pick the option that suits you best. Press enter to pass."))

	answered, err := cli.NewQuizPrompter(in, out).Run(ctx, catalog.DefaultItems().All())
	if handler.WasInterrupted() {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return answered, nil
}
