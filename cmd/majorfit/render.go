package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/majorfit/internal/cli"
	"github.com/Veraticus/majorfit/internal/model"
	"github.com/Veraticus/majorfit/internal/quiz"
)

const traitBarWidth = 20

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	styled := make([]string, len(headers))
	rules := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = cli.TableHeaderStyle.Render(h)
		rules[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(styled, "\t"))
	fmt.Fprintln(tw, strings.Join(rules, "\t"))

	return tw
}

func renderSubmitResult(w io.Writer, result *quiz.SubmitResult) error {
	a := result.Assessment

	fmt.Fprintln(w, cli.FormatSuccess("Quiz submitted"))
	fmt.Fprintf(w, "%s %s\n\n", cli.SubtleStyle.Render("Identity:"), a.Identity)
	fmt.Fprintln(w, cli.RenderBox("Profile "+string(a.Profile),
		cli.RenderTraitBars(a.Score, a.Profile, model.ItemCount, traitBarWidth)))
	fmt.Fprintln(w)

	return renderRecommendations(w, result.Recommendations)
}

func renderProfile(w io.Writer, view *model.ProfileView) error {
	fmt.Fprintf(w, "%s %s\n", cli.SubtleStyle.Render("Identity:"), view.Identity)

	if !view.Completed {
		fmt.Fprintln(w, cli.FormatInfo("The quiz has not been completed yet."))
		return nil
	}

	fmt.Fprintln(w, cli.RenderBox("Profile "+string(view.Profile),
		cli.RenderTraitBars(view.Score, view.Profile, model.ItemCount, traitBarWidth)))

	if view.ChosenCandidate != nil && view.Satisfaction != nil {
		fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Confirmed %s (satisfaction %d/5)",
			*view.ChosenCandidate, *view.Satisfaction)))
	}
	fmt.Fprintln(w)

	return renderRecommendations(w, view.Recommendations)
}

func renderRecommendations(w io.Writer, recs model.Recommendations) error {
	if len(recs) == 0 {
		fmt.Fprintln(w, cli.InfoStyle.Render("No recommendations."))
		return nil
	}

	tw := newTable(w, "Rank", "Major", "Score")
	for _, rec := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\n", rec.Rank, rec.Candidate, rec.Score)
	}
	return tw.Flush()
}

func renderResponses(w io.Writer, responses []model.Response) error {
	fmt.Fprintln(w)
	tw := newTable(w, "Item", "Options", "Chosen", "Position", "Seconds")
	for _, r := range responses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\n",
			r.ItemKey, model.FormatOptions(r.Options), r.ChosenTrait, r.ChosenPosition, r.ElapsedSeconds)
	}
	return tw.Flush()
}

func renderItems(w io.Writer, items []model.Item) error {
	tw := newTable(w, "Item", "Option", "Trait", "Description")
	for _, item := range items {
		for _, opt := range item.Options {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", item.Key, opt.ID, opt.Trait, opt.Description)
		}
	}
	return tw.Flush()
}

func renderCandidates(w io.Writer, candidates []model.Candidate) error {
	tw := newTable(w, "Major", "Code")
	for _, c := range candidates {
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Code())
	}
	return tw.Flush()
}

func renderAssessments(w io.Writer, assessments []model.Assessment, total int) error {
	if len(assessments) == 0 {
		fmt.Fprintln(w, cli.InfoStyle.Render("No assessments found."))
		return nil
	}

	tw := newTable(w, "Identity", "Name", "Profile", "Chosen", "Created")
	for _, a := range assessments {
		chosen := a.ChosenCandidate
		if chosen == "" {
			chosen = "-"
		}
		profile := string(a.Profile)
		if profile == "" {
			profile = "-"
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\n",
			a.Identity, a.Demographics.FirstName, a.Demographics.LastName,
			profile, chosen, a.CreatedAt.Format("2006-01-02 15:04"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, cli.SubtleStyle.Render(fmt.Sprintf("%d of %d assessments", len(assessments), total)))
	return err
}
