package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/majorfit/internal/model"
)

// QuizPrompter walks a user through the items one at a time and records
// the chosen option id and the time spent on each item.
type QuizPrompter struct {
	reader *NonBlockingReader
	writer io.Writer
	now    func() time.Time
}

// QuizAnswers is what a prompting session collected, keyed by item key.
type QuizAnswers struct {
	Answers        map[string]string
	ElapsedSeconds map[string]float64
}

// NewQuizPrompter creates a prompter reading from r and writing to w.
func NewQuizPrompter(r io.Reader, w io.Writer) *QuizPrompter {
	return &QuizPrompter{
		reader: NewNonBlockingReader(r),
		writer: w,
		now:    time.Now,
	}
}

// Run asks every item in order. An empty line or "pass" skips the item.
// If input ends early the remaining items are left unanswered.
func (p *QuizPrompter) Run(ctx context.Context, items []model.Item) (*QuizAnswers, error) {
	result := &QuizAnswers{
		Answers:        make(map[string]string, len(items)),
		ElapsedSeconds: make(map[string]float64, len(items)),
	}

	for i, item := range items {
		p.showItem(i+1, len(items), item)

		start := p.now()
		answer, err := p.ask(ctx, item)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("Input ended, %d items left unanswered", len(items)-i)))
			return result, nil
		}
		if err != nil {
			return nil, err
		}

		result.Answers[item.Key] = answer
		result.ElapsedSeconds[item.Key] = p.now().Sub(start).Seconds()
	}

	return result, nil
}

func (p *QuizPrompter) showItem(n, total int, item model.Item) {
	fmt.Fprintln(p.writer)
	fmt.Fprintln(p.writer, SubtleStyle.Render(fmt.Sprintf("[%d/%d]", n, total))+" "+BoldStyle.Render(item.Prompt))
	for _, opt := range item.Options {
		letter := string(rune('a' + opt.Position - 1))
		fmt.Fprintf(p.writer, "  %s) %s\n", PromptStyle.Render(letter), opt.Description)
	}
}

func (p *QuizPrompter) ask(ctx context.Context, item model.Item) (string, error) {
	for {
		fmt.Fprint(p.writer, FormatPrompt("Choice [a/b/c, enter to pass]"))

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return "", err
		}

		if answer, ok := parseChoice(line, item); ok {
			return answer, nil
		}
		fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("%q is not a valid choice", line)))
	}
}

// parseChoice accepts a letter, a position number or the full option id.
func parseChoice(line string, item model.Item) (string, bool) {
	choice := strings.ToLower(strings.TrimSpace(line))
	if choice == "" || choice == "pass" || choice == "p" {
		return "pass", true
	}

	for _, opt := range item.Options {
		letter := string(rune('a' + opt.Position - 1))
		if choice == letter || choice == fmt.Sprint(opt.Position) || choice == strings.ToLower(opt.ID) {
			return opt.ID, true
		}
	}
	return "", false
}
