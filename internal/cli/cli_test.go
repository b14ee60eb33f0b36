package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/majorfit/internal/catalog"
	"github.com/Veraticus/majorfit/internal/model"
)

func TestNonBlockingReader_ReadLine(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedValue string
		expectError   bool
	}{
		{name: "successful read", input: "test input\n", expectedValue: "test input"},
		{name: "read with extra whitespace", input: "  test input  \n", expectedValue: "test input"},
		{name: "empty line", input: "\n", expectedValue: ""},
		{name: "last line without newline", input: "tail", expectedValue: "tail"},
		{name: "no input", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nbr := NewNonBlockingReader(strings.NewReader(tt.input))

			result, err := nbr.ReadLine(context.Background())
			if tt.expectError {
				assert.ErrorIs(t, err, io.EOF)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedValue, result)
		})
	}
}

func TestNonBlockingReader_ContextCancellation(t *testing.T) {
	t.Run("immediate cancellation", func(t *testing.T) {
		nbr := NewNonBlockingReader(strings.NewReader("ignored\n"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := nbr.ReadLine(ctx)
		assert.Equal(t, ErrInputCancelled, err)
	})

	t.Run("cancellation during read", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer func() { _ = pr.Close() }()
		defer func() { _ = pw.Close() }()

		nbr := NewNonBlockingReader(pr)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := nbr.ReadLine(ctx)
		assert.Equal(t, ErrInputCancelled, err)
	})
}

func TestParseChoice(t *testing.T) {
	item, ok := catalog.DefaultItems().ByID(7)
	require.True(t, ok)

	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{line: "a", want: "7a", ok: true},
		{line: " B ", want: "7b", ok: true},
		{line: "3", want: "7c", ok: true},
		{line: "7C", want: "7c", ok: true},
		{line: "", want: "pass", ok: true},
		{line: "Pass", want: "pass", ok: true},
		{line: "d", ok: false},
		{line: "8a", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseChoice(tt.line, item)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuizPrompter_Run(t *testing.T) {
	items := catalog.DefaultItems().All()[:3]

	var out bytes.Buffer
	p := NewQuizPrompter(strings.NewReader("b\nzzz\n\nc\n"), &out)

	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time {
		tick = tick.Add(1500 * time.Millisecond)
		return tick
	}

	got, err := p.Run(context.Background(), items)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Q01": "1b", "Q02": "pass", "Q03": "3c"}, got.Answers)
	assert.InDelta(t, 1.5, got.ElapsedSeconds["Q01"], 1e-9)
	assert.Contains(t, out.String(), "not a valid choice")
	assert.Contains(t, out.String(), "[3/3]")
}

func TestQuizPrompter_EarlyEOF(t *testing.T) {
	items := catalog.DefaultItems().All()[:3]

	var out bytes.Buffer
	got, err := NewQuizPrompter(strings.NewReader("a\n"), &out).Run(context.Background(), items)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Q01": "1a"}, got.Answers)
	assert.Contains(t, out.String(), "2 items left unanswered")
}

func TestQuizPrompter_Cancelled(t *testing.T) {
	items := catalog.DefaultItems().All()[:1]
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewQuizPrompter(pr, io.Discard).Run(ctx, items)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestInterruptHandler(t *testing.T) {
	var out bytes.Buffer
	handler := NewInterruptHandler(&out, "Nothing was saved.")

	ctx := handler.HandleInterrupts(context.Background())
	assert.False(t, handler.WasInterrupted())

	handler.interrupt()
	handler.interrupt()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled on interrupt")
	}
	assert.True(t, handler.WasInterrupted())
	assert.Equal(t, 1, strings.Count(out.String(), "Quiz interrupted!"))
	assert.Contains(t, out.String(), "Nothing was saved.")
}

func TestInterruptHandler_Stop(t *testing.T) {
	handler := NewInterruptHandler(io.Discard, "")

	ctx := handler.HandleInterrupts(context.Background())
	handler.Stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled on stop")
	}
	assert.False(t, handler.WasInterrupted())
}

func TestRenderTraitBars(t *testing.T) {
	score := model.TraitScore{R: 15, I: 9, A: 4, S: 2}
	out := RenderTraitBars(score, score.Profile(), model.ItemCount, 10)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "Realistic")
	assert.Contains(t, lines[0], "15")
	assert.Contains(t, lines[1], "Investigative")
	assert.Contains(t, lines[5], "Enterprising")
}
