package quiz

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/majorfit/internal/catalog"
	"github.com/Veraticus/majorfit/internal/common"
	"github.com/Veraticus/majorfit/internal/model"
	"github.com/Veraticus/majorfit/internal/service"
	"github.com/Veraticus/majorfit/internal/storage"
	"github.com/Veraticus/majorfit/internal/txqueue"
)

func newTestService(t *testing.T) (*Service, *storage.SQLiteStorage) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	return NewService(store, txqueue.New(), catalog.DefaultItems(), catalog.DefaultCandidates()), store
}

// answersFor picks, for every item, the option carrying trait when offered
// and skips the item otherwise.
func answersFor(items *catalog.Items, trait model.Trait) map[string]string {
	answers := make(map[string]string, items.Len())
	for _, item := range items.All() {
		for _, opt := range item.Options {
			if opt.Trait == trait {
				answers[item.Key] = opt.ID
			}
		}
	}
	return answers
}

func TestService_Submit(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	result, err := svc.Submit(ctx, SubmitRequest{
		Identity: "user-1",
		Metadata: &Metadata{FirstName: "Nigar", Gender: "female", FavoriteSubjects: []string{"Art"}},
	})
	require.NoError(t, err)

	// Skipping everything scores position 1 of every item
	assert.Equal(t, model.TraitScore{R: 15, I: 9, A: 4, S: 2}, result.Assessment.Score)
	assert.Equal(t, model.TraitProfile("RIASCE"), result.Assessment.Profile)
	assert.Equal(t, model.ItemCount, result.Assessment.Score.Total())
	assert.Equal(t, "Nigar", result.Assessment.Demographics.FirstName)
	assert.Equal(t, DefaultLastName, result.Assessment.Demographics.LastName)
	assert.Equal(t, "female", result.Assessment.Demographics.Gender)
	assert.Equal(t, "Art", result.Assessment.Demographics.FavoriteSubject1)

	require.Len(t, result.Responses, model.ItemCount)
	require.Len(t, result.Recommendations, RecommendationLimit)
	require.NoError(t, result.Recommendations.Validate())

	expected := Rank(result.Assessment.Profile.Letters(), catalog.DefaultCandidates().All(), RecommendationLimit)
	for i, rec := range result.Recommendations {
		assert.Equal(t, expected[i].Candidate, rec.Candidate)
		assert.Equal(t, i+1, rec.Rank)
		assert.InDelta(t, expected[i].Score, rec.Score, 0.005)
	}

	has, err := store.HasRecommendations(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestService_SubmitChosenAnswers(t *testing.T) {
	svc, _ := newTestService(t)

	answers := answersFor(svc.Items(), model.TraitConventional)
	result, err := svc.Submit(context.Background(), SubmitRequest{Identity: "user-c", Answers: answers})
	require.NoError(t, err)

	assert.Equal(t, model.ItemCount, result.Assessment.Score.Total())
	assert.Equal(t, model.TraitConventional, result.Assessment.Profile.Letters()[0])
	assert.Equal(t, len(answers), result.Assessment.Score.C)
}

func TestService_SubmitTwiceLeavesRowsUnchanged(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitRequest{Identity: "user-1"})
	require.NoError(t, err)

	responsesBefore, err := store.GetResponses(ctx, "user-1")
	require.NoError(t, err)
	recsBefore, err := store.GetRecommendations(ctx, "user-1")
	require.NoError(t, err)
	assessmentBefore, err := store.GetAssessment(ctx, "user-1")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, SubmitRequest{
		Identity: "user-1",
		Answers:  answersFor(svc.Items(), model.TraitSocial),
		Metadata: &Metadata{FirstName: "Changed"},
	})
	require.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.True(t, IsExpected(err))

	responsesAfter, err := store.GetResponses(ctx, "user-1")
	require.NoError(t, err)
	recsAfter, err := store.GetRecommendations(ctx, "user-1")
	require.NoError(t, err)
	assessmentAfter, err := store.GetAssessment(ctx, "user-1")
	require.NoError(t, err)

	if diff := cmp.Diff(responsesBefore, responsesAfter); diff != "" {
		t.Errorf("responses changed (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(recsBefore, recsAfter); diff != "" {
		t.Errorf("recommendations changed (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(assessmentBefore, assessmentAfter); diff != "" {
		t.Errorf("assessment changed (-before +after):\n%s", diff)
	}
}

func TestService_SubmitRollsBackOnMalformedAnswer(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitRequest{
		Identity: "user-1",
		Answers:  map[string]string{"1": "1a", "2": "9c"},
	})
	require.ErrorIs(t, err, ErrMalformedAnswer)

	_, err = store.GetAssessment(ctx, "user-1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	responses, err := store.GetResponses(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, responses)

	// A corrected submission still goes through
	_, err = svc.Submit(ctx, SubmitRequest{Identity: "user-1", Answers: map[string]string{"1": "1a", "2": "2c"}})
	require.NoError(t, err)
}

func TestService_SubmitRejectsBadMetadata(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitRequest{Identity: "user-1", Metadata: &Metadata{Gender: "unknown"}})
	require.ErrorIs(t, err, ErrInvalidMetadata)

	count, err := store.CountAssessments(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestService_SubmitEmptyIdentity(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Submit(context.Background(), SubmitRequest{Identity: " "})
	assert.ErrorIs(t, err, ErrEmptyIdentity)
}

func TestService_ConcurrentSubmissions(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		completed int
		other     []error
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			trait := model.AllTraits[n%len(model.AllTraits)]
			_, err := svc.Submit(ctx, SubmitRequest{
				Identity: "shared",
				Answers:  answersFor(svc.Items(), trait),
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrAlreadyCompleted):
				completed++
			default:
				other = append(other, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, completed)

	recs, err := store.GetRecommendations(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, recs, RecommendationLimit)
	assert.NoError(t, recs.Validate())
}

func TestService_Confirm(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	result, err := svc.Submit(ctx, SubmitRequest{Identity: "user-1"})
	require.NoError(t, err)
	top := result.Recommendations[0]

	outcome, err := svc.Confirm(ctx, "user-1", top.Candidate, 5)
	require.NoError(t, err)
	assert.Equal(t, model.Outcome{Identity: "user-1", Candidate: top.Candidate, Satisfaction: 5}, *outcome)

	assessment, err := store.GetAssessment(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, top.Candidate, assessment.ChosenCandidate)
	assert.Equal(t, 5, assessment.Satisfaction)

	recs, err := store.GetRecommendations(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, recs, RecommendationLimit)
	chosen := recs.Find(top.Candidate)
	require.NotNil(t, chosen)
	assert.Equal(t, 5.0, chosen.Score)
	assert.Equal(t, top.Rank, chosen.Rank)
}

func TestService_ConfirmKeepsHigherScore(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	result, err := svc.Submit(ctx, SubmitRequest{Identity: "user-1"})
	require.NoError(t, err)
	top := result.Recommendations[0]
	require.Greater(t, top.Score, 1.0)

	_, err = svc.Confirm(ctx, "user-1", top.Candidate, 1)
	require.NoError(t, err)

	recs, err := store.GetRecommendations(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, top.Score, recs.Find(top.Candidate).Score)
}

func TestService_ConfirmErrors(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	result, err := svc.Submit(ctx, SubmitRequest{Identity: "user-1"})
	require.NoError(t, err)
	first := result.Recommendations[0].Candidate
	second := result.Recommendations[1].Candidate

	var notRecommended string
	for _, c := range svc.Candidates().All() {
		if result.Recommendations.Find(c.Name) == nil {
			notRecommended = c.Name
			break
		}
	}
	require.NotEmpty(t, notRecommended)

	_, err = svc.Confirm(ctx, "ghost", first, 3)
	require.ErrorIs(t, err, ErrIdentityNotFound)

	_, err = svc.Confirm(ctx, "user-1", notRecommended, 3)
	require.ErrorIs(t, err, ErrCandidateNotRecommended)

	for _, rating := range []int{0, 6, -1} {
		_, err = svc.Confirm(ctx, "user-1", first, rating)
		require.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
	}

	_, err = svc.Confirm(ctx, "user-1", first, 4)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, "user-1", first, 2)
	require.ErrorIs(t, err, ErrAlreadyConfirmedSame)

	_, err = svc.Confirm(ctx, "user-1", second, 5)
	require.ErrorIs(t, err, ErrConfirmationImmutable)

	assessment, err := store.GetAssessment(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first, assessment.ChosenCandidate)
	assert.Equal(t, 4, assessment.Satisfaction)
}

func TestService_ConfirmBeforeSubmit(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.CreateAssessment(ctx, &model.Assessment{
		Identity:     "user-1",
		Demographics: model.Demographics{FirstName: "A", LastName: "B"},
	}))

	_, err := svc.Confirm(ctx, "user-1", "Biology", 3)
	assert.ErrorIs(t, err, ErrCandidateNotRecommended)
}

func TestService_Profile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Profile(ctx, "user-1")
	require.ErrorIs(t, err, ErrIdentityNotFound)

	result, err := svc.Submit(ctx, SubmitRequest{Identity: "user-1"})
	require.NoError(t, err)

	view, err := svc.Profile(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, view.Completed)
	assert.Nil(t, view.ChosenCandidate)
	assert.Nil(t, view.Satisfaction)
	assert.Equal(t, result.Assessment.Profile, view.Profile)
	assert.Equal(t, result.Assessment.Score, view.Score)
	if diff := cmp.Diff(result.Recommendations, view.Recommendations); diff != "" {
		t.Errorf("recommendations differ (-submit +profile):\n%s", diff)
	}

	_, err = svc.Confirm(ctx, "user-1", result.Recommendations[2].Candidate, 3)
	require.NoError(t, err)

	view, err = svc.Profile(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, view.ChosenCandidate)
	require.NotNil(t, view.Satisfaction)
	assert.Equal(t, result.Recommendations[2].Candidate, *view.ChosenCandidate)
	assert.Equal(t, 3, *view.Satisfaction)
}

func TestService_ListAssessments(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(ctx, SubmitRequest{Identity: fmt.Sprintf("user-%d", i)})
		require.NoError(t, err)
	}

	page, err := svc.ListAssessments(ctx, service.AssessmentFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Assessments, 2)

	responses, err := svc.Responses(ctx, "user-0")
	require.NoError(t, err)
	assert.Len(t, responses, model.ItemCount)
}

func TestIsExpected(t *testing.T) {
	assert.True(t, IsExpected(fmt.Errorf("wrapped: %w", ErrAlreadyCompleted)))
	assert.True(t, IsExpected(ErrConfirmationImmutable))
	assert.False(t, IsExpected(ErrScoreInvariantViolation))
	assert.False(t, IsExpected(ErrResponseCountMismatch))
	assert.False(t, IsExpected(errors.New("disk on fire")))
}
