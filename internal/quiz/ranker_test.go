package quiz

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/majorfit/internal/catalog"
	"github.com/Veraticus/majorfit/internal/model"
)

func traits(code string) []model.Trait {
	return catalog.ParseCode(code)
}

func TestRank_PositionalWeights(t *testing.T) {
	candidates := []model.Candidate{
		{Name: "Conventional Only", Traits: traits("C")},
		{Name: "Realistic Investigative", Traits: traits("RI")},
	}

	recs := Rank(traits("RIASEC"), candidates, 10)
	require.Len(t, recs, 2)

	assert.Equal(t, "Realistic Investigative", recs[0].Candidate)
	assert.InDelta(t, 1.5, recs[0].Score, 1e-9)
	assert.Equal(t, 1, recs[0].Rank)

	assert.Equal(t, "Conventional Only", recs[1].Candidate)
	assert.InDelta(t, 1.0/6.0, recs[1].Score, 1e-9)
	assert.Equal(t, 2, recs[1].Rank)
}

func TestRank_TiesAndEmpty(t *testing.T) {
	candidates := []model.Candidate{
		{Name: "Zoology", Traits: traits("I")},
		{Name: "Anthropology", Traits: traits("I")},
		{Name: "Undeclared", Traits: nil},
		{Name: "Mechanics", Traits: traits("R")},
	}

	recs := Rank(traits("RIASEC"), candidates, 10)
	require.Len(t, recs, 4)

	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Candidate
	}
	assert.Equal(t, []string{"Mechanics", "Anthropology", "Zoology", "Undeclared"}, names)
	assert.Zero(t, recs[3].Score)
}

func TestRank_ShortProfile(t *testing.T) {
	candidates := []model.Candidate{
		{Name: "Art", Traits: traits("AE")},
		{Name: "Accounting", Traits: traits("CE")},
	}

	// Letters absent from the profile weigh nothing
	recs := Rank(traits("A"), candidates, 10)
	assert.InDelta(t, 1.0, recs[0].Score, 1e-9)
	assert.Zero(t, recs[1].Score)
}

func TestRank_TopN(t *testing.T) {
	all := catalog.DefaultCandidates().All()

	recs := Rank(traits("SEC"), all, RecommendationLimit)
	require.Len(t, recs, RecommendationLimit)
	require.NoError(t, recs.Validate())

	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Score+model.ScoreEpsilon, recs[i].Score)
	}

	assert.Empty(t, Rank(traits("SEC"), all, 0))
}

func TestRank_Deterministic(t *testing.T) {
	all := catalog.DefaultCandidates().All()

	first := Rank(traits("IRCASE"), all, RecommendationLimit)
	second := Rank(traits("IRCASE"), all, RecommendationLimit)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Rank() not deterministic (-first +second):\n%s", diff)
	}

	// The caller's catalog is not reordered
	if diff := cmp.Diff(catalog.DefaultCandidates().All(), all); diff != "" {
		t.Errorf("Rank() mutated the candidate slice (-want +got):\n%s", diff)
	}
}

func TestNormalizeProfile(t *testing.T) {
	tests := []struct {
		raw     string
		want    []model.Trait
		wantErr bool
	}{
		{raw: "riasec", want: traits("RIASEC")},
		{raw: " s-e-c ", want: traits("SEC")},
		{raw: "RIASECRIASEC", want: traits("RIASEC")},
		{raw: "xyz", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeProfile(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidProfile)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPreview_Limits(t *testing.T) {
	all := catalog.DefaultCandidates().All()

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "default", limit: 0, want: DefaultPreviewLimit},
		{name: "explicit", limit: 5, want: 5},
		{name: "capped", limit: 100, want: MaxPreviewLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := Preview("RIA", all, tt.limit)
			require.NoError(t, err)
			assert.Len(t, recs, tt.want)
		})
	}

	small := all[:3]
	recs, err := Preview("RIA", small, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	_, err = Preview("123", all, 5)
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestAggregateScore(t *testing.T) {
	tests := []struct {
		counts      map[model.Trait]int
		name        string
		wantProfile model.TraitProfile
		wantScore   model.TraitScore
		wantErr     bool
	}{
		{
			name:        "all realistic",
			counts:      map[model.Trait]int{model.TraitRealistic: 30},
			wantScore:   model.TraitScore{R: 30},
			wantProfile: "RACEIS",
		},
		{
			name: "mixed",
			counts: map[model.Trait]int{
				model.TraitRealistic: 15, model.TraitInvestigative: 9,
				model.TraitArtistic: 4, model.TraitSocial: 2,
			},
			wantScore:   model.TraitScore{R: 15, I: 9, A: 4, S: 2},
			wantProfile: "RIASCE",
		},
		{
			name:        "invalid letters ignored",
			counts:      map[model.Trait]int{model.TraitSocial: 30, "X": 3},
			wantScore:   model.TraitScore{S: 30},
			wantProfile: "SACEIR",
		},
		{
			name:    "partial write",
			counts:  map[model.Trait]int{model.TraitRealistic: 29},
			wantErr: true,
		},
		{
			name:    "empty",
			counts:  map[model.Trait]int{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, profile, err := AggregateScore(tt.counts, model.ItemCount)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrScoreInvariantViolation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantProfile, profile)
			assert.Equal(t, model.ItemCount, score.Total())
		})
	}
}
