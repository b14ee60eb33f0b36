package quiz

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/majorfit/internal/catalog"
	"github.com/Veraticus/majorfit/internal/model"
)

func TestValidateSubmission_AllSkipped(t *testing.T) {
	items := catalog.DefaultItems()

	vs, err := ValidateSubmission(SubmitRequest{Identity: " user-1 "}, items)
	require.NoError(t, err)

	assert.Equal(t, "user-1", vs.Identity)
	assert.Equal(t, model.ItemCount, vs.Defaulted)
	assert.False(t, vs.HasMetadata)
	assert.Equal(t, DefaultFirstName, vs.Demographics.FirstName)
	assert.Equal(t, DefaultLastName, vs.Demographics.LastName)
	require.Len(t, vs.Responses, model.ItemCount)

	for i, r := range vs.Responses {
		item, ok := items.ByID(i + 1)
		require.True(t, ok)
		assert.Equal(t, item.Key, r.ItemKey)
		assert.Equal(t, 1, r.ChosenPosition)
		assert.Equal(t, item.Options[0].Trait, r.ChosenTrait)
		assert.Equal(t, "user-1_"+item.Key, r.ID)
		assert.NoError(t, r.Validate())
	}
}

func TestValidateSubmission_AnswerKeys(t *testing.T) {
	items := catalog.DefaultItems()

	tests := []struct {
		name         string
		answers      map[string]string
		wantPosition int
	}{
		{name: "numeric key", answers: map[string]string{"3": "3b"}, wantPosition: 2},
		{name: "padded Q key", answers: map[string]string{"Q03": "3c"}, wantPosition: 3},
		{name: "lower q key", answers: map[string]string{"q03": "3B"}, wantPosition: 2},
		{name: "unpadded Q key", answers: map[string]string{"Q3": "3c"}, wantPosition: 3},
		{name: "numeric wins over Q key", answers: map[string]string{"3": "3a", "Q03": "3c"}, wantPosition: 1},
		{name: "explicit pass", answers: map[string]string{"3": "PASS"}, wantPosition: 1},
		{name: "blank value", answers: map[string]string{"3": "  "}, wantPosition: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs, err := ValidateSubmission(SubmitRequest{Identity: "u", Answers: tt.answers}, items)
			require.NoError(t, err)

			r := vs.Responses[2]
			assert.Equal(t, "Q03", r.ItemKey)
			assert.Equal(t, tt.wantPosition, r.ChosenPosition)
			assert.Equal(t, r.Options[tt.wantPosition-1], r.ChosenTrait)
		})
	}
}

func TestValidateSubmission_MalformedAnswer(t *testing.T) {
	items := catalog.DefaultItems()

	tests := []struct {
		name    string
		answers map[string]string
		wantKey string
	}{
		{name: "option of another item", answers: map[string]string{"1": "2a"}, wantKey: "Q01"},
		{name: "shared prefix", answers: map[string]string{"1": "17a"}, wantKey: "Q01"},
		{name: "bad suffix", answers: map[string]string{"5": "5d"}, wantKey: "Q05"},
		{name: "no number", answers: map[string]string{"5": "b"}, wantKey: "Q05"},
		{name: "garbage", answers: map[string]string{"Q10": "hello"}, wantKey: "Q10"},
		{name: "signed number", answers: map[string]string{"5": "+5a"}, wantKey: "Q05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateSubmission(SubmitRequest{Identity: "u", Answers: tt.answers}, items)
			require.ErrorIs(t, err, ErrMalformedAnswer)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

func TestValidateSubmission_EmptyIdentity(t *testing.T) {
	_, err := ValidateSubmission(SubmitRequest{Identity: "   "}, catalog.DefaultItems())
	assert.ErrorIs(t, err, ErrEmptyIdentity)
}

func TestValidateSubmission_ElapsedSeconds(t *testing.T) {
	items := catalog.DefaultItems()

	tests := []struct {
		name    string
		elapsed map[string]float64
		want    float64
	}{
		{name: "missing", elapsed: nil, want: 0},
		{name: "rounded", elapsed: map[string]float64{"1": 3.14159}, want: 3.14},
		{name: "rounded half up", elapsed: map[string]float64{"Q01": 2.005001}, want: 2.01},
		{name: "negative", elapsed: map[string]float64{"1": -4}, want: 0},
		{name: "over cap", elapsed: map[string]float64{"1": 1200}, want: 600},
		{name: "NaN", elapsed: map[string]float64{"1": math.NaN()}, want: 0},
		{name: "infinite", elapsed: map[string]float64{"1": math.Inf(1)}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs, err := ValidateSubmission(SubmitRequest{Identity: "u", ElapsedSeconds: tt.elapsed}, items)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, vs.Responses[0].ElapsedSeconds, 1e-9)
		})
	}
}

func TestValidateSubmission_Metadata(t *testing.T) {
	items := catalog.DefaultItems()

	tests := []struct {
		meta    *Metadata
		want    model.Demographics
		wantErr bool
		name    string
	}{
		{
			name: "full metadata",
			meta: &Metadata{
				FirstName:        " Aysel ",
				LastName:         "Mammadova",
				Gender:           "Female",
				EducationLevel:   "Tam Orta Təhsil",
				FavoriteSubjects: []string{"Biology", "World History"},
			},
			want: model.Demographics{
				FirstName:        "Aysel",
				LastName:         "Mammadova",
				Gender:           "female",
				EducationLevel:   "tam orta təhsil",
				FavoriteSubject1: "Biology",
				FavoriteSubject2: "World History",
			},
		},
		{
			name: "blank names get defaults",
			meta: &Metadata{FirstName: "  "},
			want: model.Demographics{FirstName: DefaultFirstName, LastName: DefaultLastName},
		},
		{
			name: "long name truncated",
			meta: &Metadata{FirstName: strings.Repeat("ə", 60), LastName: "X"},
			want: model.Demographics{FirstName: strings.Repeat("ə", MaxNameLength), LastName: "X"},
		},
		{
			name: "blank subjects skipped",
			meta: &Metadata{FavoriteSubjects: []string{"", "Chemistry"}},
			want: model.Demographics{FirstName: DefaultFirstName, LastName: DefaultLastName, FavoriteSubject1: "Chemistry"},
		},
		{name: "unknown gender", meta: &Metadata{Gender: "robot"}, wantErr: true},
		{name: "unknown education", meta: &Metadata{EducationLevel: "kindergarten"}, wantErr: true},
		{name: "subject with digits", meta: &Metadata{FavoriteSubjects: []string{"Math 101"}}, wantErr: true},
		{name: "subject too long", meta: &Metadata{FavoriteSubjects: []string{strings.Repeat("a", 31)}}, wantErr: true},
		{name: "too many subjects", meta: &Metadata{FavoriteSubjects: []string{"A", "B", "C"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs, err := ValidateSubmission(SubmitRequest{Identity: "u", Metadata: tt.meta}, items)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidMetadata)
				return
			}
			require.NoError(t, err)
			assert.True(t, vs.HasMetadata)
			assert.Equal(t, tt.want, vs.Demographics)
		})
	}
}

func TestParseOptionID(t *testing.T) {
	tests := []struct {
		raw     string
		item    int
		want    int
		wantErr bool
	}{
		{raw: "1a", item: 1, want: 1},
		{raw: "30C", item: 30, want: 3},
		{raw: "07b", item: 7, want: 2},
		{raw: "12b", item: 1, wantErr: true},
		{raw: "a", item: 1, wantErr: true},
		{raw: "1", item: 1, wantErr: true},
		{raw: "-1a", item: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseOptionID(tt.raw, tt.item)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
