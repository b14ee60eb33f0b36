package quiz

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/majorfit/internal/catalog"
	"github.com/Veraticus/majorfit/internal/model"
)

// Metadata limits and defaults.
const (
	MaxNameLength    = 50
	MaxSubjectLength = 30
	DefaultFirstName = "Anonymous"
	DefaultLastName  = "User"

	passAnswer = "pass"
)

var (
	genders = map[string]bool{
		"male":       true,
		"female":     true,
		"other":      true,
		"prefer_not": true,
	}

	educationLevels = []string{
		"middle_school",
		"high_school",
		"associate",
		"bachelor",
		"master",
		"doctorate",
		"other",
		"unknown",
		"ibtidai təhsil",
		"orta təhsil",
		"tam orta təhsil",
		"subbakalavr",
		"bakalavr",
		"magistr",
	}

	subjectPattern = regexp.MustCompile(`^\p{L}[\p{L}\s-]*$`)
)

// Metadata is the optional self-reported information sent with a submission.
type Metadata struct {
	FirstName        string   `json:"first_name" yaml:"first_name"`
	LastName         string   `json:"last_name" yaml:"last_name"`
	Gender           string   `json:"gender" yaml:"gender"`
	EducationLevel   string   `json:"education_level" yaml:"education_level"`
	FavoriteSubjects []string `json:"favorite_subjects" yaml:"favorite_subjects"`
}

// SubmitRequest is the raw input of a submission. Answers and elapsed times
// are keyed by item number ("7") or item key ("Q07").
type SubmitRequest struct {
	Answers        map[string]string  `json:"answers" yaml:"answers"`
	ElapsedSeconds map[string]float64 `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	Metadata       *Metadata          `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Identity       string             `json:"identity" yaml:"identity"`
}

// ValidatedSubmission is the typed result of ValidateSubmission. Every later
// step of a submission works from it instead of the raw request.
type ValidatedSubmission struct {
	Identity     string
	Demographics model.Demographics
	Responses    []model.Response
	// Defaulted counts items that were skipped and scored at position 1.
	Defaulted   int
	HasMetadata bool
}

// ValidateSubmission checks a raw submission against the item catalog and
// returns one response draft per item.
func ValidateSubmission(req SubmitRequest, items *catalog.Items) (*ValidatedSubmission, error) {
	identity := strings.TrimSpace(req.Identity)
	if identity == "" {
		return nil, ErrEmptyIdentity
	}

	demographics, err := normalizeMetadata(req.Metadata)
	if err != nil {
		return nil, err
	}

	vs := &ValidatedSubmission{
		Identity:     identity,
		Demographics: demographics,
		HasMetadata:  req.Metadata != nil,
		Responses:    make([]model.Response, 0, items.Len()),
	}

	for _, item := range items.All() {
		raw := strings.TrimSpace(lookupAnswer(req.Answers, item.ID))

		position := 1
		if raw == "" || strings.EqualFold(raw, passAnswer) {
			vs.Defaulted++
		} else {
			position, err = parseOptionID(raw, item.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrMalformedAnswer, item.Key, err)
			}
		}

		options := item.OptionTraits()
		vs.Responses = append(vs.Responses, model.Response{
			ID:             model.ResponseID(identity, item.Key),
			Identity:       identity,
			ItemKey:        item.Key,
			Options:        options,
			ChosenTrait:    options[position-1],
			ChosenPosition: position,
			ElapsedSeconds: normalizeElapsed(req.ElapsedSeconds, item.ID),
		})
	}

	return vs, nil
}

// answerKeys lists the accepted spellings of an item's key in lookup order.
func answerKeys(id int) []string {
	return []string{
		strconv.Itoa(id),
		fmt.Sprintf("Q%02d", id),
		fmt.Sprintf("q%02d", id),
		fmt.Sprintf("Q%d", id),
	}
}

func lookupAnswer(answers map[string]string, id int) string {
	for _, key := range answerKeys(id) {
		if v, ok := answers[key]; ok {
			return v
		}
	}
	return ""
}

// parseOptionID resolves "<item><a|b|c>" to a 1-based position. The item
// number must match exactly, so "17a" is not an answer to item 1.
func parseOptionID(raw string, itemID int) (int, error) {
	id := strings.ToLower(raw)
	if len(id) < 2 {
		return 0, fmt.Errorf("option id %q is too short", raw)
	}

	var position int
	switch id[len(id)-1] {
	case 'a':
		position = 1
	case 'b':
		position = 2
	case 'c':
		position = 3
	default:
		return 0, fmt.Errorf("option id %q must end in a, b or c", raw)
	}

	n, err := strconv.Atoi(id[:len(id)-1])
	if err != nil || id[0] < '0' || id[0] > '9' {
		return 0, fmt.Errorf("option id %q has no item number", raw)
	}
	if n != itemID {
		return 0, fmt.Errorf("option id %q belongs to item %d", raw, n)
	}
	return position, nil
}

func normalizeElapsed(elapsed map[string]float64, id int) float64 {
	var v float64
	for _, key := range answerKeys(id) {
		if got, ok := elapsed[key]; ok {
			v = got
			break
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > model.MaxElapsedSeconds {
		v = model.MaxElapsedSeconds
	}
	return roundTo2(v)
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func normalizeMetadata(meta *Metadata) (model.Demographics, error) {
	d := model.Demographics{
		FirstName: DefaultFirstName,
		LastName:  DefaultLastName,
	}
	if meta == nil {
		return d, nil
	}

	if name := truncateRunes(strings.TrimSpace(meta.FirstName), MaxNameLength); name != "" {
		d.FirstName = name
	}
	if name := truncateRunes(strings.TrimSpace(meta.LastName), MaxNameLength); name != "" {
		d.LastName = name
	}

	if g := strings.ToLower(strings.TrimSpace(meta.Gender)); g != "" {
		if !genders[g] {
			return d, fmt.Errorf("%w: gender must be one of male, female, other, prefer_not", ErrInvalidMetadata)
		}
		d.Gender = g
	}

	if raw := strings.TrimSpace(meta.EducationLevel); raw != "" {
		level, ok := matchEducationLevel(raw)
		if !ok {
			return d, fmt.Errorf("%w: unknown education level %q", ErrInvalidMetadata, raw)
		}
		d.EducationLevel = level
	}

	if len(meta.FavoriteSubjects) > 2 {
		return d, fmt.Errorf("%w: at most 2 favorite subjects", ErrInvalidMetadata)
	}
	subjects := make([]string, 0, 2)
	for _, raw := range meta.FavoriteSubjects {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if utf8.RuneCountInString(s) > MaxSubjectLength {
			return d, fmt.Errorf("%w: subject %q longer than %d characters", ErrInvalidMetadata, s, MaxSubjectLength)
		}
		if !subjectPattern.MatchString(s) {
			return d, fmt.Errorf("%w: subject %q must contain only letters, spaces, or hyphen", ErrInvalidMetadata, s)
		}
		subjects = append(subjects, s)
	}
	if len(subjects) > 0 {
		d.FavoriteSubject1 = subjects[0]
	}
	if len(subjects) > 1 {
		d.FavoriteSubject2 = subjects[1]
	}

	return d, nil
}

func matchEducationLevel(raw string) (string, bool) {
	for _, level := range educationLevels {
		if strings.EqualFold(level, raw) {
			return level, true
		}
	}
	return "", false
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
