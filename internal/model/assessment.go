package model

import "time"

// Demographics carries the optional self-reported fields of an identity.
type Demographics struct {
	FirstName        string `json:"first_name" yaml:"first_name"`
	LastName         string `json:"last_name" yaml:"last_name"`
	Gender           string `json:"gender,omitempty" yaml:"gender,omitempty"`
	EducationLevel   string `json:"education_level,omitempty" yaml:"education_level,omitempty"`
	FavoriteSubject1 string `json:"favorite_subject_1,omitempty" yaml:"favorite_subject_1,omitempty"`
	FavoriteSubject2 string `json:"favorite_subject_2,omitempty" yaml:"favorite_subject_2,omitempty"`
}

// Assessment is the per-identity record: demographics, the derived trait
// score and profile, and the one-time outcome confirmation.
type Assessment struct {
	CreatedAt       time.Time    `json:"created_at" yaml:"created_at"`
	Identity        string       `json:"user_id" yaml:"user_id"`
	Profile         TraitProfile `json:"riasec_profile,omitempty" yaml:"riasec_profile,omitempty"`
	ChosenCandidate string       `json:"chosen_major,omitempty" yaml:"chosen_major,omitempty"`
	Demographics    Demographics `json:"demographics" yaml:"demographics"`
	Score           TraitScore   `json:"scores" yaml:"scores"`
	Satisfaction    int          `json:"satisfaction_score,omitempty" yaml:"satisfaction_score,omitempty"`
}

// Scored reports whether a submission has populated the profile.
func (a *Assessment) Scored() bool {
	return a.Profile != ""
}

// Confirmed reports whether an outcome has been locked in.
func (a *Assessment) Confirmed() bool {
	return a.ChosenCandidate != ""
}

// Outcome is the confirmed candidate and satisfaction rating of an identity.
type Outcome struct {
	Identity     string `json:"user_id" yaml:"user_id"`
	Candidate    string `json:"chosen_major" yaml:"chosen_major"`
	Satisfaction int    `json:"satisfaction_score" yaml:"satisfaction_score"`
}

// ProfileView is the read-only summary of an identity's assessment.
type ProfileView struct {
	Identity        string          `json:"user_id" yaml:"user_id"`
	Profile         TraitProfile    `json:"riasec_profile" yaml:"riasec_profile"`
	ChosenCandidate *string         `json:"chosen_major" yaml:"chosen_major"`
	Satisfaction    *int            `json:"satisfaction_score" yaml:"satisfaction_score"`
	Recommendations Recommendations `json:"recommendations" yaml:"recommendations"`
	Score           TraitScore      `json:"scores" yaml:"scores"`
	Completed       bool            `json:"completed" yaml:"completed"`
}
