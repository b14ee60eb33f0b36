package model

// MaxCandidateTraits is the longest trait list a candidate may carry.
const MaxCandidateTraits = 6

// Candidate is a recommendable field of study.
type Candidate struct {
	Name   string  `json:"major" yaml:"major"`
	Traits []Trait `json:"codes" yaml:"codes"`
}

// Code renders the candidate's traits as a compact string such as "RIC".
func (c Candidate) Code() string {
	b := make([]byte, 0, len(c.Traits))
	for _, t := range c.Traits {
		b = append(b, string(t)...)
	}
	return string(b)
}
