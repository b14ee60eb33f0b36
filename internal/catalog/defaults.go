package catalog

import "github.com/Veraticus/majorfit/internal/model"

// defaultMajors pairs each major with its Holland code, most representative
// letter first.
var defaultMajors = []struct {
	name string
	code string
}{
	{"Accounting", "CEI"},
	{"Agricultural Engineering", "RIC"},
	{"Architecture", "AIR"},
	{"Biology", "IRS"},
	{"Business Administration", "ECS"},
	{"Chemical Engineering", "IRC"},
	{"Chemistry", "IRC"},
	{"Civil Engineering", "RIC"},
	{"Communication Studies", "SAE"},
	{"Computer Science", "IRC"},
	{"Criminal Justice", "SEC"},
	{"Economics", "ICE"},
	{"Education", "SAE"},
	{"Electrical Engineering", "RIC"},
	{"Environmental Science", "IRS"},
	{"Film and Media Production", "AER"},
	{"Finance", "CEI"},
	{"Fine Arts", "AIR"},
	{"Graphic Design", "AER"},
	{"History", "IAS"},
	{"Hospitality Management", "ESC"},
	{"Industrial Design", "ARI"},
	{"International Relations", "SEI"},
	{"Journalism", "AES"},
	{"Law", "EIS"},
	{"Linguistics", "IAS"},
	{"Management Information Systems", "CIE"},
	{"Marketing", "EAS"},
	{"Mathematics", "ICR"},
	{"Mechanical Engineering", "RIC"},
	{"Medicine", "ISR"},
	{"Music", "ASE"},
	{"Nursing", "SIR"},
	{"Pharmacy", "ICS"},
	{"Philosophy", "IAS"},
	{"Physical Education", "SRE"},
	{"Physics", "IRA"},
	{"Political Science", "ESI"},
	{"Psychology", "SIA"},
	{"Public Administration", "ECS"},
	{"Social Work", "SEA"},
	{"Sociology", "SIA"},
	{"Statistics", "ICR"},
	{"Theatre", "AES"},
	{"Tourism", "ESA"},
	{"Veterinary Medicine", "IRS"},
}

// DefaultCandidates returns the built-in major catalog.
func DefaultCandidates() *Candidates {
	entries := make([]model.Candidate, 0, len(defaultMajors))
	for _, m := range defaultMajors {
		entries = append(entries, model.Candidate{Name: m.name, Traits: ParseCode(m.code)})
	}

	candidates, err := NewCandidates(entries)
	if err != nil {
		panic(err)
	}
	return candidates
}
