package models

import "time"

// SkillMatch records how often one taxonomy skill was found in a text
type SkillMatch struct {
	Skill       string `json:"skill"`
	Occurrences int    `json:"occurrences"`
	Weight      int    `json:"weight"`
}

// Contribution is the weighted evidence this match adds to a score
func (m SkillMatch) Contribution() int {
	return m.Occurrences * m.Weight
}

// JobPosting represents a harvested job listing
type JobPosting struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	CompanyName string       `json:"companyName"`
	Rating      string       `json:"rating"`
	Location    string       `json:"location"`
	Description string       `json:"description"`
	Skills      []SkillMatch `json:"skills"`
	Score       int          `json:"score"` // 0..100
	Link        string       `json:"link"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// HasSkill reports whether the posting mentions the named skill
func (j *JobPosting) HasSkill(name string) bool {
	for _, s := range j.Skills {
		if s.Skill == name {
			return true
		}
	}
	return false
}

// CVSkillProfile maps a skill name to the weighted evidence found in a résumé
type CVSkillProfile map[string]int

// TotalWeight sums every skill's weighted evidence
func (p CVSkillProfile) TotalWeight() int {
	total := 0
	for _, w := range p {
		total += w
	}
	return total
}

// MatchResult pairs a job with its compatibility against one profile
type MatchResult struct {
	Job             *JobPosting `json:"job"`
	MatchPercentage int         `json:"matchPercentage"` // 0..100
}
