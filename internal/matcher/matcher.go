// Package matcher scores job postings and ranks them against a candidate's
// skill profile.
package matcher

import (
	"sort"

	"github.com/khrees2412/jobmatch/pkg/models"
)

// MaxScore is the ceiling for both job scores and match percentages
const MaxScore = 100

// Normalize turns extracted skills into a job score between 0 and 100.
// The score is the weighted sum of occurrences, capped at MaxScore.
func Normalize(matches []models.SkillMatch) int {
	raw := 0
	for _, m := range matches {
		raw += m.Contribution()
	}
	if raw > MaxScore {
		return MaxScore
	}
	if raw < 0 {
		return 0
	}
	return raw
}

// Match calculates how well a job fits a profile.
// Returns a percentage between 0 and 100; an empty profile always scores 0.
func Match(profile models.CVSkillProfile, job *models.JobPosting) int {
	total := profile.TotalWeight()
	if total <= 0 || job == nil {
		return 0
	}

	overlap := 0
	for _, s := range job.Skills {
		overlap += profile[s.Skill] * s.Occurrences
	}
	if overlap <= 0 {
		return 0
	}

	// round(100*overlap/total), halves up
	pct := (200*overlap + total) / (2 * total)
	if pct > MaxScore {
		return MaxScore
	}
	return pct
}

// qualifies reports whether the job shares at least one skill with the profile
func qualifies(profile models.CVSkillProfile, job *models.JobPosting) bool {
	if job == nil {
		return false
	}
	for name := range profile {
		if job.HasSkill(name) {
			return true
		}
	}
	return false
}

// Rank scores every job that shares a skill with the profile and returns
// them best first. Jobs with equal percentages keep their input order.
func Rank(profile models.CVSkillProfile, jobs []*models.JobPosting) []models.MatchResult {
	results := []models.MatchResult{}
	for _, job := range jobs {
		if !qualifies(profile, job) {
			continue
		}
		results = append(results, models.MatchResult{
			Job:             job,
			MatchPercentage: Match(profile, job),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchPercentage > results[j].MatchPercentage
	})
	return results
}
