package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// maxSkills caps the number of skills attached to a candidate.
const maxSkills = 20

// skillPatterns match common technical skill keywords in resume text.
var skillPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(python|java|javascript|c\+\+|ruby|php|swift|kotlin|go|rust)\b`),
	regexp.MustCompile(`\b(react|angular|vue|node\.?js|django|flask|spring|express)\b`),
	regexp.MustCompile(`\b(sql|mysql|postgresql|mongodb|redis|elasticsearch)\b`),
	regexp.MustCompile(`\b(aws|azure|gcp|docker|kubernetes|jenkins|git)\b`),
	regexp.MustCompile(`\b(machine learning|deep learning|nlp|computer vision|data science)\b`),
	regexp.MustCompile(`\b(agile|scrum|devops|ci/cd|microservices|rest api)\b`),
}

// experiencePatterns capture stated years of experience. The first
// capture group is the number of years.
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\+?\s*years?\s+(?:of\s+)?experience`),
	regexp.MustCompile(`experience[:\s]+(\d+)\+?\s*years?`),
	regexp.MustCompile(`(\d+)\+?\s*yrs?\s+experience`),
}

// Skills extracts up to maxSkills distinct skill keywords from resume
// text, sorted alphabetically for deterministic output.
func Skills(text string) []string {
	if text == "" {
		return nil
	}

	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	for _, pattern := range skillPatterns {
		for _, match := range pattern.FindAllString(lower, -1) {
			seen[match] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil
	}

	skills := make([]string, 0, len(seen))
	for skill := range seen {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	if len(skills) > maxSkills {
		skills = skills[:maxSkills]
	}
	return skills
}

// ExperienceYears returns the largest stated years-of-experience figure
// in the text, or 0 when none is found.
func ExperienceYears(text string) int {
	lower := strings.ToLower(text)

	best := 0
	for _, pattern := range experiencePatterns {
		for _, groups := range pattern.FindAllStringSubmatch(lower, -1) {
			years, err := strconv.Atoi(groups[1])
			if err != nil {
				continue
			}
			if years > best {
				best = years
			}
		}
	}
	return best
}
