package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "lowercases and strips punctuation",
			in:   "Senior Engineer (Backend) - Python!",
			want: "senior engineer backend python",
		},
		{
			name: "collapses whitespace",
			in:   "one   two\n\tthree",
			want: "one two three",
		},
		{
			name: "keeps digits",
			in:   "5 years REST APIs",
			want: "5 years rest apis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestTokenize(t *testing.T) {
	assert.Nil(t, Tokenize("   !!! "))
	assert.Equal(t, []string{"python", "backend", "engineer"}, Tokenize("Python, Backend Engineer."))
}

func TestSkills(t *testing.T) {
	text := "Built REST API services in Python and Go, deployed on AWS with Docker and Kubernetes. CI/CD via Jenkins."
	skills := Skills(text)

	assert.Contains(t, skills, "python")
	assert.Contains(t, skills, "go")
	assert.Contains(t, skills, "aws")
	assert.Contains(t, skills, "docker")
	assert.Contains(t, skills, "kubernetes")
	assert.Contains(t, skills, "ci/cd")
	assert.Contains(t, skills, "rest api")

	// Deterministic ordering
	assert.Equal(t, skills, Skills(text))

	assert.Nil(t, Skills(""))
	assert.Nil(t, Skills("no technical content here"))
}

func TestExperienceYears(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"standard phrasing", "5 years of experience in backend development", 5},
		{"plus suffix", "8+ years experience with distributed systems", 8},
		{"labelled", "Experience: 3 years", 3},
		{"abbreviated", "10 yrs experience", 10},
		{"takes the max", "2 years of experience in QA, then 6 years experience in SRE", 6},
		{"absent", "Graphic designer, Photoshop, Illustrator", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExperienceYears(tt.in))
		})
	}
}

func TestPlainTextExtractor(t *testing.T) {
	var ex PlainText

	assert.Equal(t, "resume body", ex.ExtractText([]byte("  resume body \n"), "text/plain"))
	assert.Equal(t, "resume body", ex.ExtractText([]byte("resume body"), ""))
	assert.Equal(t, "", ex.ExtractText([]byte{0x25, 0x50, 0x44, 0x46}, "application/pdf"))
}
