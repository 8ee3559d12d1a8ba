package contextual

import "fmt"

// analysisPrompt instructs the model to act as an HR reviewer and
// answer with one JSON object matching types.ContextualAnalysis.
const analysisPrompt = `You are an expert HR recruiter analyzing resume-job fit. Compare this job description with the candidate's resume:

JOB DESCRIPTION:
%s

RESUME:
%s

Provide detailed analysis in JSON format:
{
    "match_percentage": <number 0-100>,
    "matching_skills": [<list of matching skills>],
    "missing_requirements": [<list of missing critical requirements>],
    "experience_alignment": "<brief assessment of experience match>",
    "strengths": [<list of candidate strengths>],
    "concerns": [<list of potential concerns>],
    "recommendation": "<hire/interview/reject with brief reasoning>"
}

Be precise and professional. Return ONLY valid JSON, no additional text.`

func buildPrompt(jobDescription, resumeText string) string {
	return fmt.Sprintf(analysisPrompt, jobDescription, resumeText)
}
