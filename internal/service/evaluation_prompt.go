package service

import (
	"fmt"
	"strings"

	"github.com/projeval/projeval-api/internal/models"
)

// reportExcerptLimit bounds how much extracted report text is embedded in
// the evaluation prompt. Longer documents are silently clipped.
const reportExcerptLimit = 2500

type promptInput struct {
	ProjectName string
	RepoLink    string
	TeamName    string
	ReportText  string
	Criteria    []models.CriterionSnapshot
}

// buildEvaluationPrompt renders the evaluation request sent to the AI
// evaluator. The mandated response skeleton (SCORE line, summary,
// per-criterion blocks, strengths, improvement areas) is the contract the
// feedback parser relies on.
func buildEvaluationPrompt(in promptInput) string {
	totalMarks := models.TotalMarks(in.Criteria)

	var criteriaLines strings.Builder
	for _, criterion := range in.Criteria {
		criteriaLines.WriteString(fmt.Sprintf("- %s (%d marks): %s\n", criterion.Name, criterion.MaxMarks, criterion.Description))
	}

	var feedbackSkeleton strings.Builder
	for i, criterion := range in.Criteria {
		feedbackSkeleton.WriteString(fmt.Sprintf("%d. %s:\n   - [Brief evaluation point]\n   - [Brief evaluation point]\n\n", i+1, criterion.Name))
	}

	excerpt := in.ReportText
	if runes := []rune(excerpt); len(runes) > reportExcerptLimit {
		excerpt = string(runes[:reportExcerptLimit])
	}

	return fmt.Sprintf(`You are an expert project evaluator. Evaluate this project and provide a concise, well-formatted evaluation.

PROJECT DETAILS:
- Project Name: %s
- Repository Link: %s
- Team: %s

PROJECT REPORT EXCERPT:
%s

EVALUATION CRITERIA:
%sTotal Available: %d marks

INSTRUCTIONS:
1. Provide a total score out of %d marks
2. Give brief, clear feedback for each criterion
3. Keep your response concise and well-organized
4. Use bullet points for clarity

FORMAT YOUR RESPONSE EXACTLY LIKE THIS:

SCORE: [Your score out of %d]

EVALUATION SUMMARY:
[2-3 sentences summarizing the overall project quality]

DETAILED FEEDBACK:

%sSTRENGTHS:
- [Key strength]
- [Key strength]

AREAS FOR IMPROVEMENT:
- [Improvement suggestion]
- [Improvement suggestion]

Keep each point concise (1 line). Total response should be clear and easy to read.
`,
		in.ProjectName,
		in.RepoLink,
		in.TeamName,
		excerpt,
		criteriaLines.String(),
		totalMarks,
		totalMarks,
		totalMarks,
		feedbackSkeleton.String(),
	)
}
