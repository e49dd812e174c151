package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderConfidence renders a model confidence score as [████░░░░]  45%.
// Scores from the medium band up are yellow, high scores green.
func RenderConfidence(score float64, width int) string {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(score * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case score < 0.5:
		style = StyleRed
	case score < 0.8:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), score*100)
}

// RenderQuestionBudget renders "2/5 asked" with dots for the remaining budget.
func RenderQuestionBudget(asked, max int) string {
	if max <= 0 {
		return Dim("no questions")
	}
	if asked > max {
		asked = max
	}
	dots := StyleYellow.Render(strings.Repeat("●", asked)) + StyleDim.Render(strings.Repeat("○", max-asked))
	return fmt.Sprintf("%s %d/%d asked", dots, asked, max)
}
