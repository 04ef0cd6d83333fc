package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ml-course-assistant/backend/internal/models"
)

func TestFeedbackTiers(t *testing.T) {
	score := models.QualityScore{
		Dimensions: models.DimensionScores{
			Clarity:      85,
			Completeness: 65,
			Accuracy:     40,
			Engagement:   75,
			Pedagogy:     55,
		},
	}

	lines := Feedback(score)
	assert.Len(t, lines, 5)

	assert.Equal(t, "Clarity (85/100): excellent structure and readable sentences", lines[0])
	assert.Equal(t, "Completeness (65/100): covers the basics, could add examples or explain why", lines[1])
	assert.Equal(t, "Accuracy (40/100): vague or hedged, use precise ML terminology", lines[2])
	assert.Equal(t, "Engagement (75/100): actively involves the student", lines[3])
	assert.Equal(t, "Pedagogy (55/100): some teaching structure, consider an analogy or summary", lines[4])
}

func TestFeedbackBoundaryValues(t *testing.T) {
	// Tier cutoffs are inclusive: 80/60 for the first three dimensions,
	// 70/50 for engagement and pedagogy.
	score := models.QualityScore{
		Dimensions: models.DimensionScores{
			Clarity:      80,
			Completeness: 60,
			Accuracy:     59,
			Engagement:   70,
			Pedagogy:     50,
		},
	}

	lines := Feedback(score)
	assert.Contains(t, lines[0], "excellent structure")
	assert.Contains(t, lines[1], "covers the basics")
	assert.Contains(t, lines[2], "vague or hedged")
	assert.Contains(t, lines[3], "actively involves")
	assert.Contains(t, lines[4], "some teaching structure")
}
