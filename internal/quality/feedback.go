package quality

import (
	"fmt"

	"ml-course-assistant/backend/internal/models"
)

// feedbackRule maps one dimension's score to a three-tier annotated line.
// Clarity, completeness, and accuracy use 80/60 tier cutoffs; engagement and
// pedagogy use 70/50.
type feedbackRule struct {
	name     string
	get      func(models.DimensionScores) int
	high     int
	mid      int
	highMsg  string
	midMsg   string
	lowMsg   string
}

var feedbackRules = []feedbackRule{
	{
		name: "Clarity", high: 80, mid: 60,
		get:     func(d models.DimensionScores) int { return d.Clarity },
		highMsg: "excellent structure and readable sentences",
		midMsg:  "mostly clear, could use shorter sentences or more signposting",
		lowMsg:  "hard to follow, break up long sentences and define terms",
	},
	{
		name: "Completeness", high: 80, mid: 60,
		get:     func(d models.DimensionScores) int { return d.Completeness },
		highMsg: "thorough coverage with examples and reasoning",
		midMsg:  "covers the basics, could add examples or explain why",
		lowMsg:  "too thin, expand the answer and add a worked example",
	},
	{
		name: "Accuracy", high: 80, mid: 60,
		get:     func(d models.DimensionScores) int { return d.Accuracy },
		highMsg: "confident and grounded in course terminology",
		midMsg:  "reasonably grounded, could be more specific",
		lowMsg:  "vague or hedged, use precise ML terminology",
	},
	{
		name: "Engagement", high: 70, mid: 50,
		get:     func(d models.DimensionScores) int { return d.Engagement },
		highMsg: "actively involves the student",
		midMsg:  "somewhat engaging, try asking the student a question",
		lowMsg:  "reads like a lecture, address the student directly",
	},
	{
		name: "Pedagogy", high: 70, mid: 50,
		get:     func(d models.DimensionScores) int { return d.Pedagogy },
		highMsg: "strong teaching technique",
		midMsg:  "some teaching structure, consider an analogy or summary",
		lowMsg:  "add sequencing, analogies, or a recap to teach rather than tell",
	},
}

// Feedback produces one human-readable line per dimension, in the fixed
// dimension order, annotated with the dimension score.
func Feedback(score models.QualityScore) []string {
	lines := make([]string, 0, len(feedbackRules))
	for _, r := range feedbackRules {
		v := r.get(score.Dimensions)
		msg := r.lowMsg
		switch {
		case v >= r.high:
			msg = r.highMsg
		case v >= r.mid:
			msg = r.midMsg
		}
		lines = append(lines, fmt.Sprintf("%s (%d/100): %s", r.name, v, msg))
	}
	return lines
}
