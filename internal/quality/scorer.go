// Package quality scores assistant responses along five weighted dimensions
// using a fixed heuristic rule set. Scoring is a pure function of the response
// text: no I/O, no state, identical input gives identical output.
package quality

import (
	"math"
	"regexp"
	"strings"

	"ml-course-assistant/backend/internal/models"
)

// Dimension weights. They sum to 1.0.
const (
	WeightClarity      = 0.20
	WeightCompleteness = 0.25
	WeightAccuracy     = 0.25
	WeightEngagement   = 0.15
	WeightPedagogy     = 0.15
)

// features caches the lexical and structural signals extracted from one
// response so every rule can test them without rescanning the text.
type features struct {
	text            string
	lower           string
	length          int
	sentenceCount   int
	wordCount       int
	avgWordsPerSent float64
	longWordRatio   float64
	questionMarks   int
	techTermCount   int
	hedgeCount      int
	aspectCount     int
}

// rule awards a fixed number of points when its predicate holds.
type rule struct {
	points int
	match  func(f *features) bool
}

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	numericOrMath = regexp.MustCompile(`[0-9]|=`)

	whatPattern    = regexp.MustCompile(`\bwhat\b`)
	whyPattern     = regexp.MustCompile(`\bwhy\b|because`)
	howPattern     = regexp.MustCompile(`\bhow\b`)
	examplePattern = regexp.MustCompile(`example|for instance|such as`)
)

var clarifyingPhrases = []string{"means", "in other words", "simply put"}

var examplePhrases = []string{"example", "for instance", "such as"}

var causalPhrases = []string{"because", "the reason"}

var techTerms = []string{
	"algorithm", "model", "data", "training", "testing",
	"feature", "parameter", "prediction", "classification", "regression",
	"accuracy", "loss", "optimization", "gradient",
}

var hedgeWords = []string{
	"maybe", "perhaps", "might be", "possibly", "i think", "not sure", "probably",
}

var secondPersonPhrases = []string{"you", "your", "we", "let's"}

var emphasisWords = []string{"important", "key", "crucial", "essential", "remember", "note that"}

var realWorldPhrases = []string{"real-world", "real world", "in practice", "application", "industry", "everyday"}

var sequencingWords = []string{"first", "second", "next", "then", "finally"}

var analogyPhrases = []string{"like a", "similar to", "think of", "imagine", "analogy"}

var callbackPhrases = []string{"previous", "earlier", "recall", "we learned", "as we saw"}

var practicePhrases = []string{"try", "practice", "exercise", "experiment", "hands-on"}

var misconceptionPhrases = []string{"common mistake", "misconception", "be careful", "watch out", "don't confuse"}

var summaryPhrases = []string{"in summary", "to summarize", "in short", "to recap", "overall"}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func countOccurrences(lower string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		n += strings.Count(lower, p)
	}
	return n
}

func extractFeatures(text string) *features {
	lower := strings.ToLower(text)

	var sentences []string
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences = append(sentences, s)
		}
	}
	words := strings.Fields(text)

	avg := 0.0
	if len(sentences) > 0 {
		avg = float64(len(words)) / float64(len(sentences))
	}

	longWords := 0
	for _, w := range words {
		if len(w) > 12 {
			longWords++
		}
	}
	longRatio := 0.0
	if len(words) > 0 {
		longRatio = float64(longWords) / float64(len(words))
	}

	terms := 0
	for _, t := range techTerms {
		if strings.Contains(lower, t) {
			terms++
		}
	}

	aspects := 0
	for _, p := range []*regexp.Regexp{whatPattern, whyPattern, howPattern, examplePattern} {
		if p.MatchString(lower) {
			aspects++
		}
	}

	return &features{
		text:            text,
		lower:           lower,
		length:          len(text),
		sentenceCount:   len(sentences),
		wordCount:       len(words),
		avgWordsPerSent: avg,
		longWordRatio:   longRatio,
		questionMarks:   strings.Count(text, "?"),
		techTermCount:   terms,
		hedgeCount:      countOccurrences(lower, hedgeWords),
		aspectCount:     aspects,
	}
}

// clarityRules rewards digestible structure: enough sentences, sentence
// lengths in a readable band, visual breaks, plain vocabulary, and explicit
// clarification phrases.
var clarityRules = []rule{
	{20, func(f *features) bool { return f.sentenceCount >= 3 }},
	{20, func(f *features) bool { return f.sentenceCount > 0 && f.avgWordsPerSent < 25 }},
	{15, func(f *features) bool { return f.avgWordsPerSent > 8 }},
	{15, func(f *features) bool { return strings.ContainsAny(f.text, "\n:") }},
	{15, func(f *features) bool { return f.wordCount > 0 && f.longWordRatio < 0.15 }},
	{15, func(f *features) bool { return containsAny(f.lower, clarifyingPhrases) }},
}

// completenessRules rewards substance: a reasonable length band, worked
// examples, causal reasoning, and coverage of the what/why/how/example
// rhetorical aspects (10 points each).
var completenessRules = []rule{
	{20, func(f *features) bool { return f.length > 150 }},
	{15, func(f *features) bool { return f.length > 400 }},
	{10, func(f *features) bool { return f.length > 0 && f.length < 2000 }},
	{20, func(f *features) bool { return containsAny(f.lower, examplePhrases) }},
	{15, func(f *features) bool { return containsAny(f.lower, causalPhrases) }},
	{10, func(f *features) bool { return f.aspectCount >= 1 }},
	{10, func(f *features) bool { return f.aspectCount >= 2 }},
	{10, func(f *features) bool { return f.aspectCount >= 3 }},
	{10, func(f *features) bool { return f.aspectCount >= 4 }},
}

// accuracyRules rewards domain grounding: ML terminology (8 points per
// distinct term, capped at 40), confident phrasing, numeric or formula
// content, and dataset/hyperparameter specificity. Hedging is penalized
// separately in accuracyPenalty.
var accuracyRules = []rule{
	{8, func(f *features) bool { return f.techTermCount >= 1 }},
	{8, func(f *features) bool { return f.techTermCount >= 2 }},
	{8, func(f *features) bool { return f.techTermCount >= 3 }},
	{8, func(f *features) bool { return f.techTermCount >= 4 }},
	{8, func(f *features) bool { return f.techTermCount >= 5 }},
	{20, func(f *features) bool { return f.length > 0 && f.hedgeCount == 0 }},
	{20, func(f *features) bool { return numericOrMath.MatchString(f.text) }},
	{20, func(f *features) bool {
		return strings.Contains(f.lower, "dataset") || strings.Contains(f.lower, "hyperparameter")
	}},
}

// accuracyPenalty subtracts 10 points per hedging-word occurrence, capped at
// 30. The dimension total is floored at 0 afterwards.
func accuracyPenalty(f *features) int {
	penalty := f.hedgeCount * 10
	if penalty > 30 {
		penalty = 30
	}
	return penalty
}

// engagementRules rewards student involvement: questions back to the student
// (15 points each, capped at 30), direct address, emphasis, real-world
// framing, and enough varied material to hold attention.
var engagementRules = []rule{
	{15, func(f *features) bool { return f.questionMarks >= 1 }},
	{15, func(f *features) bool { return f.questionMarks >= 2 }},
	{25, func(f *features) bool { return containsAny(f.lower, secondPersonPhrases) }},
	{15, func(f *features) bool { return containsAny(f.lower, emphasisWords) }},
	{15, func(f *features) bool { return containsAny(f.lower, realWorldPhrases) }},
	{15, func(f *features) bool { return f.sentenceCount >= 2 && f.wordCount >= 40 }},
}

// pedagogyRules rewards teaching technique: sequencing, analogies, callbacks
// to prior learning, practice prompts, misconception corrections, and
// summaries.
var pedagogyRules = []rule{
	{20, func(f *features) bool { return containsAny(f.lower, sequencingWords) }},
	{20, func(f *features) bool { return containsAny(f.lower, analogyPhrases) }},
	{15, func(f *features) bool { return containsAny(f.lower, callbackPhrases) }},
	{15, func(f *features) bool { return containsAny(f.lower, practicePhrases) }},
	{15, func(f *features) bool { return containsAny(f.lower, misconceptionPhrases) }},
	{15, func(f *features) bool { return containsAny(f.lower, summaryPhrases) }},
}

func scoreDimension(f *features, rules []rule, penalty func(*features) int) int {
	total := 0
	for _, r := range rules {
		if r.match(f) {
			total += r.points
		}
	}
	if penalty != nil {
		total -= penalty(f)
	}
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	return total
}

// Score evaluates a response text and returns its quality assessment. It is
// total: degenerate input (empty or whitespace text) yields zero-leaning
// scores rather than an error.
func Score(text string) models.QualityScore {
	f := extractFeatures(text)

	dims := models.DimensionScores{
		Clarity:      scoreDimension(f, clarityRules, nil),
		Completeness: scoreDimension(f, completenessRules, nil),
		Accuracy:     scoreDimension(f, accuracyRules, accuracyPenalty),
		Engagement:   scoreDimension(f, engagementRules, nil),
		Pedagogy:     scoreDimension(f, pedagogyRules, nil),
	}

	overall := int(math.Round(
		float64(dims.Clarity)*WeightClarity +
			float64(dims.Completeness)*WeightCompleteness +
			float64(dims.Accuracy)*WeightAccuracy +
			float64(dims.Engagement)*WeightEngagement +
			float64(dims.Pedagogy)*WeightPedagogy,
	))
	if overall < 0 {
		overall = 0
	}
	if overall > 100 {
		overall = 100
	}

	return models.QualityScore{
		Overall:    overall,
		Dimensions: dims,
		Weights: models.DimensionWeights{
			Clarity:      WeightClarity,
			Completeness: WeightCompleteness,
			Accuracy:     WeightAccuracy,
			Engagement:   WeightEngagement,
			Pedagogy:     WeightPedagogy,
		},
	}
}
