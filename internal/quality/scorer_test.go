package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const richResponse = `Great question! Let's break down how a supervised learning model works.

First, the algorithm learns from labeled training data. For example, imagine teaching
a child to recognize fruit: you show them 100 labeled pictures, and they learn the
features that matter. This is similar to how the model adjusts its parameters during
training. Because the model only sees the training dataset, we keep a separate testing
set to measure accuracy honestly.

In summary, the key idea is: train on one dataset, evaluate on another. A common mistake
is evaluating on the training data, which inflates accuracy to 95% or more.

Can you think of a real-world application where this split matters? Try designing one
as an exercise.`

const poorResponse = "Maybe it works somehow."

func TestScoreReturnsValuesInRange(t *testing.T) {
	for _, text := range []string{richResponse, poorResponse, "", "short.", "no punctuation at all"} {
		score := Score(text)

		for name, v := range map[string]int{
			"overall":      score.Overall,
			"clarity":      score.Dimensions.Clarity,
			"completeness": score.Dimensions.Completeness,
			"accuracy":     score.Dimensions.Accuracy,
			"engagement":   score.Dimensions.Engagement,
			"pedagogy":     score.Dimensions.Pedagogy,
		} {
			assert.GreaterOrEqual(t, v, 0, "%s for %q", name, text)
			assert.LessOrEqual(t, v, 100, "%s for %q", name, text)
		}
	}
}

func TestScoreEmptyTextIsZero(t *testing.T) {
	score := Score("")

	assert.Equal(t, 0, score.Overall)
	assert.Equal(t, 0, score.Dimensions.Clarity)
	assert.Equal(t, 0, score.Dimensions.Completeness)
	assert.Equal(t, 0, score.Dimensions.Accuracy)
	assert.Equal(t, 0, score.Dimensions.Engagement)
	assert.Equal(t, 0, score.Dimensions.Pedagogy)
}

func TestScoreIsDeterministic(t *testing.T) {
	assert.Equal(t, Score(richResponse), Score(richResponse))
}

func TestScoreOrdersRichAbovePoor(t *testing.T) {
	rich := Score(richResponse)
	poor := Score(poorResponse)

	assert.Greater(t, rich.Overall, poor.Overall)
	assert.Greater(t, rich.Dimensions.Completeness, poor.Dimensions.Completeness)
	assert.Greater(t, rich.Dimensions.Pedagogy, poor.Dimensions.Pedagogy)
}

func TestAccuracyHedgingPenalty(t *testing.T) {
	confident := "The algorithm trains the model on data. Feature values feed the prediction. Accuracy measures performance."
	hedged := "Maybe the algorithm trains the model on data. Perhaps feature values feed the prediction. Accuracy might be a measure."

	c := Score(confident).Dimensions.Accuracy
	h := Score(hedged).Dimensions.Accuracy
	assert.Greater(t, c, h)
}

func TestAccuracyPenaltyIsCapped(t *testing.T) {
	f := extractFeatures("maybe maybe maybe maybe maybe maybe")
	assert.Equal(t, 30, accuracyPenalty(f))
}

func TestAccuracyNeverNegative(t *testing.T) {
	score := Score("maybe, perhaps, possibly, probably, not sure, i think.")
	assert.GreaterOrEqual(t, score.Dimensions.Accuracy, 0)
}

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightClarity + WeightCompleteness + WeightAccuracy + WeightEngagement + WeightPedagogy
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestScoreWeightsReported(t *testing.T) {
	score := Score(richResponse)

	assert.InDelta(t, WeightClarity, score.Weights.Clarity, 1e-9)
	assert.InDelta(t, WeightAccuracy, score.Weights.Accuracy, 1e-9)
}

func TestEngagementRewardsQuestions(t *testing.T) {
	withQuestion := Score("The model learns from data. What do you think happens next? How would you test it?")
	without := Score("The model learns from data. It then gets tested.")

	assert.Greater(t, withQuestion.Dimensions.Engagement, without.Dimensions.Engagement)
}
