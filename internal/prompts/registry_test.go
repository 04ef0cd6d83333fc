package prompts

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFallsBackToDefault(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, "regression", r.Resolve("regression").Key)
	assert.Equal(t, DefaultKey, r.Resolve("quantumComputing").Key)
	assert.Equal(t, DefaultKey, r.Resolve("").Key)
}

func TestModuleKeysExcludeDefaultAndKeepOrder(t *testing.T) {
	r := NewRegistry()

	keys := r.ModuleKeys()
	assert.Equal(t, []string{
		"supervisedLearning",
		"regression",
		"classification",
		"evaluation",
		"regularization",
	}, keys)
	assert.NotContains(t, keys, DefaultKey)
}

func TestBuildSystemPrompt(t *testing.T) {
	r := NewRegistry()

	prompt := r.BuildSystemPrompt("CS229", "regression", "struggling with gradient descent")

	assert.True(t, strings.HasPrefix(prompt, r.Resolve("regression").SystemPrompt))
	assert.Contains(t, prompt, "\n\nCourse: CS229\n")
	assert.Contains(t, prompt, "Student Context: struggling with gradient descent\n")
	assert.True(t, strings.HasSuffix(prompt, "Adapt to the student's level."))
}

func TestBuildSystemPromptWithoutStudentContext(t *testing.T) {
	r := NewRegistry()

	prompt := r.BuildSystemPrompt("CS229", "classification", "")

	assert.NotContains(t, prompt, "Student Context:")
	assert.Contains(t, prompt, "Course: CS229")
}

func TestBuildSystemPromptIsDeterministic(t *testing.T) {
	r := NewRegistry()

	a := r.BuildSystemPrompt("ML101", "evaluation", "visual learner")
	b := r.BuildSystemPrompt("ML101", "evaluation", "visual learner")
	assert.Equal(t, a, b)
}

func TestPickFollowUpQuestion(t *testing.T) {
	r := NewRegistryWithRand(rand.New(rand.NewSource(42)))

	questions := r.Resolve("supervisedLearning").FollowUpQuestions
	for i := 0; i < 20; i++ {
		q, ok := r.PickFollowUpQuestion("supervisedLearning")
		assert.True(t, ok)
		assert.Contains(t, questions, q)
	}
}

func TestPickFollowUpQuestionUnknownModuleUsesDefault(t *testing.T) {
	r := NewRegistryWithRand(rand.New(rand.NewSource(1)))

	q, ok := r.PickFollowUpQuestion("unknownModule")
	assert.True(t, ok)
	assert.Contains(t, r.Resolve(DefaultKey).FollowUpQuestions, q)
}

func TestSystemPromptsCarryRefusalInstruction(t *testing.T) {
	r := NewRegistry()

	for _, key := range append(r.ModuleKeys(), DefaultKey) {
		assert.Contains(t, r.Resolve(key).SystemPrompt, RefusalText, "module %s", key)
	}
}
