package prompts

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// DefaultKey is the module key of the fallback template.
const DefaultKey = "default"

// Registry maps module keys to prompt templates. Lookups never fail: unknown
// keys resolve to the default template.
type Registry struct {
	templates map[string]*Template
	order     []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRegistry builds a registry with the built-in course module templates and
// a time-seeded random source for follow-up question selection.
func NewRegistry() *Registry {
	return NewRegistryWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewRegistryWithRand builds a registry that draws follow-up questions from
// rng. Tests pass a seeded source to make draws reproducible.
func NewRegistryWithRand(rng *rand.Rand) *Registry {
	r := &Registry{
		templates: make(map[string]*Template, len(builtinTemplates)),
		rng:       rng,
	}
	for i := range builtinTemplates {
		t := &builtinTemplates[i]
		r.templates[t.Key] = t
		if t.Key != DefaultKey {
			r.order = append(r.order, t.Key)
		}
	}
	return r
}

// Resolve returns the template for moduleKey, or the default template when the
// key is unknown.
func (r *Registry) Resolve(moduleKey string) *Template {
	if t, ok := r.templates[moduleKey]; ok {
		return t
	}
	return r.templates[DefaultKey]
}

// ModuleKeys returns the registered module keys in registration order,
// excluding the default.
func (r *Registry) ModuleKeys() []string {
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// BuildSystemPrompt assembles the full system prompt for one chat turn: the
// resolved template's prompt, a course line, an optional student-context line,
// and a closing reminder. Deterministic for a given input triple.
func (r *Registry) BuildSystemPrompt(courseCode, moduleKey, studentContext string) string {
	t := r.Resolve(moduleKey)

	var b strings.Builder
	b.WriteString(t.SystemPrompt)
	b.WriteString("\n\nCourse: ")
	b.WriteString(courseCode)
	b.WriteString("\n")
	if studentContext != "" {
		b.WriteString("Student Context: ")
		b.WriteString(studentContext)
		b.WriteString("\n")
	}
	b.WriteString("\nRemember: Be supportive, clear, and educational. Adapt to the student's level.")
	return b.String()
}

// PickFollowUpQuestion draws one follow-up question uniformly at random from
// the resolved template's set. The second return value is false only when the
// template has no questions.
func (r *Registry) PickFollowUpQuestion(moduleKey string) (string, bool) {
	t := r.Resolve(moduleKey)
	if len(t.FollowUpQuestions) == 0 {
		return "", false
	}

	r.mu.Lock()
	idx := r.rng.Intn(len(t.FollowUpQuestions))
	r.mu.Unlock()

	return t.FollowUpQuestions[idx], true
}
