package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveExactMatch(t *testing.T) {
	m := NewMatcher()
	got, ok := m.Resolve("Daniel", []string{"Ann", "Daniel", "Ben"})
	assert.True(t, ok)
	assert.Equal(t, "Daniel", got)
}

func TestResolveToleratesMisspelling(t *testing.T) {
	m := NewMatcher()
	got, ok := m.Resolve("Danial", []string{"Ann", "Daniel"})
	assert.True(t, ok)
	assert.Equal(t, "Daniel", got)
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	m := NewMatcher()
	got, ok := m.Resolve("HOUSTON", []string{"houston"})
	assert.True(t, ok)
	assert.Equal(t, "houston", got)
}

func TestResolvePicksBestCandidate(t *testing.T) {
	m := NewMatcher()
	got, ok := m.Resolve("Danil", []string{"David", "Daniel"})
	assert.True(t, ok)
	assert.Equal(t, "Daniel", got)
}

func TestResolveRejectsDissimilarName(t *testing.T) {
	m := NewMatcher()
	_, ok := m.Resolve("xyz", []string{"Daniel", "Houston"})
	assert.False(t, ok)
}

func TestResolveEmptyCandidates(t *testing.T) {
	m := NewMatcher()
	_, ok := m.Resolve("Daniel", nil)
	assert.False(t, ok)
}

func TestResolveZeroCutoffFallsBackToDefault(t *testing.T) {
	m := Matcher{}
	_, ok := m.Resolve("xyz", []string{"Daniel"})
	assert.False(t, ok)
}
