package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAMLPreservesOrder(t *testing.T) {
	p, err := Parse([]byte(`
identity:
  name: Sam Rivera
  pronouns: they/them
work:
  role: Student
  courses: [CS 320, MATH 235]
goals: Ship the capstone
`), "sam")
	require.NoError(t, err)

	assert.Equal(t, []string{"identity", "work", "goals"}, p.Categories())
	assert.Equal(t, "Sam Rivera", p.DisplayName())

	work, ok := p.Category("work")
	require.True(t, ok)
	assert.True(t, work.IsMapping())
	assert.Equal(t, []Field{{"role", "Student"}, {"courses", "CS 320, MATH 235"}}, work.Fields)

	goals, ok := p.Category("goals")
	require.True(t, ok)
	assert.False(t, goals.IsMapping())
	assert.Equal(t, "Ship the capstone", goals.Scalar)
}

func TestParseJSONWithWrapper(t *testing.T) {
	p, err := Parse([]byte(`{"profile": {"location": {"city": "Amherst"}, "schedule": "Early riser"}}`), "sam")
	require.NoError(t, err)
	assert.Equal(t, []string{"location", "schedule"}, p.Categories())
	assert.Equal(t, "sam", p.DisplayName())
}

func TestParseKeepsProfileKeyWithSiblings(t *testing.T) {
	doc := "profile:\n  bio: CS junior\nWork:\n  role: TA\n"
	p, err := Parse([]byte(doc), "sam")
	require.NoError(t, err)
	assert.Equal(t, []string{"profile", "Work"}, p.Categories())

	work, ok := p.Category("work")
	require.True(t, ok)
	assert.Equal(t, "Work", work.Name)
	assert.Equal(t, []Field{{"role", "TA"}}, work.Fields)

	_, ok = p.Category(" PROFILE ")
	assert.True(t, ok)
}

func TestParseRejectsNonMapping(t *testing.T) {
	_, err := Parse([]byte(`- a`), "x")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	require.NoError(t, os.WriteFile(path, []byte("identity:\n  name: Ada\n"), 0o644))
	p, err := Load(path, "ada")
	require.NoError(t, err)
	assert.False(t, p.Empty())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), "ada")
	assert.Error(t, err)
}
