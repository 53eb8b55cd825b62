package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"hello", "hello", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"a", "ab", 1},
		{"ab", "a", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Hello", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.expected, Levenshtein(tt.b, tt.a))
		})
	}
}

func TestNormalizeIdent(t *testing.T) {
	assert.Equal(t, "firstname", NormalizeIdent("first_name"))
	assert.Equal(t, "firstname", NormalizeIdent("FirstName"))
	assert.Equal(t, "firstname", NormalizeIdent("first-name"))
	assert.Empty(t, NormalizeIdent("__"))
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("first_name", "firstName"), 1e-9)
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.Greater(t, Similarity("emailAddress", "email"), Similarity("emailAddress", "zip"))
}

func TestSuggest(t *testing.T) {
	members := []string{"firstName", "lastName", "birthDate", "email"}

	assert.Equal(t, []string{"firstName", "lastName"}, Suggest("first_name", members))
	assert.Equal(t, []string{"lastName"}, Suggest("lastname2", members))
	assert.Empty(t, Suggest("zzz", members))
}

func TestCandidateListOrdering(t *testing.T) {
	list := Rank("name", []string{"nome", "name", "names"})
	assert.Equal(t, "name", list[0].Name)
	assert.Len(t, list.Top(2), 2)
	assert.Len(t, list.Top(10), 3)
}
