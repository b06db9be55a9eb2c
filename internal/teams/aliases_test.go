package teams

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_NamesMatch(t *testing.T) {
	r := NewDefaultResolver()

	tests := []struct {
		a, b  string
		match bool
	}{
		{"Duke", "Duke Blue Devils", true},
		{"UNC", "North Carolina Tar Heels", true},
		{"North Carolina", "UNC", true},
		{"Tennessee St", "Tennessee State Tigers", true},
		{"Memphis", "Memphis Tigers", true},
		{"St. Louis", "Saint Louis", true},
		{"SLU", "Saint Louis Billikens", true},
		{"duke", "DUKE", true},
		{"Tennessee State", "Memphis", false},
		{"Tennessee State Tigers", "Memphis Tigers", false},
		{"North Carolina", "NC State", false},
		{"Duke", "", false},
		{"", "", false},
		{"Some Unknown College", "Some Unknown College", true},
		{"Some Unknown College", "Other Unknown College", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.match, r.NamesMatch(tt.a, tt.b))
			assert.Equal(t, tt.match, r.NamesMatch(tt.b, tt.a), "NamesMatch should be symmetric")
		})
	}
}

func TestResolver_EquivalentKeys(t *testing.T) {
	r := NewResolver([]string{"Duke", "Duke Blue Devils"})

	assert.ElementsMatch(t, []string{"duke", "dukebluedevils"}, r.EquivalentKeys("Duke"))
	assert.ElementsMatch(t, []string{"duke", "dukebluedevils"}, r.EquivalentKeys("DUKE BLUE DEVILS"))
	assert.Equal(t, []string{"memphis"}, r.EquivalentKeys("Memphis"), "Unknown names map to their own key")
	assert.Nil(t, r.EquivalentKeys("  "))
}

func TestResolver_MergesOverlappingGroups(t *testing.T) {
	r := NewResolver(
		[]string{"Saint Louis", "SLU"},
		[]string{"St. Louis", "SLU"},
	)

	assert.Equal(t, 1, r.Size(), "Groups sharing a member should merge")
	assert.True(t, r.NamesMatch("Saint Louis", "St. Louis"))
}

func TestResolver_EquivalentKeysReturnsCopy(t *testing.T) {
	r := NewResolver([]string{"Duke", "Duke Blue Devils"})

	keys := r.EquivalentKeys("Duke")
	keys[0] = "mutated"

	assert.NotContains(t, r.EquivalentKeys("Duke"), "mutated")
}

func TestLoadAliasFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	content := `groups:
  - [Saint Peter's, St. Peter's, Saint Peter's Peacocks]
  - ["Loyola Chicago", "Loyola (IL)", "Loyola-Chicago Ramblers"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	groups, err := LoadAliasFile(path)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	r := NewDefaultResolver(groups...)
	assert.True(t, r.NamesMatch("Loyola Chicago", "Loyola (IL)"))
	assert.True(t, r.NamesMatch("St. Peter's", "Saint Peter's Peacocks"))
}

func TestLoadAliasFile_Missing(t *testing.T) {
	_, err := LoadAliasFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
