package pep440

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecifierSetContains(t *testing.T) {
	t.Parallel()
	tests := []struct {
		spec     string
		version  string
		expected bool
	}{
		// empty set admits final releases only
		{"", "1.0", true},
		{"", "1.0rc1", false},

		{"==1.0", "1.0", true},
		{"==1.0", "1.0.0", true},
		{"==1.0", "1.0+local", true},
		{"==1.0+local", "1.0", false},
		{"==1.0+local", "1.0+local", true},
		{"==1.0", "1.0.1", false},
		{"==1.*", "1.4.2", true},
		{"==1.*", "2.0", false},
		{"==1.0.*", "1.0", true},
		{"==1.0.0.*", "1", true},
		{"==1.1.*", "1.1.0.post1", true},
		{"!=1.1.*", "1.1.3", false},
		{"!=1.1.*", "1.2", true},
		{"!=2.0", "2.0.1", true},

		{">=1.0", "1.0", true},
		{">=1.0", "0.9", false},
		{">=1.0", "1.0+local", true},
		{"<=1.0", "1.0+local", true},
		{"<=1.0", "1.0.1", false},

		{"<2.0", "1.9", true},
		{"<2.0", "2.0", false},
		{"<2.0", "2.0rc1", false},
		{"<2.0rc1", "2.0b1", false},
		{">1.0", "1.1", true},
		{">1.0", "1.0.post1", false},
		{">1.0.post1", "1.0.post2", true},
		{">1.0", "1.0+local", false},

		{"~=2.2", "2.3", true},
		{"~=2.2", "3.0", false},
		{"~=2.2", "2.1", false},
		{"~=1.4.5", "1.4.9", true},
		{"~=1.4.5", "1.5.0", false},
		{"~=1.4.5a4", "1.4.5", true},
		{"~=1.4.5a4", "1.4.5a5", true},
		{"~=2.2.post3", "2.9", true},

		{"===1.0", "1.0", true},
		{"===1.0", "1.0.0", false},

		// pre-releases need an explicit opt-in
		{">=1.0", "2.0b1", false},
		{">=2.0b1", "2.0b2", true},
		{"==2.0rc1", "2.0rc1", true},
		{">=1.0,<2.0", "1.5", true},
		{">=1.0,<2.0", "2.5", false},
		{">=1.0,!=1.5", "1.5", false},
	}

	for _, tt := range tests {
		t.Run(tt.spec+"/"+tt.version, func(t *testing.T) {
			t.Parallel()
			set, err := ParseSpecifierSet(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, set.Contains(MustParse(tt.version)))
		})
	}
}

func TestParseSpecifierInvalid(t *testing.T) {
	t.Parallel()
	for _, input := range []string{
		"1.0",
		"=>1.0",
		"~=1",
		">=1.*",
		"==1.0a1.*",
		">=1.0+local",
		"==abc",
		">=1.0,",
	} {
		_, err := ParseSpecifierSet(input)
		assert.Error(t, err, input)
	}
}

func TestSpecifierSetString(t *testing.T) {
	t.Parallel()
	set, err := ParseSpecifierSet(" <2.0 , >=1.0, !=1.5.* ")
	require.NoError(t, err)
	assert.Equal(t, "!=1.5.*,<2.0,>=1.0", set.String())

	empty, err := ParseSpecifierSet("")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, "", empty.String())
}

func TestSpecifierPrereleases(t *testing.T) {
	t.Parallel()
	tests := []struct {
		spec     string
		expected bool
	}{
		{">=1.0", false},
		{">=1.0a1", true},
		{"<1.0a1", false},
		{"==1.0.dev1", true},
		{"!=1.0a1", false},
		{"~=1.0rc1", true},
	}
	for _, tt := range tests {
		spec, err := ParseSpecifier(tt.spec)
		require.NoError(t, err, tt.spec)
		assert.Equal(t, tt.expected, spec.Prereleases(), tt.spec)
	}
}
