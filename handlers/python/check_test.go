package pythonhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqpin/environment"
	"reqpin/utils"
)

func TestCheckCompatibility(t *testing.T) {
	t.Parallel()
	index := environment.NewStaticIndex([]utils.Dependency{
		{Name: "Flask", Version: "3.0.0"},
		{Name: "requests", Version: "2.31.0"},
		{Name: "numpy", Version: "1.26.4"},
		{Name: "weird", Version: "not-a-version"},
		{Name: "beta", Version: "2.0b1"},
	})

	res := CheckCompatibility([]string{
		"# comment",
		"",
		"--index-url https://example.org/simple",
		"flask<3",
		"Requests>=2.0,<3 --hash=sha256:abc",
		"numpy==1.26.4",
		"leftpad",
		"weird>=1",
		"beta",
		"broken[",
		"pkg @ https://example.org/pkg.zip",
	}, index, nil)

	require.Len(t, res.Incompatibilities, 2)
	assert.Equal(t, "flask 3.0.0 does not satisfy flask<3", res.Incompatibilities[0].String())
	assert.Equal(t, "beta 2.0b1 does not satisfy beta", res.Incompatibilities[1].String())
	assert.Equal(t, []string{"leftpad"}, res.Missing)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0].Error(), "error processing requirement weird>=1")
	assert.Contains(t, res.Errors[1].Error(), "error processing requirement broken[")
	assert.False(t, res.Compatible())
}

func TestCheckCompatibilityAfterPinning(t *testing.T) {
	t.Parallel()
	index := testIndex()
	res := Update([]string{"flask<3", "requests", "numpy>=2"}, index, nil, nil)
	check := CheckCompatibility(res.Updated, index, nil)
	assert.True(t, check.Compatible())
	assert.Empty(t, check.Errors)
}
