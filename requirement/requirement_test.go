package requirement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	assert.Equal(t, KindBlank, Classify(""))
	assert.Equal(t, KindComment, Classify("# pinned by hand"))
	assert.Equal(t, KindOption, Classify("-r base.txt"))
	assert.Equal(t, KindOption, Classify("--index-url https://example.org/simple"))
	assert.Equal(t, KindRequirement, Classify("requests>=2"))
	assert.Equal(t, "option", KindOption.String())
}

func TestSplit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line  string
		spec  string
		flags string
	}{
		{"requests", "requests", ""},
		{"requests>=2.0", "requests>=2.0", ""},
		{"requests >= 2.0", "requests >= 2.0", ""},
		{"numpy==1.26.0 --hash=sha256:abc", "numpy==1.26.0", "--hash=sha256:abc"},
		{"numpy   --hash=sha256:abc    --hash=sha256:def", "numpy", "--hash=sha256:abc --hash=sha256:def"},
		{"flask # web framework", "flask", "# web framework"},
		{`pywin32; sys_platform == "win32"  # windows only`, `pywin32; sys_platform == "win32"`, "# windows only"},
		{"pkg @ https://example.org/pkg.zip#egg=pkg", "pkg @ https://example.org/pkg.zip#egg=pkg", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			spec, flags := Split(tt.line)
			assert.Equal(t, tt.spec, spec)
			assert.Equal(t, tt.flags, flags)
		})
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "friendly-bard", NormalizeName("Friendly-Bard"))
	assert.Equal(t, "friendly-bard", NormalizeName("FRIENDLY_BARD"))
	assert.Equal(t, "friendly-bard", NormalizeName("friendly.bard"))
	assert.Equal(t, "friendly-bard", NormalizeName("friendly--_.bard"))
}

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input     string
		name      string
		extras    []string
		specifier string
		url       string
		marker    string
		rendered  string
	}{
		{
			input:    "requests",
			name:     "requests",
			rendered: "requests",
		},
		{
			input:     "Django>=4.2,<5",
			name:      "Django",
			specifier: "<5,>=4.2",
			rendered:  "Django<5,>=4.2",
		},
		{
			input:     "requests[socks, security] >= 2.8.1",
			name:      "requests",
			extras:    []string{"socks", "security"},
			specifier: ">=2.8.1",
			rendered:  "requests[security,socks]>=2.8.1",
		},
		{
			input:     "name (>=1.0, <2.0)",
			name:      "name",
			specifier: "<2.0,>=1.0",
			rendered:  "name<2.0,>=1.0",
		},
		{
			input:     `pywin32>=300; sys_platform == "win32"`,
			name:      "pywin32",
			specifier: ">=300",
			marker:    `sys_platform == "win32"`,
			rendered:  `pywin32>=300; sys_platform == "win32"`,
		},
		{
			input:    "pip @ https://github.com/pypa/pip/archive/22.0.2.zip",
			name:     "pip",
			url:      "https://github.com/pypa/pip/archive/22.0.2.zip",
			rendered: "pip @ https://github.com/pypa/pip/archive/22.0.2.zip",
		},
		{
			input:    `pip @ file:///tmp/pip.whl ; python_version >= "3.8"`,
			name:     "pip",
			url:      "file:///tmp/pip.whl",
			marker:   `python_version >= "3.8"`,
			rendered: `pip @ file:///tmp/pip.whl ; python_version >= "3.8"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			req, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.name, req.Name)
			assert.Equal(t, tt.extras, req.Extras)
			assert.Equal(t, tt.specifier, req.Specifier.String())
			assert.Equal(t, tt.url, req.URL)
			assert.Equal(t, tt.marker, req.Marker)
			assert.Equal(t, tt.rendered, req.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	for _, input := range []string{
		"",
		"==1.0",
		"requests[security",
		"requests[bad extra]",
		"requests 2.0",
		"requests>=abc",
		"requests (>=1.0",
		"requests>=1.0;",
		"pkg @",
		"pkg @ https://x.org/p.zip extra",
	} {
		_, err := Parse(input)
		assert.Error(t, err, input)
	}
}

func TestPinned(t *testing.T) {
	t.Parallel()
	req, err := Parse(`Requests[security]>=2.0; python_version >= "3.8"`)
	require.NoError(t, err)
	assert.Equal(t, "requests", req.Key())
	assert.Equal(t, `Requests[security]==2.31.0; python_version >= "3.8"`, req.Pinned("2.31.0"))

	plain, err := Parse("flask")
	require.NoError(t, err)
	assert.Equal(t, "flask==3.0.0", plain.Pinned("3.0.0"))
}
