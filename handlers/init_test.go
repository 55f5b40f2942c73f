package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHandlers(t *testing.T) {
	t.Parallel()
	var names []string
	for _, h := range GetHandlers("requirements-dev.txt", nil) {
		names = append(names, h.Name())
	}
	assert.Equal(t, []string{"requirements", "pyproject", "pipfile", "conda", "setup.py"}, names)
}
