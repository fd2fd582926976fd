package buildinfo

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinaryVersionDefault(t *testing.T) {
	assert.Equal(t, "dev", BinaryVersion)
}

func TestVersionPrefersLdflags(t *testing.T) {
	original := BinaryVersion
	t.Cleanup(func() { BinaryVersion = original })

	BinaryVersion = "v1.4.0"
	assert.Equal(t, "v1.4.0", Version())

	BinaryVersion = "dev"
	if mv := ModuleVersion(); mv != "" {
		assert.Equal(t, mv, Version())
	} else {
		assert.Equal(t, "dev", Version())
	}
}

func TestGoVersion(t *testing.T) {
	assert.Equal(t, runtime.Version(), GoVersion())
}
