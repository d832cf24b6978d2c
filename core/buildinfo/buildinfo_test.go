package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)

	Version, Commit, Date = "v1.0.0", "abc", ""
	assert.Equal(t, "v1.0.0 (abc)", String())

	Date = "2026-01-02T00:00:00Z"
	assert.Equal(t, "v1.0.0 (abc, 2026-01-02T00:00:00Z)", String())
	assert.Len(t, Attrs(), 3)
}
