package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeSegments(t *testing.T) {
	assert.Nil(t, CodeSegments(""))
	assert.Nil(t, CodeSegments("   "))
	assert.Equal(t, []string{"1"}, CodeSegments("1"))
	assert.Equal(t, []string{"1"}, CodeSegments("1.0"))
	assert.Equal(t, []string{"1"}, CodeSegments("1.0.0"))
	assert.Equal(t, []string{"1", "2"}, CodeSegments("1.2"))
	assert.Equal(t, []string{"0"}, CodeSegments("0"))
	assert.Equal(t, []string{"A", "3"}, CodeSegments(" A.3. "))
}

func TestCodeKey(t *testing.T) {
	assert.Equal(t, "", CodeKey(""))
	assert.Equal(t, "1", CodeKey("1.0"))
	assert.Equal(t, CodeKey("2.1"), CodeKey(" 2.1.0 "))
	assert.NotEqual(t, CodeKey("1.1"), CodeKey("11"))
}

func TestIsCodeParent(t *testing.T) {
	cases := []struct {
		parent, child string
		want          bool
	}{
		{"1", "1.1", true},
		{"1.0", "1.1", true},
		{"1.1", "1.1.4", true},
		{"1", "1.1.4", true},
		{"1", "11.1", false},
		{"1.1", "1.1", false},
		{"1.1", "1", false},
		{"", "1.1", false},
		{"2", "1.1", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsCodeParent(tc.parent, tc.child), "%q parent of %q", tc.parent, tc.child)
	}
}
