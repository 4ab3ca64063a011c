package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Licuadora de", "vaso de", "vidrio"}, Wrap("Licuadora de vaso de vidrio", 12))
	assert.Equal(t, []string{"a", "supercalifragilistico", "b"}, Wrap("a supercalifragilistico b", 5))
	assert.Nil(t, Wrap("   ", 10))
	assert.Equal(t, []string{"ñandú", "pingüino"}, Wrap("ñandú pingüino", 10))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Samsung", Truncate("Samsung", 20))
	assert.Equal(t, "Electrodomésticos", Truncate("Electrodomésticos del Perú", 17))
	assert.Equal(t, "abc", Truncate(" abc ", 0))
}

func TestShorten(t *testing.T) {
	t.Parallel()

	lines := []string{"uno dos,", "tres", "cuatro"}
	assert.Equal(t, []string{"uno dos..."}, Shorten(lines, 1, "..."))
	assert.Equal(t, lines, Shorten(lines, 3, "..."))
	assert.Equal(t, lines, Shorten(lines, 0, "..."))
	// input is not modified
	assert.Equal(t, "uno dos,", lines[0])
}

func TestIsMissing(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"", "  ", "nan", "NaN", "None", "null", "-", "N/A"} {
		assert.True(t, IsMissing(v), v)
	}
	for _, v := range []string{"0", "https://x.test/a.png", "nana"} {
		assert.False(t, IsMissing(v), v)
	}
}
