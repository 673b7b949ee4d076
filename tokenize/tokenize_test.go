package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitBasic(t *testing.T) {
	assert.Equal(t, []string{"hello", "world"}, Split("hello, world!"))
}

func TestSplitPreservesCase(t *testing.T) {
	assert.Equal(t, []string{"Hello", "World"}, Split("Hello-World"))
}

func TestSplitEmpty(t *testing.T) {
	assert.Nil(t, Split("   ...   "))
}

func TestSplitUniquePreservesFirstOccurrenceOrder(t *testing.T) {
	assert.Equal(t, []string{"go", "rust", "c"}, SplitUnique("go rust go c rust"))
}

func TestNormalizeKeepsTabsAndNewlines(t *testing.T) {
	in := []byte("1\thello, world!\n")
	Normalize(in)
	assert.Equal(t, "1\thello  world \n", string(in))
}
