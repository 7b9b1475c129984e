package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckBlocksListedWords(t *testing.T) {
	blocked, reason, match := Check("what a bigot")
	assert.True(t, blocked)
	assert.Equal(t, "word_list", reason)
	assert.Equal(t, "bigot", match)
}

func TestCheckBlocksHomoglyphVariants(t *testing.T) {
	cases := []string{"b1got", "B1GOT", "b|got", "m0r0n"}
	for _, msg := range cases {
		blocked, _, _ := Check(msg)
		assert.True(t, blocked, "expected %q to be blocked", msg)
	}
}

func TestCheckBlocksPhrases(t *testing.T) {
	blocked, _, match := Check("you should just go away now")
	assert.True(t, blocked)
	assert.Equal(t, "go away", match)
}

func TestCheckRespectsWordBoundaries(t *testing.T) {
	// "die" is listed but "diet" and "soldier" must pass.
	for _, msg := range []string{"my new diet is great", "a brave soldier", "hatred-free zone"} {
		blocked, _, match := Check(msg)
		assert.False(t, blocked, "%q should pass, matched %q", msg, match)
	}
}

func TestCheckAllowsKindMessages(t *testing.T) {
	for _, msg := range []string{
		"You got this, keep going!",
		"Sending hope and joy to everyone today",
		"", "   ",
	} {
		blocked, _, _ := Check(msg)
		assert.False(t, blocked, "%q should pass", msg)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "bigot", Normalize("B1GOT"))
	assert.Equal(t, "you matter ", Normalize("you matter!"))
}
