package llm

import (
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

const sampleNote = `The Fed just blinked. Goolsbee warned inflation could roar back if central bank independence is compromised.

We're treating this as a yellow flag for risk assets. Cautious on rate-sensitive positioning until political noise clears.

$BTC #Macro`

func TestParseThreadSingleUnit(t *testing.T) {
	posts := ParseThread(sampleNote, 4000)

	assert.Equal(t, 1, len(posts))
	assert.Equal(t, 0, posts[0].Index)
	assert.Equal(t, sampleNote, posts[0].Text)
}

func TestParseThreadSplitsOnDelimiter(t *testing.T) {
	raw := sampleNote + "\n---\n" + strings.Repeat("Second unit of the desk note, continued. ", 3)

	posts := ParseThread(raw, 4000)

	assert.Equal(t, 2, len(posts))
	assert.Equal(t, 0, posts[0].Index)
	assert.Equal(t, 1, posts[1].Index)
}

func TestParseThreadDropsOverLengthUnit(t *testing.T) {
	long := strings.Repeat("x", 500)
	raw := sampleNote + "\n---\n" + long + "\n---\n" + sampleNote

	posts := ParseThread(raw, 400)

	// The long middle unit is dropped and indices stay contiguous.
	assert.Equal(t, 2, len(posts))
	assert.Equal(t, 0, posts[0].Index)
	assert.Equal(t, 1, posts[1].Index)
}

func TestParseThreadRejectsShortResponse(t *testing.T) {
	posts := ParseThread("No.", 4000)
	assert.Equal(t, 0, len(posts))
}

func TestCleanResponseStripsThinkBlock(t *testing.T) {
	raw := "<think>reasoning about rates\nmore reasoning</think>\n" + sampleNote
	assert.Equal(t, sampleNote, cleanResponse(raw))
}

func TestCleanResponseStripsFences(t *testing.T) {
	raw := "```markdown\n" + sampleNote + "\n```"
	assert.Equal(t, sampleNote, cleanResponse(raw))
}

func TestParseSelectedIDs(t *testing.T) {
	ids := parseSelectedIDs("3, 7, 12", 20, 5)
	assert.Equal(t, []int{3, 7, 12}, ids)
}

func TestParseSelectedIDsDropsInvalid(t *testing.T) {
	ids := parseSelectedIDs("3, 99, abc, 3, 7", 10, 5)
	assert.Equal(t, []int{3, 7}, ids)
}

func TestParseSelectedIDsHonorsTopK(t *testing.T) {
	ids := parseSelectedIDs("0, 1, 2, 3, 4", 10, 2)
	assert.Equal(t, []int{0, 1}, ids)
}
