package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulateStream(t *testing.T) {
	chunks := []Chunk{
		{Thinking: "hmm "},
		{Response: "{\"a\":", Thinking: "dropped"},
		{Response: "1}"},
		{Done: true},
		{Response: "after end"},
	}
	assert.Equal(t, "hmm {\"a\":1}", AccumulateStream(chunks))
	assert.Equal(t, "", AccumulateStream(nil))
}

func TestDecodeStreamSkipsGarbageAndReadsTrailingLine(t *testing.T) {
	body := "{\"response\":\"ab\"}\r\nnot json\n\n{\"response\":\"cd\"}"
	got, err := DecodeStream(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "abcd", got)
}

func TestSingleResponseText(t *testing.T) {
	assert.Equal(t, "r", SingleResponseText([]byte(`{"response":"r","completion":"c"}`)))
	assert.Equal(t, "c", SingleResponseText([]byte(`{"completion":"c"}`)))
	assert.Equal(t, "t", SingleResponseText([]byte(`{"choices":[{"text":"t"}]}`)))
	assert.Equal(t, `{"other":1}`, SingleResponseText([]byte(`{"other":1}`)))
}

func TestLooksStreamed(t *testing.T) {
	assert.True(t, LooksStreamed([]byte("{\"response\":\"a\"}\n{\"done\":true}\n")))
	assert.False(t, LooksStreamed([]byte(`{"response":"a"}`)))
}
