package callbacks

import (
	"strings"
	"testing"

	"github.com/Freeeeeet/headsup_bot/internal/controller/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectedLabels(t *testing.T) {
	p := &state.Pending{
		Options: []state.Option{
			{ID: "a", Label: "Abebe Kebede [08:10]"},
			{ID: "b", Label: "Sara Ali [08:45]"},
			{ID: "c", Label: "Liya Tesfaye [09:02]"},
		},
		Selected: []string{"c", "a"},
	}

	assert.Equal(t, []string{"Abebe Kebede [08:10]", "Liya Tesfaye [09:02]"}, selectedLabels(p))
}

func TestSplitMessage(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		assert.Equal(t, []string{"hello"}, splitMessage("hello", 10))
	})

	t.Run("splits on line boundaries", func(t *testing.T) {
		text := "line one\nline two\nline three"
		chunks := splitMessage(text, 18)

		require.Len(t, chunks, 2)
		assert.Equal(t, "line one\nline two", chunks[0])
		assert.Equal(t, "line three", chunks[1])
	})

	t.Run("every chunk within limit", func(t *testing.T) {
		text := strings.Repeat("Date: 10 Mar 2025 09:00\n", 400)
		for _, chunk := range splitMessage(text, maxMessageLength) {
			assert.LessOrEqual(t, len(chunk), maxMessageLength)
		}
	})
}
