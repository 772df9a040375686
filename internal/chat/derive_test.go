package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle_ShortMessage(t *testing.T) {
	s := Seed()
	s.Append(Message{Role: RoleUser, Content: "Hello"})

	assert.Equal(t, "Hello", DeriveTitle(s))
}

func TestDeriveTitle_TruncatesAtFifty(t *testing.T) {
	long := strings.Repeat("a", 60)
	s := Seed()
	s.Append(Message{Role: RoleUser, Content: long})

	title := DeriveTitle(s)
	assert.Equal(t, strings.Repeat("a", 50)+"...", title)
}

func TestDeriveTitle_ExactlyFifty_NoEllipsis(t *testing.T) {
	exact := strings.Repeat("a", 50)
	s := Seed()
	s.Append(Message{Role: RoleUser, Content: exact})

	assert.Equal(t, exact, DeriveTitle(s))
}

func TestDeriveTitle_NoUserMessage(t *testing.T) {
	assert.Equal(t, "", DeriveTitle(Seed()))
}

func TestDeriveTitle_UsesEarliestUserMessage(t *testing.T) {
	s := Seed()
	s.Append(Message{Role: RoleUser, Content: "first question"})
	s.Append(Message{Role: RoleAssistant, Content: "an answer"})
	s.Append(Message{Role: RoleUser, Content: "second question"})

	assert.Equal(t, "first question", DeriveTitle(s))
}

func TestDeriveTitle_MultibyteRunes(t *testing.T) {
	long := strings.Repeat("ü", 55)
	s := Stream{{Role: RoleUser, Content: long}}

	assert.Equal(t, strings.Repeat("ü", 50)+"...", DeriveTitle(s))
}

func TestDerivePreview_AlwaysEndsWithEllipsis(t *testing.T) {
	s := Seed()
	s.Append(Message{Role: RoleUser, Content: "Hi"})

	// short content still carries the marker
	assert.Equal(t, "Hi...", DerivePreview(s))
}

func TestDerivePreview_TruncatesAtSixty(t *testing.T) {
	long := strings.Repeat("b", 80)
	s := Stream{{Role: RoleAssistant, Content: long}}

	assert.Equal(t, strings.Repeat("b", 60)+"...", DerivePreview(s))
}

func TestDerivePreview_UsesLastMessage(t *testing.T) {
	s := Stream{
		{Role: RoleUser, Content: "Hello"},
		{Role: RoleAssistant, Content: "Hi there"},
	}

	assert.Equal(t, "Hi there...", DerivePreview(s))
}

func TestDerivePreview_EmptyStream(t *testing.T) {
	assert.Equal(t, "", DerivePreview(Stream{}))
}

func TestDeriveTimestamp(t *testing.T) {
	assert.Equal(t, "Just now", DeriveTimestamp())
}

func TestSeed(t *testing.T) {
	s := Seed()
	assert.Len(t, s, 1)
	assert.Equal(t, RoleAssistant, s[0].Role)
	assert.Equal(t, Greeting, s[0].Content)
}

func TestReplace_CopiesInput(t *testing.T) {
	stored := []Message{{Role: RoleUser, Content: "Hello"}}
	var s Stream
	s.Replace(stored)
	s.Append(Message{Role: RoleAssistant, Content: "Hi"})

	assert.Len(t, stored, 1)
	assert.Len(t, s, 2)
}
