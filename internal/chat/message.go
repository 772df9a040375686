package chat

// Message roles. The UI only ever renders these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Greeting is the assistant message seeded into every fresh conversation.
const Greeting = "Hello! I'm Vaani, your AI assistant. How can I help you today?"

// Message represents a single chat turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Stream is the ordered sequence of turns for the conversation on screen.
// Entries are append-only; existing turns are never edited or reordered.
type Stream []Message

// Seed returns the stream every new conversation starts from: the single
// assistant greeting.
func Seed() Stream {
	return Stream{{Role: RoleAssistant, Content: Greeting}}
}

// Append adds a message to the end of the stream.
func (s *Stream) Append(msg Message) {
	*s = append(*s, msg)
}

// Replace swaps the whole stream out, used when loading a stored
// conversation. The input is copied so later appends don't alias the
// stored record.
func (s *Stream) Replace(messages []Message) {
	*s = append(Stream(nil), messages...)
}

// FirstUser returns the earliest user message in the stream.
func (s Stream) FirstUser() (Message, bool) {
	for _, msg := range s {
		if msg.Role == RoleUser {
			return msg, true
		}
	}
	return Message{}, false
}

// Last returns the most recent message in the stream.
func (s Stream) Last() (Message, bool) {
	if len(s) == 0 {
		return Message{}, false
	}
	return s[len(s)-1], true
}

// Snapshot returns a copy of the stream for handing to collaborators.
func (s Stream) Snapshot() []Message {
	return append([]Message(nil), s...)
}
