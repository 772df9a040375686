package chat

const (
	titleLimit   = 50
	previewLimit = 60
	ellipsis     = "..."
)

// DeriveTitle computes a conversation title from the earliest user message,
// truncated to 50 characters with an ellipsis when it was cut. Returns ""
// while the stream has no user turn yet. Titles are derived once per
// conversation and never recomputed.
func DeriveTitle(s Stream) string {
	first, ok := s.FirstUser()
	if !ok {
		return ""
	}
	runes := []rune(first.Content)
	if len(runes) <= titleLimit {
		return first.Content
	}
	return string(runes[:titleLimit]) + ellipsis
}

// DerivePreview computes the sidebar preview from the newest message,
// truncated to 60 characters. Unlike titles, previews always carry the
// trailing ellipsis even when nothing was cut.
func DerivePreview(s Stream) string {
	last, ok := s.Last()
	if !ok {
		return ""
	}
	runes := []rune(last.Content)
	if len(runes) > previewLimit {
		runes = runes[:previewLimit]
	}
	return string(runes) + ellipsis
}

// DeriveTimestamp returns the display label written alongside a record.
// Labels are fixed at write time and never refreshed afterwards.
func DeriveTimestamp() string {
	return "Just now"
}
