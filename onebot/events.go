// package onebot speaks the OneBot v11 HTTP dialect: it posts group messages
// through the relay API and receives pushed message events on a webhook.
package onebot

import "strings"

// Segment is one element of a OneBot message array.
type Segment struct {
	Type string      `json:"type"`
	Data SegmentData `json:"data"`
}

// SegmentData carries the fields used by the segment types we care about
// (text, image, reply). Unused fields stay empty.
type SegmentData struct {
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
	File string `json:"file,omitempty"`
	ID   string `json:"id,omitempty"`
}

// TextSegment builds a plain-text segment for outbound messages.
func TextSegment(text string) Segment {
	return Segment{Type: "text", Data: SegmentData{Text: text}}
}

// MessageEvent is a pushed OneBot message event.
type MessageEvent struct {
	PostType    string    `json:"post_type"`
	MessageType string    `json:"message_type"`
	MessageID   int64     `json:"message_id"`
	GroupID     int64     `json:"group_id"`
	UserID      int64     `json:"user_id"`
	RawMessage  string    `json:"raw_message"`
	Message     []Segment `json:"message"`
}

// IsGroupMessage reports whether the event is a group chat message.
func (e *MessageEvent) IsGroupMessage() bool {
	return e.PostType == "message" && e.MessageType == "group"
}

// PlainText joins the text segments of the message, trimmed.
func (e *MessageEvent) PlainText() string {
	var b strings.Builder
	for _, seg := range e.Message {
		if seg.Type == "text" {
			b.WriteString(seg.Data.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

// ImageURL returns the reference of the first image segment, or "".
func (e *MessageEvent) ImageURL() string {
	return ImageURLFromSegments(e.Message)
}

// ReplyID returns the quoted message id when the message quotes another, or "".
func (e *MessageEvent) ReplyID() string {
	for _, seg := range e.Message {
		if seg.Type == "reply" {
			return seg.Data.ID
		}
	}
	return ""
}

// ImageURLFromSegments picks the first usable image reference out of a
// segment list. Some relays only fill the file field, so it is the fallback.
func ImageURLFromSegments(segs []Segment) string {
	for _, seg := range segs {
		if seg.Type != "image" {
			continue
		}
		if seg.Data.URL != "" {
			return seg.Data.URL
		}
		if seg.Data.File != "" {
			return seg.Data.File
		}
	}
	return ""
}
