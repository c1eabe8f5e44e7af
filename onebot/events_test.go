package onebot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	ev := &MessageEvent{Message: []Segment{
		TextSegment("  鉴定 "),
		{Type: "image", Data: SegmentData{URL: "https://img.example/a.png"}},
		TextSegment("这件 "),
	}}
	assert.Equal(t, "鉴定 这件", ev.PlainText())
}

func TestImageURLFallsBackToFile(t *testing.T) {
	ev := &MessageEvent{Message: []Segment{
		{Type: "image", Data: SegmentData{File: "abc.image"}},
	}}
	assert.Equal(t, "abc.image", ev.ImageURL())

	ev = &MessageEvent{Message: []Segment{TextSegment("no image here")}}
	assert.Equal(t, "", ev.ImageURL())
}

func TestReplyID(t *testing.T) {
	ev := &MessageEvent{Message: []Segment{
		{Type: "reply", Data: SegmentData{ID: "991"}},
		TextSegment("鉴定"),
	}}
	assert.Equal(t, "991", ev.ReplyID())
}

func TestIsGroupMessage(t *testing.T) {
	assert.True(t, (&MessageEvent{PostType: "message", MessageType: "group"}).IsGroupMessage())
	assert.False(t, (&MessageEvent{PostType: "message", MessageType: "private"}).IsGroupMessage())
	assert.False(t, (&MessageEvent{PostType: "meta_event"}).IsGroupMessage())
}
