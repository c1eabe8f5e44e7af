package announcer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdjwxh/d2rtz-bot/terrorzone"
)

type stubFetcher struct {
	rot *terrorzone.Rotation
	err error
}

func (s *stubFetcher) FetchRotation(context.Context) (*terrorzone.Rotation, error) {
	return s.rot, s.err
}

type stubSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *stubSender) SendGroupMessage(_ context.Context, _ int64, text string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.sent = append(s.sent, text)
	return 1, nil
}

func (s *stubSender) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sent))
	copy(out, s.sent)
	return out
}

func testAreas() map[int]terrorzone.AreaInfo {
	return map[int]terrorzone.AreaInfo{
		1: {Name: "A", Tier: "X"},
		2: {Name: "B", Tier: "Y"},
	}
}

func validRotation() *terrorzone.Rotation {
	return &terrorzone.Rotation{Data: []terrorzone.RotationEntry{
		{Zone: 1, Time: 200},
		{Zone: 2, Time: 100},
	}}
}

func TestAnnounce(t *testing.T) {
	sender := &stubSender{}
	s := New(&stubFetcher{rot: validRotation()}, sender, testAreas(), 42, time.Hour, nil)

	s.announce(context.Background())

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "TZ：B，掉落：Y\nNext：A，掉落：X", msgs[0])
}

func TestAnnounceErrorsAreSwallowed(t *testing.T) {
	sender := &stubSender{}

	s := New(&stubFetcher{err: fmt.Errorf("api down")}, sender, testAreas(), 42, time.Hour, nil)
	s.announce(context.Background())
	assert.Empty(t, sender.messages())

	s = New(&stubFetcher{rot: &terrorzone.Rotation{}}, sender, testAreas(), 42, time.Hour, nil)
	s.announce(context.Background())
	assert.Empty(t, sender.messages())

	failing := &stubSender{err: fmt.Errorf("relay down")}
	s = New(&stubFetcher{rot: validRotation()}, failing, testAreas(), 42, time.Hour, nil)
	s.announce(context.Background())
	assert.Empty(t, failing.messages())
}

func TestStartPostsImmediatelyAndStops(t *testing.T) {
	sender := &stubSender{}
	s := New(&stubFetcher{rot: validRotation()}, sender, testAreas(), 42, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Start(ctx)
	}()

	require.Eventually(t, func() bool {
		return len(sender.messages()) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("announcer did not stop")
	}
}
