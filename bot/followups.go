package bot

import (
	"sync"

	"github.com/wdjwxh/d2rtz-bot/onebot"
)

type followUpKey struct {
	groupID int64
	userID  int64
}

// followUps tracks invocations waiting on a screenshot follow-up. One waiter
// per group+user; a newer registration replaces an older one.
type followUps struct {
	mu      sync.Mutex
	waiters map[followUpKey]chan *onebot.MessageEvent
}

func newFollowUps() *followUps {
	return &followUps{
		waiters: make(map[followUpKey]chan *onebot.MessageEvent),
	}
}

// register parks a waiter for the given group+user. The returned cancel func
// must be called when the wait ends, however it ends.
func (f *followUps) register(groupID, userID int64) (<-chan *onebot.MessageEvent, func()) {
	key := followUpKey{groupID: groupID, userID: userID}
	ch := make(chan *onebot.MessageEvent, 1)

	f.mu.Lock()
	f.waiters[key] = ch
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if f.waiters[key] == ch {
			delete(f.waiters, key)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// deliver hands an event to a parked waiter. Only events carrying an image
// are consumed; everything else falls through to normal dispatch.
func (f *followUps) deliver(ev *onebot.MessageEvent) bool {
	if ev.ImageURL() == "" {
		return false
	}
	key := followUpKey{groupID: ev.GroupID, userID: ev.UserID}

	f.mu.Lock()
	ch, ok := f.waiters[key]
	if ok {
		delete(f.waiters, key)
	}
	f.mu.Unlock()

	if !ok {
		return false
	}
	ch <- ev
	return true
}
