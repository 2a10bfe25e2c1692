package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryGuardConsumeOnce(t *testing.T) {
	g := NewMemoryGuard()

	assert.True(t, g.Consume("2026-08-30", "nonce-1"))
	assert.False(t, g.Consume("2026-08-30", "nonce-1"), "second presentation is stale")
	assert.True(t, g.Consume("2026-08-30", "nonce-2"))
}

func TestMemoryGuardResetsAtRollover(t *testing.T) {
	g := NewMemoryGuard()

	assert.True(t, g.Consume("2026-08-30", "nonce-1"))
	assert.True(t, g.Consume("2026-08-31", "nonce-1"), "new day forgets yesterday's nonces")
	assert.False(t, g.Consume("2026-08-31", "nonce-1"))
}

func TestMemoryGuardConcurrentConsume(t *testing.T) {
	g := NewMemoryGuard()

	const callers = 32
	wins := make(chan bool, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- g.Consume("2026-08-30", "contested")
		}()
	}
	wg.Wait()
	close(wins)

	fresh := 0
	for ok := range wins {
		if ok {
			fresh++
		}
	}
	assert.Equal(t, 1, fresh, "exactly one caller may consume a nonce")
}

func TestNopGuardAcceptsEverything(t *testing.T) {
	g := NewNopGuard()
	for i := 0; i < 3; i++ {
		assert.True(t, g.Consume("2026-08-30", fmt.Sprint("nonce-", i)))
		assert.True(t, g.Consume("2026-08-30", fmt.Sprint("nonce-", i)))
	}
}
