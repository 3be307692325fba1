package world

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectIDGenerator_Ranges(t *testing.T) {
	gen := NewObjectIDGenerator()

	assert.Equal(t, uint32(0x10000001), gen.NextPlayerID())
	assert.Equal(t, uint32(0x20000001), gen.NextNpcID())
	assert.Equal(t, uint32(0x20000002), gen.NextNpcID())
}

func TestObjectIDGenerator_Concurrent(t *testing.T) {
	gen := NewObjectIDGenerator()
	const n = 100

	var (
		mu   sync.Mutex
		seen = make(map[uint32]struct{}, n)
		wg   sync.WaitGroup
	)
	for range n {
		wg.Go(func() {
			id := gen.NextNpcID()
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		})
	}
	wg.Wait()

	assert.Len(t, seen, n)
}
