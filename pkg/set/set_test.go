package set

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreadSafeSetIsCaseInsensitive(t *testing.T) {
	s := NewThreadSafeSet("X-Request-Id", "user-agent")

	assert.True(t, s.Contains("x-request-id"))
	assert.True(t, s.Contains("User-Agent"))
	assert.False(t, s.Contains("authorization"))
	assert.Equal(t, 2, s.Size())

	s.Remove("USER-AGENT")
	assert.False(t, s.Contains("user-agent"))

	s.Clear()
	assert.Equal(t, 0, s.Size())
}

func TestThreadSafeSetConcurrentAccess(t *testing.T) {
	s := NewThreadSafeSet()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Add(fmt.Sprintf("header-%d-%d", w, i))
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Contains(fmt.Sprintf("header-0-%d", i))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, s.Size())
}
