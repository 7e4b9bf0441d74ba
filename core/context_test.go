package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	ctx = withAnalysisID(ctx, 12345)

	const numGoroutines = 50
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := range numGoroutines {
		go func(id int) {
			defer wg.Done()
			analysisID, ok := getAnalysisID(ctx)
			assert.True(t, shouldSuppressHeader(ctx), "Goroutine %d: shouldSuppressHeader should be true", id)
			assert.True(t, ok, "Goroutine %d: getAnalysisID should return true", id)
			assert.Equal(t, int64(12345), analysisID, "Goroutine %d: analysisID should be 12345", id)
		}(i)
	}
	wg.Wait()
}

// TestContextIsolation tests that different contexts maintain isolation.
func TestContextIsolation(t *testing.T) {
	base := context.Background()
	ctx1 := withAnalysisID(base, 1)
	ctx2 := withAnalysisID(base, 2)
	ctx3 := WithSuppressHeader(base)

	id1, ok1 := getAnalysisID(ctx1)
	id2, ok2 := getAnalysisID(ctx2)
	_, ok3 := getAnalysisID(ctx3)

	assert.True(t, ok1)
	assert.Equal(t, int64(1), id1)
	assert.True(t, ok2)
	assert.Equal(t, int64(2), id2)
	assert.False(t, ok3)

	assert.False(t, shouldSuppressHeader(ctx1))
	assert.True(t, shouldSuppressHeader(ctx3))
}

func TestAnalysisIDDefaults(t *testing.T) {
	_, ok := getAnalysisID(context.Background())
	assert.False(t, ok)

	_, ok = getAnalysisID(withAnalysisID(context.Background(), 0))
	assert.False(t, ok, "zero is never a tracked run")
}
