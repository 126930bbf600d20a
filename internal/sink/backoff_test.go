package sink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFibonacciBackOffFollowsFixedSequence(t *testing.T) {
	b := newFibonacciBackOff()
	want := []time.Duration{
		1 * time.Second, 1 * time.Second, 2 * time.Second, 3 * time.Second, 5 * time.Second,
		8 * time.Second, 13 * time.Second, 21 * time.Second, 34 * time.Second, 55 * time.Second,
	}
	for i, w := range want {
		assert.Equal(t, w, b.NextBackOff(), "term %d", i)
	}
}

func TestFibonacciBackOffWrapsAfterTenTerms(t *testing.T) {
	b := newFibonacciBackOff()
	for i := 0; i < len(fibonacciSeconds); i++ {
		b.NextBackOff()
	}
	assert.Equal(t, 1*time.Second, b.NextBackOff())
	assert.Equal(t, 1*time.Second, b.NextBackOff())
	assert.Equal(t, 2*time.Second, b.NextBackOff())
}

func TestFibonacciBackOffResetRestartsSequence(t *testing.T) {
	b := newFibonacciBackOff()
	b.NextBackOff()
	b.NextBackOff()
	b.NextBackOff()
	b.Reset()
	assert.Equal(t, 1*time.Second, b.NextBackOff())
}
