package sink

import "time"

// fibonacciSeconds is the busy-retry and status-monitor poll cadence from
// spec.md §4.4/§5: 1,1,2,3,5,8,13,21,34,55 seconds, then wrap.
var fibonacciSeconds = []int{1, 1, 2, 3, 5, 8, 13, 21, 34, 55}

// fibonacciBackOff implements cenkalti/backoff's BackOff interface with
// the fixed Fibonacci sequence spec.md requires instead of the library's
// default exponential curve.
type fibonacciBackOff struct {
	idx int
}

func newFibonacciBackOff() *fibonacciBackOff {
	return &fibonacciBackOff{}
}

// NextBackOff returns the next delay in the sequence, wrapping back to
// its start once exhausted.
func (f *fibonacciBackOff) NextBackOff() time.Duration {
	d := time.Duration(fibonacciSeconds[f.idx%len(fibonacciSeconds)]) * time.Second
	f.idx++
	return d
}

// Reset restarts the sequence from its first term.
func (f *fibonacciBackOff) Reset() {
	f.idx = 0
}
