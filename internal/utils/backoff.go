package utils

import (
	"math/rand"
	"time"
)

type Backoff struct {
	base       time.Duration
	maxRetries int
}

func NewBackoff(base time.Duration, maxRetries int) Backoff {
	return Backoff{base: base, maxRetries: maxRetries}
}

// Do runs fn until it succeeds or the retries run out, sleeping
// exponentially with jitter between attempts.
func (b Backoff) Do(fn func(i int) error) error {
	var err error
	for i := 0; ; i++ {
		err = fn(i)
		if err == nil || i >= b.maxRetries {
			return err
		}
		sleep := time.Duration(1<<i) * b.base
		sleep += time.Duration(rand.Int63n(int64(b.base)))
		time.Sleep(sleep)
	}
}
