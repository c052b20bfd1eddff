package pipeline

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet = errors.New("p must be set")
	ErrInputMustBeSet    = errors.New("input must be set")
	ErrDuplicateStep     = errors.New("step name already used")
)

type errorChans struct {
	mu   sync.Mutex
	list []*errorChan
}

func (ec *errorChans) add(errChan *errorChan) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.list = append(ec.list, errChan)
}

type errorChan struct {
	c    <-chan error
	name string
}

func newErrorChan(name string, c <-chan error) *errorChan {
	return &errorChan{
		c:    c,
		name: name,
	}
}

// mergeErrors fans every step error channel into one channel, prefixing each error with the
// name of the step that produced it.
// Based on https://blog.golang.org/pipelines.
func mergeErrors(cs ...*errorChan) <-chan error {
	var wg sync.WaitGroup
	// One slot per step: a step reports at most one error, so senders never block even when
	// the reader has already returned on the first error.
	out := make(chan error, len(cs))

	output := func(c *errorChan) {
		defer wg.Done()
		if c.c == nil {
			return
		}
		for n := range c.c {
			out <- errors.Wrap(n, c.name)
		}
	}
	wg.Add(len(cs))
	for _, c := range cs {
		go output(c)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
