package buffer

import (
	"github.com/charmbracelet/log"

	"github.com/drake/galley/internal/logging"
)

// Unbounded creates a channel buffer that grows as needed.
// It returns a write-only channel to feed data in, and a read-only channel to read data out.
//
// initialCap: The starting size of the backing slice.
// hardLimit: The maximum number of items to buffer before dropping the oldest.
// A nil logger uses the package default.
//
// Usage:
//
//	in, out := buffer.Unbounded[event.Event](64, 4096, nil)
//	in <- ev
//	ev := <-out
func Unbounded[T any](initialCap, hardLimit int, logger *log.Logger) (chan<- T, <-chan T) {
	in := make(chan T, 10)
	out := make(chan T, 10)
	logger = logging.Named(logger, "buffer")

	go func() {
		defer close(out)

		queue := make([]T, 0, initialCap)
		dropped := 0

		for {
			var next T
			var downstream chan T

			// Only offer to out when there is something queued.
			if len(queue) > 0 {
				next = queue[0]
				downstream = out
			}

			select {
			case val, ok := <-in:
				if !ok {
					for _, item := range queue {
						out <- item
					}
					return
				}

				if hardLimit > 0 && len(queue) >= hardLimit {
					dropped++
					if dropped == 1 || dropped%hardLimit == 0 {
						logger.Warn("queue limit reached, dropping oldest", "limit", hardLimit, "dropped", dropped)
					}
					queue = queue[1:]
				}

				queue = append(queue, val)

			case downstream <- next:
				queue = queue[1:]
			}
		}
	}()

	return in, out
}
