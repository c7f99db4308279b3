package persist

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ResultWriter stores batches of level results. *LevelResultRepo satisfies it.
type ResultWriter interface {
	InsertBatch(ctx context.Context, results []LevelResult) error
}

// maxBatch caps how many queued results one write transaction carries.
const maxBatch = 32

// Journal records level outcomes off the frame goroutine. Record never
// blocks: when the queue is full the result is dropped with a warning.
type Journal struct {
	writer  ResultWriter
	log     *zap.Logger
	queue   chan LevelResult
	timeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
}

// NewJournal starts the writer goroutine. buffer is the queue capacity.
func NewJournal(writer ResultWriter, buffer int, log *zap.Logger) *Journal {
	if buffer <= 0 {
		buffer = 1
	}
	j := &Journal{
		writer:  writer,
		log:     log,
		queue:   make(chan LevelResult, buffer),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
	go j.run()
	return j
}

// Record queues a result. It returns false if the result was dropped.
func (j *Journal) Record(res LevelResult) bool {
	if res.RecordedAt.IsZero() {
		res.RecordedAt = time.Now()
	}
	select {
	case j.queue <- res:
		return true
	default:
		j.log.Warn("journal queue full, dropping level result",
			zap.Int("level", res.LevelIndex),
			zap.String("outcome", res.Outcome),
		)
		return false
	}
}

// Close stops accepting results and waits until everything queued has been
// written or ctx expires. Record must not be called after Close.
func (j *Journal) Close(ctx context.Context) error {
	j.closeOnce.Do(func() { close(j.queue) })
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Journal) run() {
	defer close(j.done)
	batch := make([]LevelResult, 0, maxBatch)
	for res := range j.queue {
		batch = append(batch[:0], res)
	drain:
		for len(batch) < maxBatch {
			select {
			case more, ok := <-j.queue:
				if !ok {
					break drain
				}
				batch = append(batch, more)
			default:
				break drain
			}
		}
		j.flush(batch)
	}
}

func (j *Journal) flush(batch []LevelResult) {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	if err := j.writer.InsertBatch(ctx, batch); err != nil {
		j.log.Error("journal write failed", zap.Int("results", len(batch)), zap.Error(err))
		return
	}
	j.log.Debug("journal written", zap.Int("results", len(batch)))
}
