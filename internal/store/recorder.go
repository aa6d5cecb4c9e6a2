package store

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/MJE43/cardsim/internal/decision"
)

// Recorder buffers decisions for one session and writes them in batches.
// Its Record method is a decision.Hook, so it can be attached to a
// simulation directly.
type Recorder struct {
	store     *Store
	sessionID string
	flushSize int
	log       *zap.Logger

	mu     sync.Mutex
	buffer []decision.Decision
	wg     sync.WaitGroup
	errs   error
}

// NewRecorder creates a recorder for sessionID. flushSize controls how
// many decisions are buffered before a batch insert; 0 means 50.
func NewRecorder(store *Store, sessionID string, flushSize int) *Recorder {
	if flushSize <= 0 {
		flushSize = 50
	}
	return &Recorder{
		store:     store,
		sessionID: sessionID,
		flushSize: flushSize,
		log:       store.log.With(zap.String("session", sessionID)),
		buffer:    make([]decision.Decision, 0, flushSize),
	}
}

// Record buffers d and starts a background write once the buffer is full.
// It never blocks on the database.
func (r *Recorder) Record(d decision.Decision) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer = append(r.buffer, d)
	if len(r.buffer) >= r.flushSize {
		r.flushLocked()
	}
}

// Flush writes anything still buffered, waits for every background write
// and returns their combined errors. The error state is reset.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	r.flushLocked()
	r.mu.Unlock()

	r.wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.errs
	r.errs = nil
	return err
}

func (r *Recorder) flushLocked() {
	if len(r.buffer) == 0 {
		return
	}
	batch := make([]decision.Decision, len(r.buffer))
	copy(batch, r.buffer)
	r.buffer = r.buffer[:0]

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.store.InsertDecisions(context.Background(), r.sessionID, batch); err != nil {
			r.log.Error("flush decisions", zap.Int("batch", len(batch)), zap.Error(err))
			r.mu.Lock()
			r.errs = multierr.Append(r.errs, err)
			r.mu.Unlock()
		}
	}()
}
