package experiment

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// RecorderConfig tunes the background exposure writer.
type RecorderConfig struct {
	QueueSize     int           `env:"EXPOSURE_QUEUE_SIZE" envDefault:"1024"`    // QueueSize bounds the hand-off channel between callers and the writer.
	MaxBatchSize  int           `env:"EXPOSURE_MAX_BATCH_SIZE" envDefault:"64"`  // MaxBatchSize flushes a batch once it reaches this many events.
	FlushInterval time.Duration `env:"EXPOSURE_FLUSH_INTERVAL" envDefault:"1s"`  // FlushInterval flushes partial batches on this cadence.
	FlushTimeout  time.Duration `env:"EXPOSURE_FLUSH_TIMEOUT" envDefault:"5s"`   // FlushTimeout bounds a single write to the sink.
}

func (c RecorderConfig) withDefaults() RecorderConfig {
	if c.QueueSize <= 0 {
		c.QueueSize = 1024
	}
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = 64
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = time.Second
	}
	if c.FlushTimeout <= 0 {
		c.FlushTimeout = 5 * time.Second
	}
	return c
}

// Recorder is a best-effort, non-blocking hand-off between the
// evaluation path and the exposure sink. Events are queued on a
// bounded channel and written in batches by a single background
// goroutine; when the queue is full the event is dropped and logged.
// A failed or dropped write never surfaces to the evaluation caller.
type Recorder struct {
	sink   Sink
	log    *slog.Logger
	cfg    RecorderConfig
	queue  chan Exposure
	done   chan struct{}
	closed atomic.Bool
	once   sync.Once
}

// NewRecorder starts the background writer and returns the recorder.
// Call Close to flush buffered events before shutdown.
func NewRecorder(sink Sink, cfg RecorderConfig, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	cfg = cfg.withDefaults()

	r := &Recorder{
		sink:  sink,
		log:   log,
		cfg:   cfg,
		queue: make(chan Exposure, cfg.QueueSize),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

// Record hands an exposure to the background writer without blocking.
func (r *Recorder) Record(e Exposure) {
	if r.closed.Load() {
		r.log.Warn("exposure dropped, recorder closed",
			"flag_key", e.FlagKey, "variant", e.Variant)
		return
	}

	select {
	case r.queue <- e:
	default:
		r.log.Warn("exposure dropped, queue full",
			"flag_key", e.FlagKey, "variant", e.Variant)
	}
}

// Close stops accepting events, flushes what is buffered, and waits
// for the background writer to finish or the context to expire.
func (r *Recorder) Close(ctx context.Context) error {
	r.once.Do(func() {
		r.closed.Store(true)
		close(r.queue)
	})

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]Exposure, 0, r.cfg.MaxBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.FlushTimeout)
		defer cancel()

		if err := r.sink.RecordExposures(ctx, slices.Clone(batch)); err != nil {
			r.log.Error("failed to write exposure batch", "error", err, "count", len(batch))
		} else {
			r.log.Debug("exposure batch written", "count", len(batch))
		}
		batch = batch[:0]
	}

	for {
		select {
		case e, ok := <-r.queue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, e)
			if len(batch) >= r.cfg.MaxBatchSize {
				flush()
				ticker.Reset(r.cfg.FlushInterval)
			}

		case <-ticker.C:
			flush()
		}
	}
}
