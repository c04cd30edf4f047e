package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/sould/property-match/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Job is one notification to deliver. Done, when set, receives the delivery
// result so the producer can acknowledge or retry it.
type Job struct {
	Message ports.Message
	Done    func(err error)
}

// Dispatcher delivers notifications through a fixed set of workers using
// consistent hashing on the recipient, so mail to one address keeps its order.
type Dispatcher struct {
	workers []chan Job
	sink    ports.Notifier
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Job, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a job to the worker responsible for its recipient. It blocks
// once that worker's buffer is full, or returns ctx.Err() if ctx ends first.
func (d *Dispatcher) Enqueue(ctx context.Context, job Job) error {
	select {
	case d.workers[d.shardIndex(job.Message.To)] <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Job) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			err := d.sink.Send(ctx, job.Message)
			if err != nil {
				d.log.Error().Err(err).
					Str("to", job.Message.To).
					Int("worker_id", id).
					Msg("notification delivery failed")
			}
			if job.Done != nil {
				job.Done(err)
			}
		}
	}
}
