// Package shutdown coordinates a graceful stop on process signals. Stop
// functions run in registration order and share one grace period.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"time"
)

type StopFn func(ctx context.Context)

func OnSignal(grace time.Duration, signals ...os.Signal) *Coordinator {
	c := make(chan os.Signal, 1)
	signal.Notify(c, signals...)

	sc := &Coordinator{
		c:     c,
		grace: grace,
		done:  make(chan struct{}),
	}

	go sc.handle()

	return sc
}

type Coordinator struct {
	c     chan os.Signal
	grace time.Duration
	done  chan struct{}
	fns   []StopFn
}

func (sc *Coordinator) handle() {
	defer func() {
		sc.done <- struct{}{}
	}()

	<-sc.c
	signal.Stop(sc.c)
	close(sc.c)

	ctx, cancel := context.WithTimeout(context.Background(), sc.grace)
	defer cancel()

	for _, fn := range sc.fns {
		fn(ctx)
	}
}

// Register adds a stop function. Not safe to call once a signal arrived.
func (sc *Coordinator) Register(fn StopFn) {
	sc.fns = append(sc.fns, fn)
}

// Wait blocks until a signal arrived and all stop functions have returned
func (sc *Coordinator) Wait() {
	<-sc.done
	close(sc.done)
}
