package shutdown

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"
)

func TestCoordinator_Register(t *testing.T) {

	sc := OnSignal(time.Second)

	if got, expect := len(sc.fns), 0; got != expect {
		t.Errorf("Register() pre length (%d) doesn't have expected value of %d", got, expect)
	}

	sc.Register(func(ctx context.Context) {})
	sc.Register(func(ctx context.Context) {})

	if got, expect := len(sc.fns), 2; got != expect {
		t.Errorf("Register() post length (%d) doesn't have expected value of %d", got, expect)
	}
}

func TestCoordinator_handle(t *testing.T) {

	sc := OnSignal(time.Second, os.Interrupt)

	// The Wait Group allows us to wait until the stop function is actually done
	var wg = sync.WaitGroup{}
	wg.Add(1)

	const expect = 42
	var got uint
	var hadDeadline bool
	sc.Register(func(ctx context.Context) {
		_, hadDeadline = ctx.Deadline()
		got = expect
		wg.Done()
	})

	// Faking an interrupt
	sc.c <- os.Interrupt

	wg.Wait()
	if got != expect {
		t.Errorf("handle() is expected to invoke all registered stop functions")
	}

	if !hadDeadline {
		t.Errorf("handle() is expected to bound stop functions with the grace period")
	}
}
