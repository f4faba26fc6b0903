// Command corobench drives a small fixed workload through each registered
// engine, logging each engine's result and elapsed time, then runs a pooled
// churn loop and logs its capacity and iteration count. It is a diagnostic
// harness, not part of the library's public API: structured logging is
// confined to this command, since corostack itself never logs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"

	"github.com/gocoro/corostack"
)

func main() {
	iterations := flag.Int("n", 100, "number of pooled create/step-until-return cycles to run")
	poolCapacity := flag.Int("pool", 5, "pool capacity")
	flag.Parse()

	logger := islog.L.New(islog.L.WithSlogHandler(slog.NewTextHandler(os.Stderr, nil)))

	logger.Info().
		Str(`engines`, fmt.Sprint(corostack.EngineList())).
		Log(`discovered engines`)

	for _, name := range corostack.EngineList() {
		if err := runEngine(logger, name); err != nil {
			logger.Err().Err(err).Str(`engine`, name).Log(`engine run failed`)
			os.Exit(1)
		}
	}

	runPool(logger, *poolCapacity, *iterations)
}

// doubler is scenario 2 from the coroutine protocol's testable properties:
// yield once, double twice.
func doubler(y *corostack.Yielder, in any) any {
	p := in.(int)
	p *= 2
	out, _ := y.Yield(p)
	return out.(int) * 2
}

func runEngine(logger *logiface.Logger[*islog.Event], name string) error {
	start := time.Now()

	s, err := corostack.Create(name, 0, doubler, 0)
	if err != nil {
		return err
	}

	status, v, err := s.Step(context.Background(), 1)
	if err != nil {
		return err
	}
	if status != corostack.StatusYielded {
		return fmt.Errorf("corobench: engine %q: expected yield, got %s", name, status)
	}

	status, v, err = s.Step(context.Background(), v)
	if err != nil {
		return err
	}
	if status != corostack.StatusReturned {
		return fmt.Errorf("corobench: engine %q: expected return, got %s", name, status)
	}

	logger.Info().
		Str(`engine`, name).
		Int(`result`, v.(int)).
		Str(`elapsed`, time.Since(start).String()).
		Log(`scenario complete`)
	return nil
}

// runPool exercises the pooled-churn scenario: N sequential instances of
// doubler against a fixed-capacity pool.
func runPool(logger *logiface.Logger[*islog.Event], capacity, iterations int) {
	pool := corostack.PoolCreate(capacity)
	defer pool.Free()

	for i := 0; i < iterations; i++ {
		s, err := pool.NewCoroutine("", corostack.MethodShift, doubler, 0)
		if err != nil {
			logger.Err().Err(err).Int(`iteration`, i).Log(`pool churn failed`)
			return
		}
		_, v, err := s.Step(context.Background(), 1)
		if err != nil {
			logger.Err().Err(err).Int(`iteration`, i).Log(`pool churn step failed`)
			return
		}
		if _, _, err := s.Step(context.Background(), v); err != nil {
			logger.Err().Err(err).Int(`iteration`, i).Log(`pool churn step failed`)
			return
		}
	}

	logger.Info().
		Int(`capacity`, capacity).
		Int(`iterations`, iterations).
		Log(`pooled churn complete`)
}
