//go:build linux

package cmd

import (
	"fmt"

	perf "github.com/hodgesds/perf-utils"
)

// measure runs f under the hardware cycle counter.
func measure(f func() error) (err error) {
	var (
		pv    *perf.ProfileValue
		ran   bool
		inner error
	)
	pv, err = perf.CPUCycles(func() error {
		ran = true
		inner = f()
		return inner
	})
	if inner != nil {
		return inner
	}
	if err != nil {
		// counters may be unavailable, e.g. with perf_event_paranoid set
		logger.Sugar().Warnf("perf counters unavailable: %v", err)
		if !ran {
			return f()
		}
		return nil
	}
	fmt.Printf("%d\t\t= CPU cycles (enabled %d ns, running %d ns)\n",
		pv.Value, pv.TimeEnabled, pv.TimeRunning)
	return
}
