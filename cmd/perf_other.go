//go:build !linux

package cmd

func measure(f func() error) error {
	logger.Warn("perf counters are only available on linux")
	return f()
}
