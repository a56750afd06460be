// Package debugtest hooks into the test binary's lifecycle.
//
// Go has no test-runner extension API; TestMain is the hook. Main runs the
// tests, notifies the subscribers registered with OnSuiteFinished, verifies
// that no goroutines leaked and exits with the combined status:
//
//	func TestMain(m *testing.M) {
//		debugtest.Main(m)
//	}
package debugtest

import (
	"fmt"
	"io"
	"os"
	"sync"
	"testing"

	"go.uber.org/goleak"
)

// SuiteResult describes a finished test binary run.
type SuiteResult struct {
	Code int // exit code returned by testing.M.Run
}

// Passed reports whether every test passed.
func (r SuiteResult) Passed() bool { return r.Code == 0 }

// Subscriber is notified once the whole suite has finished.
type Subscriber func(SuiteResult)

var (
	mu          sync.Mutex
	subscribers []Subscriber
)

// OnSuiteFinished registers s. Subscribers run in registration order.
func OnSuiteFinished(s Subscriber) {
	if s == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	subscribers = append(subscribers, s)
}

func registered() []Subscriber {
	mu.Lock()
	defer mu.Unlock()
	return append([]Subscriber(nil), subscribers...)
}

// Runner is the part of *testing.M that Main needs.
type Runner interface {
	Run() int
}

// Main runs the suite and exits the process.
func Main(m *testing.M, opts ...goleak.Option) {
	os.Exit(Run(m, os.Stderr, opts...))
}

// Run runs the suite, notifies subscribers and checks for leaked
// goroutines. It returns the exit code instead of exiting.
func Run(m Runner, stderr io.Writer, opts ...goleak.Option) int {
	code := m.Run()
	res := SuiteResult{Code: code}
	for _, s := range registered() {
		s(res)
	}
	if code != 0 {
		return code
	}
	if err := goleak.Find(opts...); err != nil {
		fmt.Fprintf(stderr, "goleak: errors on successful test run: %v\n", err)
		return 1
	}
	return 0
}
