package debugtest

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type fakeRunner int

func (f fakeRunner) Run() int { return int(f) }

func reset() {
	mu.Lock()
	subscribers = nil
	mu.Unlock()
}

func TestRunNotifiesSubscribersInOrder(t *testing.T) {
	t.Cleanup(reset)

	var calls []string
	OnSuiteFinished(func(r SuiteResult) { calls = append(calls, "first") })
	OnSuiteFinished(nil)
	OnSuiteFinished(func(r SuiteResult) {
		if !r.Passed() {
			t.Errorf("expected passing result, got %d", r.Code)
		}
		calls = append(calls, "second")
	})

	var stderr bytes.Buffer
	if code := Run(fakeRunner(0), &stderr); code != 0 {
		t.Fatalf("Run = %d, stderr: %s", code, stderr.String())
	}
	if strings.Join(calls, ",") != "first,second" {
		t.Fatalf("calls = %v", calls)
	}
}

func TestRunKeepsFailureCode(t *testing.T) {
	t.Cleanup(reset)

	var got SuiteResult
	OnSuiteFinished(func(r SuiteResult) { got = r })

	if code := Run(fakeRunner(3), &bytes.Buffer{}); code != 3 {
		t.Fatalf("Run = %d, want 3", code)
	}
	if got.Code != 3 || got.Passed() {
		t.Fatalf("subscriber saw %+v", got)
	}
}

func TestRunReportsLeakedGoroutine(t *testing.T) {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-stop
	}()

	var stderr bytes.Buffer
	code := Run(fakeRunner(0), &stderr)

	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("leaked goroutine did not stop")
	}

	if code != 1 {
		t.Fatalf("Run = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "goleak") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}
