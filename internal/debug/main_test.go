package debug

import (
	"testing"

	"backtrace/internal/debugtest"
)

func TestMain(m *testing.M) {
	debugtest.Main(m)
}
