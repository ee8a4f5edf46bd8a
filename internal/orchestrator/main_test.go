package orchestrator

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies that ValidateSchema's errgroup-wrapped timeout race
// (orchestrator.go's ValidateSchema) never leaks its goroutine past the
// call returning.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
