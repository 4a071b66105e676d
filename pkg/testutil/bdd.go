package testutil

import "testing"

// Scenario steps. Each one is a t.Run named after its keyword, so
// `go test -v` prints the scenario as nested Given/When/Then/And lines and a
// failure points at the step that broke.
const (
	keywordGiven = "Given"
	keywordWhen  = "When"
	keywordThen  = "Then"
	keywordAnd   = "And"
)

func step(t *testing.T, keyword, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return t.Run(keyword+" "+desc, fn)
}

// Given sets up the state a scenario starts from.
func Given(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, keywordGiven, desc, fn)
}

// When performs the action under test.
func When(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, keywordWhen, desc, fn)
}

// Then asserts an outcome.
func Then(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, keywordThen, desc, fn)
}

// And adds an outcome or precondition to the step it is nested in.
func And(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, keywordAnd, desc, fn)
}
