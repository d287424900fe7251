// Package shared holds helpers used across the dashboard packages.
//
// The testutil subpackage provides a capturing slog handler and rental
// fixtures (CSV text and typed rows) for package tests:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    tables := testutil.SampleTables(t)
//	    ...
//	    testutil.AssertNoErrors(t, logs)
//	}
package shared
