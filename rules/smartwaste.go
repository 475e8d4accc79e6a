//go:build ruleguard

// Package gorules holds the ruleguard checks run by golangci-lint.
package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

// ErrorsPackage keeps error construction on the internal errors package so
// every error carries a component and category.
func ErrorsPackage(m dsl.Matcher) {
	m.Match(`fmt.Errorf($*_)`).
		Where(m.File().PkgPath.Matches(`smartwaste/internal/(classifier|datastore|forum|session|translate|mqtt|notification|httpcontroller)`)).
		Report(`use errors.Newf(...).Component(...).Category(...).Build() from internal/errors`)
}

// StdLog flags the standard log package outside main.
func StdLog(m dsl.Matcher) {
	m.Match(`log.Printf($*_)`, `log.Println($*_)`, `log.Print($*_)`, `log.Fatalf($*_)`).
		Where(m.File().Imports("log") && !m.File().PkgPath.Matches(`smartwaste$`)).
		Report(`use the package logger from GetLogger()`)
}

// TimeDateTimeConstants replaces magic layouts with the named constants.
func TimeDateTimeConstants(m dsl.Matcher) {
	m.Match(`$t.Format("2006-01-02 15:04:05")`).
		Report(`use $t.Format(time.DateTime)`).
		Suggest(`$t.Format(time.DateTime)`)

	m.Match(`$t.Format("2006-01-02")`).
		Report(`use $t.Format(time.DateOnly)`).
		Suggest(`$t.Format(time.DateOnly)`)
}

// SessionMutation keeps session state changes inside the session package.
func SessionMutation(m dsl.Matcher) {
	m.Match(`$s.prediction = $_`, `$s.ledger = $_`, `$s.followUp = $_`).
		Where(!m.File().PkgPath.Matches(`internal/session$`)).
		Report(`session state is changed only through Session methods`)
}

// TestingContext prefers t.Context in tests.
func TestingContext(m dsl.Matcher) {
	m.Match(`$ctx, $cancel := context.WithCancel(context.Background()); defer $cancel()`).
		Where(m.File().Name.Matches(`_test\.go$`)).
		Report(`use t.Context() in tests`)
}
