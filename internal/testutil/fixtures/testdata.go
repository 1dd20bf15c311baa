// Package fixtures provides shared test data for the StricklySoft
// systems layer test suite.
//
// Using common values for spawned commands, buffer patterns and argument
// vectors prevents magic strings in tests and keeps the scenarios that
// several packages exercise identical.
package fixtures

// Process fixtures.
const (
	// Greeting is the text the echo fixture prints.
	Greeting = "Hello, world!"

	// SleepSeconds is how long the sleep fixture runs unless killed.
	SleepSeconds = "100"
)

// EchoArgv returns the argument vector printing [Greeting] without a
// trailing newline.
func EchoArgv() []string {
	return []string{"echo", "-n", Greeting}
}

// SleepArgv returns the argument vector of a long-running process.
func SleepArgv() []string {
	return []string{"sleep", SleepSeconds}
}

// GroupArgv returns the argument vector of a shell that forks a sleep
// fixture into the background, prints its pid and waits for it.
func GroupArgv() []string {
	return []string{"sh", "-c", "sleep " + SleepSeconds + " & echo $!; wait"}
}

// Memory fixtures.
const (
	// PatternByte is the fill value of the pattern buffers.
	PatternByte = 'A'

	// Pattern is eight PatternByte bytes.
	Pattern = "AAAAAAAA"

	// MismatchPattern differs from Pattern in its first two bytes.
	MismatchPattern = "BBAAAAAA"
)

// Argument vector fixtures.

// MixedTokens returns a command line mixing every flag form the argument
// parser accepts: a bare short flag, a short flag with attached value, a
// bare long flag, a long flag with an attached value and a positional.
func MixedTokens() []string {
	return []string{"-f", "-bfoo", "--fizz", "--buzz=foo", "bar"}
}

// MixedShortFlags are the short flags declared for [MixedTokens].
func MixedShortFlags() []rune {
	return []rune{'f', 'b'}
}

// MixedLongFlags are the long flags declared for [MixedTokens].
func MixedLongFlags() []string {
	return []string{"fizz", "buzz"}
}
