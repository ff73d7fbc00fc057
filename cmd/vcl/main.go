// Command vcl issues confidential credits and produces and checks range and
// sum-balance proofs over them.
//
// Usage:
//
//	vcl [global flags] <command> [flags]
//
// Commands:
//
//	make-credit     Commit to a value; prints the credit and its opening
//	prove-range     Read an opening on stdin; prints a range proof
//	verify-range    Check a range proof against a credit
//	prove-balance   Read three openings on stdin; prints a sum-balance proof
//	verify-balance  Check a sum-balance proof against three credits
//	suites          List group suites and transcript hashes
//
// Openings are read from stdin and written to stdout only; they are never
// taken from flags and never logged.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/eth2030/vcl/crypto/confidential"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitInput    = 2
	exitRejected = 3
)

var (
	// errRejected is returned by the verify commands after printing a
	// negative result.
	errRejected = errors.New("proof rejected")

	// errUsage marks bad command-line usage.
	errUsage = errors.New("usage")
)

// inputErrors are caller mistakes reported with exitInput.
var inputErrors = []error{
	errUsage,
	confidential.ErrMalformedEncoding,
	confidential.ErrMalformedProof,
	confidential.ErrInconsistentSecret,
	confidential.ErrUnbalancedInput,
	confidential.ErrValueOutOfDomain,
	confidential.ErrSuiteMismatch,
	confidential.ErrInvalidParams,
	ErrConfigFileNotFound,
	ErrInvalidConfig,
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	s := &session{stdin: stdin, stdout: stdout, stderr: stderr}
	err := s.app().Run(append([]string{"vcl"}, args...))
	code := exitCode(err)
	if code != exitOK && code != exitRejected {
		fmt.Fprintf(stderr, "vcl: %v\n", err)
	}
	return code
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, errRejected) {
		return exitRejected
	}
	for _, target := range inputErrors {
		if errors.Is(err, target) {
			return exitInput
		}
	}
	return exitFailure
}

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}
