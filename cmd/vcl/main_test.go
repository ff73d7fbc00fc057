package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// credit is the make-credit output with the opening kept as raw JSON so it
// can be fed back on stdin.
type credit struct {
	Params  string          `json:"params"`
	Credit  string          `json:"credit"`
	Opening json.RawMessage `json:"opening"`
}

func makeCredit(t *testing.T, value string, flags ...string) credit {
	t.Helper()
	res := runCLI(t, "", append(flags, "make-credit", "--value", value)...)
	require.Equal(t, exitOK, res.code, res.stderr)
	var c credit
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &c))
	return c
}

func decodeOutput(t *testing.T, res cliResult, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(res.stdout), v), res.stdout)
}

func TestRangeRoundTrip(t *testing.T) {
	c := makeCredit(t, "1000", "--range-bits", "16")
	require.Equal(t, "ristretto255/sha3-256/16", c.Params)
	require.True(t, strings.HasPrefix(c.Credit, "0x"))

	res := runCLI(t, string(c.Opening), "--range-bits", "16", "prove-range", "--credit", c.Credit)
	require.Equal(t, exitOK, res.code, res.stderr)
	var proved struct {
		Credit string `json:"credit"`
		Proof  string `json:"proof"`
	}
	decodeOutput(t, res, &proved)
	require.Equal(t, c.Credit, proved.Credit)

	// The default engine is 64 bits wide and accepts the narrower proof.
	res = runCLI(t, "", "verify-range", "--credit", c.Credit, "--proof", proved.Proof)
	require.Equal(t, exitOK, res.code, res.stderr)
	var verdict verifyOutput
	decodeOutput(t, res, &verdict)
	require.True(t, verdict.Valid)
	require.Equal(t, "ristretto255/sha3-256/16", verdict.Params)

	other := makeCredit(t, "1000")
	res = runCLI(t, "", "verify-range", "--credit", other.Credit, "--proof", proved.Proof)
	require.Equal(t, exitRejected, res.code)
	decodeOutput(t, res, &verdict)
	require.False(t, verdict.Valid)

	// A 16-bit engine refuses a 64-bit proof.
	res = runCLI(t, string(other.Opening), "prove-range")
	require.Equal(t, exitOK, res.code, res.stderr)
	proved.Credit, proved.Proof = "", ""
	decodeOutput(t, res, &proved)
	require.Empty(t, proved.Credit)
	res = runCLI(t, "", "--range-bits", "16", "verify-range", "--credit", other.Credit, "--proof", proved.Proof)
	require.Equal(t, exitRejected, res.code)
}

func TestProveRangeErrors(t *testing.T) {
	c := makeCredit(t, "300")
	other := makeCredit(t, "300")

	res := runCLI(t, string(c.Opening), "--range-bits", "8", "prove-range")
	require.Equal(t, exitInput, res.code)
	require.Contains(t, res.stderr, "value out of domain")

	res = runCLI(t, string(c.Opening), "prove-range", "--credit", other.Credit)
	require.Equal(t, exitInput, res.code)
	require.Contains(t, res.stderr, "secret does not open credit")

	for name, stdin := range map[string]string{
		"empty":         "",
		"not json":      "value=1",
		"bad hex":       `{"value": 1, "blinding": "zz"}`,
		"unknown field": `{"value": 1, "blinding": "0x00", "extra": true}`,
		"short scalar":  `{"value": 1, "blinding": "0x0102"}`,
	} {
		res := runCLI(t, stdin, "prove-range")
		require.Equal(t, exitInput, res.code, name)
		require.Contains(t, res.stderr, "malformed encoding", name)
	}
}

func TestVerifyRangeErrors(t *testing.T) {
	c := makeCredit(t, "5", "--range-bits", "4")
	res := runCLI(t, string(c.Opening), "--range-bits", "4", "prove-range")
	require.Equal(t, exitOK, res.code, res.stderr)
	var proved proveRangeOutput
	decodeOutput(t, res, &proved)
	proof, err := proved.Proof.MarshalText()
	require.NoError(t, err)

	res = runCLI(t, "", "verify-range", "--credit", "0x1234", "--proof", string(proof))
	require.Equal(t, exitInput, res.code)

	res = runCLI(t, "", "verify-range", "--credit", c.Credit, "--proof", "0x01")
	require.Equal(t, exitInput, res.code)
	require.Contains(t, res.stderr, "malformed proof")

	res = runCLI(t, "", "verify-range", "--credit", c.Credit)
	require.Equal(t, exitInput, res.code)
	require.Contains(t, res.stderr, "--proof is required")

	// A bn254 engine decodes the credit against its own suite.
	res = runCLI(t, "", "--suite", "bn254", "verify-range", "--credit", c.Credit, "--proof", string(proof))
	require.NotEqual(t, exitOK, res.code)
}

func TestBalanceRoundTrip(t *testing.T) {
	c1 := makeCredit(t, "100")
	c2 := makeCredit(t, "60")
	c3 := makeCredit(t, "40")
	stdin := `{"openings": [` + string(c1.Opening) + "," + string(c2.Opening) + "," + string(c3.Opening) + `]}`

	res := runCLI(t, stdin, "prove-balance", "--credit", c1.Credit, "--credit", c2.Credit, "--credit", c3.Credit)
	require.Equal(t, exitOK, res.code, res.stderr)
	var proved struct {
		Credits []string `json:"credits"`
		Proof   string   `json:"proof"`
	}
	decodeOutput(t, res, &proved)
	require.Equal(t, []string{c1.Credit, c2.Credit, c3.Credit}, proved.Credits)

	res = runCLI(t, "", "verify-balance", "--credit", c1.Credit, "--credit", c2.Credit, "--credit", c3.Credit, "--proof", proved.Proof)
	require.Equal(t, exitOK, res.code, res.stderr)
	var verdict verifyOutput
	decodeOutput(t, res, &verdict)
	require.True(t, verdict.Valid)

	res = runCLI(t, "", "verify-balance", "--credit", c1.Credit, "--credit", c3.Credit, "--credit", c2.Credit, "--proof", proved.Proof)
	require.Equal(t, exitRejected, res.code)

	res = runCLI(t, "", "verify-balance", "--credit", c1.Credit, "--credit", c2.Credit, "--proof", proved.Proof)
	require.Equal(t, exitInput, res.code)

	// Without --credit the proof is produced from the openings alone.
	res = runCLI(t, stdin, "prove-balance")
	require.Equal(t, exitOK, res.code, res.stderr)
	proved.Credits, proved.Proof = nil, ""
	decodeOutput(t, res, &proved)
	require.Empty(t, proved.Credits)
	res = runCLI(t, "", "verify-balance", "--credit", c1.Credit, "--credit", c2.Credit, "--credit", c3.Credit, "--proof", proved.Proof)
	require.Equal(t, exitOK, res.code, res.stderr)
}

func TestProveBalanceErrors(t *testing.T) {
	c1 := makeCredit(t, "100")
	c2 := makeCredit(t, "60")
	c41 := makeCredit(t, "41")

	stdin := `{"openings": [` + string(c1.Opening) + "," + string(c2.Opening) + "," + string(c41.Opening) + `]}`
	res := runCLI(t, stdin, "prove-balance")
	require.Equal(t, exitInput, res.code)
	require.Contains(t, res.stderr, "unbalanced input")

	res = runCLI(t, `{"openings": [`+string(c1.Opening)+`]}`, "prove-balance")
	require.Equal(t, exitInput, res.code)
	require.Contains(t, res.stderr, "want 3 openings")
}

func TestSuitesAndConfig(t *testing.T) {
	res := runCLI(t, "", "suites")
	require.Equal(t, exitOK, res.code, res.stderr)
	var out suitesOutput
	decodeOutput(t, res, &out)
	require.Equal(t, "ristretto255/sha3-256/64", out.Defaults)
	require.Contains(t, out.Hashes, "merlin")
	var names []string
	for _, s := range out.Suites {
		names = append(names, s.Name)
	}
	require.Contains(t, names, "ristretto255")
	require.Contains(t, names, "bn254")

	path := writeConfig(t, "[protocol]\nsuite = \"bn254\"\nhash = \"blake2b-256\"\nrange_bits = 24\n")
	res = runCLI(t, "", "--config", path, "suites")
	require.Equal(t, exitOK, res.code, res.stderr)
	decodeOutput(t, res, &out)
	require.Equal(t, "bn254/blake2b-256/24", out.Defaults)

	// Flags override the file.
	res = runCLI(t, "", "--config", path, "--suite", "ristretto255", "--range-bits", "8", "suites")
	require.Equal(t, exitOK, res.code, res.stderr)
	decodeOutput(t, res, &out)
	require.Equal(t, "ristretto255/blake2b-256/8", out.Defaults)

	res = runCLI(t, "", "--config", path+".missing", "suites")
	require.Equal(t, exitInput, res.code)
	res = runCLI(t, "", "--hash", "md5", "suites")
	require.Equal(t, exitInput, res.code)
}

func TestUsageErrors(t *testing.T) {
	res := runCLI(t, "", "make-credit")
	require.Equal(t, exitInput, res.code)
	require.Contains(t, res.stderr, "--value is required")

	res = runCLI(t, "", "make-credit", "--value", "-1")
	require.Equal(t, exitInput, res.code)

	res = runCLI(t, "", "--no-such-flag", "suites")
	require.Equal(t, exitInput, res.code)
}

func TestMetricsDump(t *testing.T) {
	res := runCLI(t, "", "--metrics", "make-credit", "--value", "7")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stderr, "vcl_credits_issued_total 1")
	require.NotContains(t, res.stderr, "go_goroutines")

	res = runCLI(t, "", "--metrics", "--metrics.runtime", "suites")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stderr, "go_goroutines")
}

func TestOpeningNeverLogged(t *testing.T) {
	res := runCLI(t, "", "--log.level", "trace", "--log.format", "json", "make-credit", "--value", "123456")
	require.Equal(t, exitOK, res.code, res.stderr)
	var c struct {
		Credit  string      `json:"credit"`
		Opening openingJSON `json:"opening"`
	}
	decodeOutput(t, res, &c)
	require.Equal(t, uint64(123456), c.Opening.Value)

	blinding := c.Opening.Blinding.String()[2:]
	require.Contains(t, res.stderr, "credit issued")
	require.Contains(t, res.stderr, c.Credit)
	require.NotContains(t, res.stderr, blinding)

	stdin, err := json.Marshal(c.Opening)
	require.NoError(t, err)
	res = runCLI(t, string(stdin), "--log.level", "trace", "--log.format", "json", "--range-bits", "32", "prove-range")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stderr, "range proof generated")
	require.NotContains(t, res.stderr, blinding)
}
