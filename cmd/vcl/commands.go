package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/eth2030/vcl/crypto/confidential"
	"github.com/eth2030/vcl/crypto/group"
	"github.com/eth2030/vcl/crypto/transcript"
	"github.com/eth2030/vcl/log"
	"github.com/eth2030/vcl/metrics"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	suiteFlag = &cli.StringFlag{
		Name:  "suite",
		Usage: "group suite (see `vcl suites`)",
	}
	hashFlag = &cli.StringFlag{
		Name:  "hash",
		Usage: "Fiat-Shamir transcript hash (see `vcl suites`)",
	}
	rangeBitsFlag = &cli.IntFlag{
		Name:  "range-bits",
		Usage: "range proof width in bits, 1 to 64",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log.level",
		Usage: "log level: trace, debug, info, warn, error, crit",
	}
	logFormatFlag = &cli.StringFlag{
		Name:  "log.format",
		Usage: "log format: terminal, json, logfmt",
	}
	metricsFlag = &cli.BoolFlag{
		Name:  "metrics",
		Usage: "print Prometheus metrics to stderr when the command ends",
	}
	metricsRuntimeFlag = &cli.BoolFlag{
		Name:  "metrics.runtime",
		Usage: "include Go runtime and process collectors in the metrics dump",
	}

	valueFlag = &cli.Uint64Flag{
		Name:  "value",
		Usage: "credit value",
	}
	creditFlag = &cli.StringFlag{
		Name:  "credit",
		Usage: "hex-encoded credit",
	}
	creditsFlag = &cli.StringSliceFlag{
		Name:  "credit",
		Usage: "hex-encoded credit; give C1, C2 and C3 in order",
	}
	proofFlag = &cli.StringFlag{
		Name:  "proof",
		Usage: "hex-encoded proof",
	}
)

// session holds what Before builds for the command that runs after it.
type session struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg      *Config
	log      *log.Logger
	engine   *confidential.Engine
	registry *prometheus.Registry
}

func (s *session) app() *cli.App {
	return &cli.App{
		Name:      "vcl",
		Usage:     "confidential credits with range and sum-balance proofs",
		Version:   fmt.Sprintf("%s (commit %s)", version, commit),
		Reader:    s.stdin,
		Writer:    s.stdout,
		ErrWriter: s.stderr,
		Flags: []cli.Flag{
			configFlag,
			suiteFlag,
			hashFlag,
			rangeBitsFlag,
			logLevelFlag,
			logFormatFlag,
			metricsFlag,
			metricsRuntimeFlag,
		},
		Before:          s.setup,
		After:           s.teardown,
		OnUsageError:    onUsageError,
		ExitErrHandler:  func(*cli.Context, error) {},
		HideHelpCommand: true,
		Commands: []*cli.Command{
			{
				Name:         "make-credit",
				Usage:        "Commit to a value and print the credit with its opening",
				Flags:        []cli.Flag{valueFlag},
				OnUsageError: onUsageError,
				Action:       s.makeCredit,
			},
			{
				Name:         "prove-range",
				Usage:        "Read an opening from stdin and print a range proof",
				Flags:        []cli.Flag{creditFlag},
				OnUsageError: onUsageError,
				Action:       s.proveRange,
			},
			{
				Name:         "verify-range",
				Usage:        "Check a range proof against a credit",
				Flags:        []cli.Flag{creditFlag, proofFlag},
				OnUsageError: onUsageError,
				Action:       s.verifyRange,
			},
			{
				Name:         "prove-balance",
				Usage:        "Read three openings from stdin and print a sum-balance proof",
				Flags:        []cli.Flag{creditsFlag},
				OnUsageError: onUsageError,
				Action:       s.proveBalance,
			},
			{
				Name:         "verify-balance",
				Usage:        "Check a sum-balance proof against credits C1, C2 and C3",
				Flags:        []cli.Flag{creditsFlag, proofFlag},
				OnUsageError: onUsageError,
				Action:       s.verifyBalance,
			},
			{
				Name:   "suites",
				Usage:  "List group suites and transcript hashes",
				Action: s.suites,
			},
		},
	}
}

func onUsageError(_ *cli.Context, err error, _ bool) error {
	return fmt.Errorf("%w: %v", errUsage, err)
}

// setup resolves the configuration (defaults, then file, then flags) and
// builds the logger, metrics and engine.
func (s *session) setup(ctx *cli.Context) error {
	cfg, err := LoadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	applyFlags(ctx, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg

	level, _ := log.ParseLevel(cfg.Log.Level)
	format, _ := log.ParseFormat(cfg.Log.Format)
	s.log = log.NewWithFormat(s.stderr, format, level)
	log.SetDefault(s.log)

	params, err := cfg.Params()
	if err != nil {
		return err
	}
	opts := []confidential.Option{confidential.WithLogger(s.log.Module("confidential"))}
	if cfg.Metrics.Enabled {
		m := metrics.New()
		reg, err := metrics.NewRegistry(m, cfg.Metrics.Runtime)
		if err != nil {
			return err
		}
		s.registry = reg
		opts = append(opts, confidential.WithMetrics(m))
	}
	s.engine, err = confidential.New(params, opts...)
	if err != nil {
		return err
	}
	s.log.Debug("session ready", "params", params.String(), "metrics", cfg.Metrics.Enabled)
	return nil
}

// applyFlags overrides config values with the flags given on the command line.
func applyFlags(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet(suiteFlag.Name) {
		cfg.Protocol.Suite = ctx.String(suiteFlag.Name)
	}
	if ctx.IsSet(hashFlag.Name) {
		cfg.Protocol.Hash = ctx.String(hashFlag.Name)
	}
	if ctx.IsSet(rangeBitsFlag.Name) {
		cfg.Protocol.RangeBits = ctx.Int(rangeBitsFlag.Name)
	}
	if ctx.IsSet(logLevelFlag.Name) {
		cfg.Log.Level = ctx.String(logLevelFlag.Name)
	}
	if ctx.IsSet(logFormatFlag.Name) {
		cfg.Log.Format = ctx.String(logFormatFlag.Name)
	}
	if ctx.IsSet(metricsFlag.Name) {
		cfg.Metrics.Enabled = ctx.Bool(metricsFlag.Name)
	}
	if ctx.IsSet(metricsRuntimeFlag.Name) {
		cfg.Metrics.Runtime = ctx.Bool(metricsRuntimeFlag.Name)
	}
}

// teardown dumps metrics. It also runs when setup failed.
func (s *session) teardown(*cli.Context) error {
	if s.registry == nil {
		return nil
	}
	return metrics.WriteText(s.stderr, s.registry)
}

func (s *session) makeCredit(ctx *cli.Context) error {
	if !ctx.IsSet(valueFlag.Name) {
		return usageErrorf("--%s is required", valueFlag.Name)
	}
	credit, secret, err := s.engine.MakeCredit(ctx.Uint64(valueFlag.Name))
	if err != nil {
		return err
	}
	return writeJSON(s.stdout, makeCreditOutput{
		Params:  s.engine.Params().String(),
		Credit:  credit,
		Opening: newOpeningJSON(secret),
	})
}

func (s *session) proveRange(ctx *cli.Context) error {
	var in openingJSON
	if err := readJSON(s.stdin, &in); err != nil {
		return err
	}
	secret, err := in.secret(s.engine.Suite())
	if err != nil {
		return err
	}
	out := proveRangeOutput{}
	if ctx.IsSet(creditFlag.Name) {
		out.Credit, err = confidential.DecodeCreditHex(s.engine.Suite(), ctx.String(creditFlag.Name))
		if err != nil {
			return err
		}
		out.Proof, err = s.engine.ProveRangeFor(out.Credit, secret)
	} else {
		out.Proof, err = s.engine.ProveRange(secret)
	}
	if err != nil {
		return err
	}
	return writeJSON(s.stdout, out)
}

func (s *session) verifyRange(ctx *cli.Context) error {
	for _, f := range []string{creditFlag.Name, proofFlag.Name} {
		if !ctx.IsSet(f) {
			return usageErrorf("--%s is required", f)
		}
	}
	credit, err := confidential.DecodeCreditHex(s.engine.Suite(), ctx.String(creditFlag.Name))
	if err != nil {
		return err
	}
	var proof confidential.RangeProof
	if err := proof.UnmarshalText([]byte(ctx.String(proofFlag.Name))); err != nil {
		return err
	}
	return s.report(s.engine.VerifyRange(credit, &proof), proof.Params())
}

func (s *session) proveBalance(ctx *cli.Context) error {
	var in proveBalanceInput
	if err := readJSON(s.stdin, &in); err != nil {
		return err
	}
	if len(in.Openings) != 3 {
		return fmt.Errorf("%w: want 3 openings, got %d", confidential.ErrMalformedEncoding, len(in.Openings))
	}
	var secrets [3]*confidential.OwnerSecret
	for i, o := range in.Openings {
		var err error
		if secrets[i], err = o.secret(s.engine.Suite()); err != nil {
			return fmt.Errorf("opening %d: %w", i+1, err)
		}
	}

	out := proveBalanceOutput{}
	var err error
	if ctx.IsSet(creditsFlag.Name) {
		credits, err := s.decodeCredits(ctx)
		if err != nil {
			return err
		}
		out.Credits = credits[:]
		out.Proof, err = s.engine.ProveSumBalanceFor(credits, secrets)
		if err != nil {
			return err
		}
	} else {
		out.Proof, err = s.engine.ProveSumBalance(secrets[0], secrets[1], secrets[2])
		if err != nil {
			return err
		}
	}
	return writeJSON(s.stdout, out)
}

func (s *session) verifyBalance(ctx *cli.Context) error {
	if !ctx.IsSet(proofFlag.Name) {
		return usageErrorf("--%s is required", proofFlag.Name)
	}
	credits, err := s.decodeCredits(ctx)
	if err != nil {
		return err
	}
	var proof confidential.SumBalanceProof
	if err := proof.UnmarshalText([]byte(ctx.String(proofFlag.Name))); err != nil {
		return err
	}
	return s.report(s.engine.VerifySumBalance(credits, &proof), proof.Params())
}

func (s *session) decodeCredits(ctx *cli.Context) ([3]*confidential.ConfidentialCredit, error) {
	var credits [3]*confidential.ConfidentialCredit
	texts := ctx.StringSlice(creditsFlag.Name)
	if len(texts) != len(credits) {
		return credits, usageErrorf("--%s must be given 3 times, got %d", creditsFlag.Name, len(texts))
	}
	for i, text := range texts {
		c, err := confidential.DecodeCreditHex(s.engine.Suite(), text)
		if err != nil {
			return credits, fmt.Errorf("credit %d: %w", i+1, err)
		}
		credits[i] = c
	}
	return credits, nil
}

// report prints a verification result. A rejected proof is printed and then
// returned as errRejected so that the exit status reflects it.
func (s *session) report(ok bool, p confidential.Params) error {
	if err := writeJSON(s.stdout, verifyOutput{Valid: ok, Params: p.String()}); err != nil {
		return err
	}
	if !ok {
		s.log.Warn("proof rejected", "params", p.String())
		return errRejected
	}
	return nil
}

func (s *session) suites(*cli.Context) error {
	out := suitesOutput{Defaults: s.engine.Params().String()}
	for _, suite := range group.Suites() {
		out.Suites = append(out.Suites, suiteInfo{
			ID:        uint8(suite.ID()),
			Name:      suite.Name(),
			ScalarLen: suite.ScalarLen(),
			PointLen:  suite.PointLen(),
		})
	}
	for _, id := range transcript.HashIDs() {
		out.Hashes = append(out.Hashes, id.String())
	}
	return writeJSON(s.stdout, out)
}
