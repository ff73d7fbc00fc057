package metrics

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CreditIssued(t *testing.T) {
	m := New()
	m.CreditIssued()
	m.CreditIssued()
	require.Equal(t, 2.0, testutil.ToFloat64(m.CreditsIssued))
}

func TestMetrics_ProofGenerated(t *testing.T) {
	m := New()
	m.ProofGenerated(KindRange, 5*time.Millisecond)
	m.ProofGenerated(KindRange, 7*time.Millisecond)
	m.ProofGenerated(KindBalance, time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.ProofsGenerated.WithLabelValues("range")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ProofsGenerated.WithLabelValues("balance")))
	require.Equal(t, 2, testutil.CollectAndCount(m.ProveDuration))
}

func TestMetrics_Verified(t *testing.T) {
	m := New()
	m.Verified(KindRange, true, time.Millisecond)
	m.Verified(KindRange, false, time.Millisecond)
	m.Verified(KindRange, false, time.Millisecond)
	m.Verified(KindBalance, true, time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(m.Verifications.WithLabelValues("range", ResultAccepted)))
	require.Equal(t, 2.0, testutil.ToFloat64(m.Verifications.WithLabelValues("range", ResultRejected)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Verifications.WithLabelValues("balance", ResultAccepted)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.CreditIssued()
		m.ProofGenerated(KindRange, time.Second)
		m.Verified(KindBalance, true, time.Second)
	})
}

func TestMetrics_Concurrent(t *testing.T) {
	m := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.CreditIssued()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 800.0, testutil.ToFloat64(m.CreditsIssued))
}

func TestMetrics_RegisterTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRegistered(reg)
	require.NoError(t, err)
	_, err = NewRegistered(reg)
	require.Error(t, err)
}

func TestWriteText(t *testing.T) {
	m := New()
	reg, err := NewRegistry(m, false)
	require.NoError(t, err)

	m.CreditIssued()
	m.Verified(KindRange, true, 3*time.Millisecond)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))
	out := buf.String()

	require.Contains(t, out, "vcl_credits_issued_total 1")
	require.Contains(t, out, `vcl_verifications_total{kind="range",result="accepted"} 1`)
	require.Contains(t, out, "# TYPE vcl_verify_duration_seconds histogram")
	require.False(t, strings.Contains(out, "go_goroutines"))
}

func TestNewRegistry_Runtime(t *testing.T) {
	reg, err := NewRegistry(New(), true)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))
	require.Contains(t, buf.String(), "go_goroutines")
}
