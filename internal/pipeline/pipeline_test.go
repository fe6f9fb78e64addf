package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"episum/internal/logfile"
	"episum/internal/output"
	"episum/internal/summary"
	"episum/pkg/api"
)

const ts = "[2020-06-01 15:39:38.703324] [info] [1:0] "

func info(s string) string { return ts + s }

var vaxLog = []string{
	info("Tick: 12; VM: 1024; RSS: 512"),
	info("CIntervention: Process 'vax'."),
	info("CActionEnsemble: Target set contains '50' items."),
	info("CSampling: Sampled set size: '30', Not sampled set size: '20'"),
	info("CActionEnsemble: Target set contains '30' items."),
}

func writeLog(t *testing.T, name string, lines []string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return p
}

func run(t *testing.T, paths ...string) (api.SummaryV1, Stats) {
	t.Helper()
	b := summary.NewBuilder()
	p := New(b, nil)
	require.NoError(t, p.ProcessFiles(context.Background(), paths))
	return output.ToAPI(b.Finish()), p.Stats()
}

func size(n int) *int { return &n }

func TestScenarioFromFile(t *testing.T) {
	got, st := run(t, writeLog(t, "vax.log", vaxLog))
	want := api.SummaryV1{{ID: "12", Blocks: []api.BlockV1{{
		ID: "vax",
		Ensemble: api.EnsembleV1{
			TargetSetSize: size(50),
			Sampled:       &api.EnsembleV1{TargetSetSize: size(30)},
		},
	}}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Stats{Files: 1, Lines: 5, InfoLines: 5, Ticks: 1, Blocks: 1, Targets: 2, Samplings: 1}, st)
}

func TestNoiseDoesNotChangeResult(t *testing.T) {
	noisy := []string{
		"plain text without a marker",
		vaxLog[0],
		ts + "CSimulation::output: duration = '12' ms.",
		"[2020-06-01 15:39:38.703324] [debug] [1:0] CActionEnsemble: Target set contains '999' items.",
		vaxLog[1],
		info("CActionEnsemble: Process '1' action definitions in 'once'."),
		vaxLog[2],
		info("CActionEnsemble: Target set contains"),
		info("CSampling: Sampled set size: 'lots', Not sampled set size: '20'"),
		vaxLog[3],
		"",
		"[info]",
		vaxLog[4],
	}
	clean, _ := run(t, writeLog(t, "clean.log", vaxLog))
	dirty, st := run(t, writeLog(t, "dirty.log", noisy))
	if diff := cmp.Diff(clean, dirty); diff != "" {
		t.Fatalf("noise changed the summary (-clean +noisy):\n%s", diff)
	}
	assert.Equal(t, 2, st.Malformed)
	assert.Equal(t, 3, st.Unrecognized)
}

func TestSameFileTwiceAccumulates(t *testing.T) {
	p := writeLog(t, "vax.log", vaxLog)
	got, _ := run(t, p, p)
	require.Len(t, got, 1)
	require.Len(t, got[0].Blocks, 1)
	e := got[0].Blocks[0].Ensemble
	assert.Equal(t, 100, *e.TargetSetSize)
	assert.Equal(t, 60, *e.Sampled.TargetSetSize)
}

func TestMultiFileAccumulation(t *testing.T) {
	a := writeLog(t, "a.log", []string{
		info("Tick: 1;"),
		info("CInitialization: Process initialization 'seed'."),
		info("CActionEnsemble: Target set contains '10' items."),
	})
	b := writeLog(t, "b.log", []string{
		info("Tick: 1;"),
		info("CIntervention: Process 'vax'."),
		info("CActionEnsemble: Target set contains '5' items."),
		info("Tick: 2;"),
		info("CIntervention: Process 'vax'."),
		info("CActionEnsemble: Target set contains '7' items."),
	})
	got, _ := run(t, a, b)

	require.Len(t, got, 2)
	one, ok := got.Tick("1")
	require.True(t, ok)
	require.Len(t, one.Blocks, 2)
	assert.Equal(t, "seed", one.Blocks[0].ID)
	assert.Equal(t, "vax", one.Blocks[1].ID)

	two, ok := got.Tick("2")
	require.True(t, ok)
	vax, ok := two.Block("vax")
	require.True(t, ok)
	assert.Equal(t, 7, *vax.TargetSetSize)
}

func TestDiagnosticsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := New(summary.NewBuilder(), zap.New(core))

	path := writeLog(t, "x.log", []string{
		info("CActionEnsemble: Target set contains '3' items."),
		info("Tick: 1;"),
		info("CSampling: Sampled set size: '1',"),
	})
	require.NoError(t, p.ProcessFiles(context.Background(), []string{path}))

	assert.Equal(t, 1, logs.FilterMessage("processing file").Len())
	orphans := logs.FilterMessage("ignoring event outside of a block").All()
	require.Len(t, orphans, 1)
	assert.Equal(t, zapcore.DebugLevel, orphans[0].Level)
	assert.EqualValues(t, 1, orphans[0].ContextMap()["line"])

	malformed := logs.FilterMessage("skipping malformed line").All()
	require.Len(t, malformed, 1)
	assert.Equal(t, zapcore.WarnLevel, malformed[0].Level)
	assert.EqualValues(t, 3, malformed[0].ContextMap()["line"])
	assert.Equal(t, 1, p.Stats().Orphans)
}

func TestUnreadableFileStopsRun(t *testing.T) {
	good := writeLog(t, "good.log", vaxLog)
	missing := filepath.Join(t.TempDir(), "missing.log")
	later := writeLog(t, "later.log", []string{info("Tick: 99;")})

	b := summary.NewBuilder()
	p := New(b, nil)
	err := p.ProcessFiles(context.Background(), []string{good, missing, later})

	var ae *logfile.AccessError
	require.True(t, errors.As(err, &ae), "got %v", err)
	assert.Equal(t, missing, ae.Path)
	_, seen := b.Table().Tick("99")
	assert.False(t, seen, "files after the failing one must not be read")
	assert.Equal(t, 1, p.Stats().Files)
}

func TestCanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New(summary.NewBuilder(), nil)
	err := p.ProcessFiles(ctx, []string{writeLog(t, "vax.log", vaxLog)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, p.Stats().Lines)
}
