// Package workload drives a concurrent stress run against a slotstore.Store
// and checks the results for lost writes, torn reads and snapshot drift.
package workload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/slotstore"
	"github.com/hupe1980/slotstore/internal/resource"
	"github.com/hupe1980/slotstore/testutil"
)

// ErrViolation is returned when a run observed a consistency violation.
var ErrViolation = errors.New("consistency violation")

// Scanned parameter range used by scan operations.
const (
	scanAttribute = "ethos"
	scanLo        = 0.2
	scanHi        = 0.6
)

// Report summarizes a stress run.
type Report struct {
	Workers      int           `json:"workers"`
	Ops          int64         `json:"ops"`
	Inserts      int64         `json:"inserts"`
	Gets         int64         `json:"gets"`
	Hits         int64         `json:"hits"`
	SnapshotOps  int64         `json:"snapshot_ops"`
	Scans        int64         `json:"scans"`
	Trims        int64         `json:"trims"`
	Trimmed      int64         `json:"trimmed_revisions"`
	TrimmedReads int64         `json:"trimmed_reads"`
	VersionCheck int64         `json:"version_checks"`
	PeakWorkers  int64         `json:"peak_workers"`
	Retained     int64         `json:"retained_revisions"`
	FinalVersion uint64        `json:"final_version"`
	Violations   []string      `json:"violations,omitempty"`
	Elapsed      time.Duration `json:"elapsed"`
}

type options struct {
	logger *slotstore.Logger
}

// Option configures Run.
type Option func(*options)

// WithLogger configures logging for the run.
func WithLogger(logger *slotstore.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

type counters struct {
	ops, inserts, gets, hits, snapshots, scans atomic.Int64
	trims, trimmed, trimmedReads               atomic.Int64
	versionChecks, peakWorkers                 atomic.Int64
}

// writers hands out writer IDs so that stamps stay unique across runs
// against the same store.
var writers atomic.Int64

type runner struct {
	store    *slotstore.Store
	cfg      Config
	rc       *resource.Controller
	logger   *slotstore.Logger
	c        counters
	trimming atomic.Bool

	// writerBase offsets worker IDs into this run's writer range.
	writerBase int
	// versions maps the stamp of every node inserted in this run to the
	// version Insert returned for it.
	versions sync.Map

	violations chan string
}

// Run executes cfg against s and returns the report. It returns an error
// wrapping ErrViolation if any check failed, or the context error if ctx was
// canceled first.
func Run(ctx context.Context, s *slotstore.Store, cfg Config, optFns ...Option) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}

	o := options{logger: slotstore.NoopLogger()}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent == 0 {
		maxConcurrent = cfg.Workers
	}

	r := &runner{
		store: s,
		cfg:   cfg,
		rc: resource.NewController(resource.Config{
			MaxWorkers:   int64(maxConcurrent),
			OpsPerSecond: cfg.OpsPerSecond,
			MaxRetained:  cfg.RetainRevisions,
		}),
		logger:     o.logger,
		writerBase: int(writers.Add(int64(cfg.Workers))) - cfg.Workers,
		violations: make(chan string, 64),
	}

	// Revisions already present count against the retention budget.
	before := s.Stats()
	for _, d := range before.ChainDepth {
		r.rc.TrackRetained(int64(d))
	}

	var violations []string
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for v := range r.violations {
			violations = append(violations, v)
		}
	}()

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			return r.worker(gctx, w)
		})
	}
	err := g.Wait()
	elapsed := time.Since(start)

	after := s.Stats()
	retained := int64(0)
	for _, d := range after.ChainDepth {
		retained += int64(d)
	}

	// Every successful insert is either retained or was released by a trim.
	if err == nil {
		want := r.c.inserts.Load() + int64(totalDepth(before)) - r.c.trimmed.Load()
		if retained != want {
			r.violations <- fmt.Sprintf("lost updates: %d revisions retained, expected %d", retained, want)
		}
	}
	close(r.violations)
	<-collected

	rep := Report{
		Workers:      cfg.Workers,
		Ops:          r.c.ops.Load(),
		Inserts:      r.c.inserts.Load(),
		Gets:         r.c.gets.Load(),
		Hits:         r.c.hits.Load(),
		SnapshotOps:  r.c.snapshots.Load(),
		Scans:        r.c.scans.Load(),
		Trims:        r.c.trims.Load(),
		Trimmed:      r.c.trimmed.Load(),
		TrimmedReads: r.c.trimmedReads.Load(),
		VersionCheck: r.c.versionChecks.Load(),
		PeakWorkers:  r.c.peakWorkers.Load(),
		Retained:     retained,
		FinalVersion: after.Version,
		Violations:   violations,
		Elapsed:      elapsed,
	}

	if err != nil {
		return rep, err
	}

	r.logger.Info("workload completed",
		"ops", rep.Ops,
		"inserts", rep.Inserts,
		"violations", len(rep.Violations),
		"elapsed", rep.Elapsed,
	)

	if len(violations) > 0 {
		return rep, fmt.Errorf("%w: %d found, first: %s", ErrViolation, len(violations), violations[0])
	}
	return rep, nil
}

func totalDepth(st slotstore.Stats) int {
	n := 0
	for _, d := range st.ChainDepth {
		n += d
	}
	return n
}

func (r *runner) violation(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.logger.Error("violation", "detail", msg)
	r.violations <- msg
}

func (r *runner) worker(ctx context.Context, id int) error {
	if err := r.rc.AcquireWorker(ctx); err != nil {
		return err
	}
	defer r.rc.ReleaseWorker()
	r.observeActive()

	rng := testutil.NewRNG(r.cfg.Seed + int64(id))

	var lastVersion uint64
	for i := 0; i < r.cfg.OpsPerWorker; i++ {
		if err := r.rc.WaitOp(ctx); err != nil {
			return err
		}
		r.c.ops.Add(1)

		p := rng.Position()
		x := rng.Float64()

		switch {
		case x < r.cfg.InsertRatio:
			lastVersion = r.insert(r.writerBase+id, i, p, lastVersion)
		case x < r.cfg.InsertRatio+r.cfg.SnapshotRatio:
			r.snapshotRead(p)
		case x < r.cfg.InsertRatio+r.cfg.SnapshotRatio+r.cfg.ScanRatio:
			r.scan()
		default:
			r.get(p)
		}

		if r.rc.OverBudget() {
			r.trim()
		}
	}
	return nil
}

func (r *runner) observeActive() {
	active := r.rc.ActiveWorkers()
	for {
		peak := r.c.peakWorkers.Load()
		if active <= peak || r.c.peakWorkers.CompareAndSwap(peak, active) {
			return
		}
	}
}

func (r *runner) insert(worker, seq, p int, lastVersion uint64) uint64 {
	v, err := r.store.Insert(p, testutil.StampedNode(worker, seq, p))
	if err != nil {
		r.violation("insert at %d failed: %v", p, err)
		return lastVersion
	}
	r.c.inserts.Add(1)
	r.rc.TrackRetained(1)
	r.versions.Store(testutil.Stamp(worker, seq), v)

	if v <= lastVersion {
		r.violation("worker %d: version %d not above previous %d", worker, v, lastVersion)
	}
	return v
}

func (r *runner) get(p int) {
	r.c.gets.Add(1)

	n, ok, err := r.store.Get(p)
	if err != nil {
		r.violation("get at %d failed: %v", p, err)
		return
	}
	if !ok {
		return
	}
	r.c.hits.Add(1)
	if !testutil.Consistent(n) {
		r.violation("torn read at position %d", p)
	}
}

func (r *runner) snapshotRead(p int) {
	r.c.snapshots.Add(1)

	tok := r.store.Snapshot()
	first, ok1, err1 := r.store.GetFromSnapshot(tok, p)

	// Let concurrent writers make progress between the two reads.
	_, _, _ = r.store.Get((p + 1) % slotstore.NumPositions)

	second, ok2, err2 := r.store.GetFromSnapshot(tok, p)

	if errors.Is(err1, slotstore.ErrSnapshotTrimmed) || errors.Is(err2, slotstore.ErrSnapshotTrimmed) {
		r.c.trimmedReads.Add(1)
		return
	}
	if err1 != nil || err2 != nil {
		r.violation("snapshot read at %d failed: %v / %v", p, err1, err2)
		return
	}
	if ok1 != ok2 {
		r.violation("snapshot drift at position %d: presence changed for token %d", p, tok)
		return
	}
	if !ok1 {
		return
	}
	if !testutil.Consistent(first) || !testutil.Consistent(second) {
		r.violation("torn snapshot read at position %d", p)
		return
	}
	if first.BaseValue != second.BaseValue {
		r.violation("snapshot drift at position %d: token %d returned two values", p, tok)
		return
	}
	r.checkVersion(tok, p, first)
}

// checkVersion reports a node read at tok whose insert was assigned a version
// above tok. Nodes whose insert has not recorded its version yet, or that
// predate this run, are skipped.
func (r *runner) checkVersion(tok slotstore.Token, p int, n slotstore.Node) {
	stamp := int64(n.BaseValue)
	v, ok := r.versions.Load(stamp)
	if !ok {
		return
	}
	r.c.versionChecks.Add(1)
	if version := v.(uint64); version > tok.Version() {
		r.violation("snapshot read at position %d: token %d returned version %d", p, tok, version)
	}
}

func (r *runner) scan() {
	r.c.scans.Add(1)

	for _, n := range r.store.ScanByAttribute(scanAttribute, scanLo, scanHi) {
		if !testutil.Consistent(n) {
			r.violation("torn scan result at position %d", n.Position)
			continue
		}
		if v, _ := n.Parameter(scanAttribute); v < scanLo || v > scanHi {
			r.violation("scan returned %s=%v outside [%v, %v]", scanAttribute, v, scanLo, scanHi)
		}
	}
}

// trim releases history down to the current version. Only one worker trims
// at a time so that released revisions are counted exactly once.
func (r *runner) trim() {
	if !r.trimming.CompareAndSwap(false, true) {
		return
	}
	defer r.trimming.Store(false)

	removed := r.store.TrimBefore(r.store.Snapshot())
	r.c.trims.Add(1)
	r.c.trimmed.Add(int64(removed))
	r.rc.ReleaseRetained(int64(removed))
}
