// Package scanner walks the full state of a ledger once per pass and feeds
// every object to a set of processors, publishing their documents as one
// snapshot generation when the walk completes.
package scanner

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/core/datasources"
	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/internal/snapshot"
	"github.com/gaze-network/ledger-scanner/modules/ledgerobject"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
	"golang.org/x/sync/errgroup"
)

// Processor consumes the objects of a pass.
type Processor interface {
	Name() string

	// Reset discards all state of the previous pass.
	Reset()

	// Accepts reports whether objects of type t are dispatched to Process.
	Accepts(t ledgerobject.EntryType) bool

	Process(ctx context.Context, obj *ledgerobject.Object) error

	// Finalize returns the documents of the completed pass.
	Finalize(ctx context.Context, header types.LedgerHeader) ([]snapshot.Artifact, error)
}

// Recorder is notified of every pass that ran, successful or not.
type Recorder interface {
	RecordPass(ctx context.Context, result PassResult) error
}

// PassResult summarizes one pass.
type PassResult struct {
	Header     types.LedgerHeader `json:"header"`
	Generation string             `json:"generation,omitempty"`
	Pages      uint64             `json:"pages"`
	Objects    uint64             `json:"objects"`
	StartedAt  time.Time          `json:"started_at"`
	Duration   time.Duration      `json:"duration"`
	Err        error              `json:"-"`
}

func (r PassResult) Failed() bool {
	return r.Err != nil
}

// Scanner drives the pass state machine.
type Scanner struct {
	config     Config
	node       datasources.LedgerNode
	store      *snapshot.Store
	processors []Processor
	decoder    *ledgerobject.Decoder
	recorder   Recorder
	guard      *Guard

	state atomic.Int32
	last  atomic.Pointer[PassResult]

	// sleep waits between retries.
	sleep func(ctx context.Context, d time.Duration) error

	wg       sync.WaitGroup
	started  atomic.Bool
	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

// New creates a scanner. Processors are finalized in the given order.
func New(config Config, node datasources.LedgerNode, store *snapshot.Store, processors ...Processor) *Scanner {
	config.PageLimit = utils.Default(config.PageLimit, DefaultPageLimit)
	config.MaxRetries = utils.Default(config.MaxRetries, DefaultMaxRetries)
	config.RetryBackoff = utils.Default(config.RetryBackoff, DefaultRetryBackoff)
	config.MaxMissedWindows = utils.Default(config.MaxMissedWindows, DefaultMaxMissedWindows)
	if len(config.TypeFilters) == 0 {
		config.TypeFilters = []string{""}
	}

	s := &Scanner{
		config:     config,
		node:       node,
		store:      store,
		processors: processors,
		decoder:    ledgerobject.NewDecoder(),
		sleep:      sleepContext,
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	s.guard = NewGuard(config.MaxMissedWindows, func(missed int) {
		logger.Fatal("Scan pass is stuck, terminating",
			slogx.String("package", "scanner"),
			slogx.Int("missed_windows", missed),
		)
	})
	return s
}

// WithRecorder sets the recorder notified after every pass.
func (s *Scanner) WithRecorder(r Recorder) *Scanner {
	s.recorder = r
	return s
}

// WithGuard replaces the concurrency guard.
func (s *Scanner) WithGuard(g *Guard) *Scanner {
	s.guard = g
	return s
}

func (s *Scanner) State() State {
	return State(s.state.Load())
}

func (s *Scanner) setState(state State) {
	s.state.Store(int32(state))
}

// LastPass returns the result of the most recent pass, nil before the first.
func (s *Scanner) LastPass() *PassResult {
	return s.last.Load()
}

// Status is a point-in-time view of the scanner.
type Status struct {
	State         State       `json:"state"`
	Running       bool        `json:"running"`
	MissedWindows int         `json:"missed_windows"`
	LastPass      *PassResult `json:"last_pass,omitempty"`
	LastError     string      `json:"last_error,omitempty"`
}

func (s *Scanner) Status() Status {
	status := Status{
		State:         s.State(),
		Running:       s.guard.Running(),
		MissedWindows: s.guard.Missed(),
		LastPass:      s.LastPass(),
	}
	if status.LastPass != nil && status.LastPass.Err != nil {
		status.LastError = status.LastPass.Err.Error()
	}
	return status
}

// Scan runs one complete pass. It returns errs.Busy when a pass is already
// running. A failed pass leaves the published snapshot untouched.
func (s *Scanner) Scan(ctx context.Context) (*PassResult, error) {
	if !s.guard.TryAcquire() {
		return nil, errors.Wrapf(errs.Busy, "scan pass already running, %d attempts missed", s.guard.Missed())
	}
	defer s.guard.Release()

	ctx = logger.WithContext(ctx,
		slog.String("package", "scanner"),
		slog.String("node", s.node.Name()),
	)

	result := &PassResult{StartedAt: time.Now()}
	err := s.pass(ctx, result)
	result.Duration = time.Since(result.StartedAt)
	result.Err = err

	if err != nil {
		s.setState(StateFailed)
		for _, p := range s.processors {
			p.Reset()
		}
		logger.ErrorContext(ctx, "Scan pass failed",
			slogx.String("event", "scanner/pass_failed"),
			slogx.Uint64("pages", result.Pages),
			slogx.Uint64("objects", result.Objects),
			slogx.Duration("duration", result.Duration),
			slogx.Error(err),
		)
	} else {
		s.setState(StateIdle)
		logger.InfoContext(ctx, "Scan pass completed",
			slogx.String("event", "scanner/pass_completed"),
			slogx.Stringer("ledger_index", result.Header.Index),
			slogx.String("generation", result.Generation),
			slogx.Uint64("pages", result.Pages),
			slogx.Uint64("objects", result.Objects),
			slogx.Duration("duration", result.Duration),
		)
	}

	s.last.Store(result)
	if s.recorder != nil {
		if rerr := s.recorder.RecordPass(ctx, *result); rerr != nil {
			logger.WarnContext(ctx, "Failed to record scan pass", slogx.Error(rerr))
		}
	}
	if err != nil {
		return result, errors.WithStack(err)
	}
	return result, nil
}

func (s *Scanner) pass(ctx context.Context, result *PassResult) error {
	for _, p := range s.processors {
		p.Reset()
	}

	var ledgerIndex types.LedgerIndex
	for _, filter := range s.config.TypeFilters {
		if err := s.walk(ctx, filter, &ledgerIndex, result); err != nil {
			return errors.Wrapf(err, "walk %q", filter)
		}
	}

	s.setState(StateFinalizing)
	header, err := s.ledgerHeader(ctx, ledgerIndex)
	if err != nil {
		return errors.Wrap(err, "can't fetch ledger header")
	}
	result.Header = header

	gen, err := s.publish(ctx, header)
	if err != nil {
		return errors.WithStack(err)
	}
	result.Generation = gen.Name
	return nil
}

// walk follows the marker chain of one type filter until a page carries no
// marker. The first page of the pass pins the ledger index for every later
// request.
//
// A request error or a page returning the marker it was requested with
// counts as a failed attempt and is not dispatched. The counter resets
// whenever the marker advances.
func (s *Scanner) walk(ctx context.Context, filter string, ledgerIndex *types.LedgerIndex, result *PassResult) error {
	var (
		marker  string
		retries int
	)
	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "context done")
		}

		s.setState(StatePaging)
		entries, page, err := s.fetch(ctx, types.LedgerDataRequest{
			LedgerIndex: *ledgerIndex,
			Marker:      marker,
			Limit:       s.config.PageLimit,
			Type:        filter,
		})
		if err == nil && *ledgerIndex != 0 && page.LedgerIndex != *ledgerIndex {
			err = errors.Wrapf(errs.ProtocolMismatch, "page of ledger %d, pass pinned to %d", page.LedgerIndex, *ledgerIndex)
		}
		if err != nil {
			if errors.Is(err, errs.ProtocolMismatch) {
				return errors.WithStack(err)
			}
			if retries, err = s.retry(ctx, retries, marker, err); err != nil {
				return err
			}
			continue
		}
		if marker != "" && page.Marker == marker {
			if retries, err = s.retry(ctx, retries, marker, errors.Wrap(errs.Transient, "marker did not advance")); err != nil {
				return err
			}
			continue
		}
		retries = 0

		if *ledgerIndex == 0 {
			*ledgerIndex = page.LedgerIndex
			logger.InfoContext(ctx, "Pass pinned to ledger", slogx.Stringer("ledger_index", *ledgerIndex))
		}

		s.setState(StateDispatching)
		if err := s.dispatch(ctx, entries); err != nil {
			return errors.Wrapf(err, "dispatch page at marker %q", marker)
		}
		result.Pages++
		result.Objects += uint64(len(entries))

		logger.DebugContext(ctx, "Page processed",
			slogx.String("event", "scanner/page_fetched"),
			slogx.String("type", filter),
			slogx.Int("objects", len(entries)),
			slogx.Uint64("total_objects", result.Objects),
		)

		if page.Marker == "" {
			return nil
		}
		marker = page.Marker
	}
}

// retry accounts one failed attempt and waits before the next one.
func (s *Scanner) retry(ctx context.Context, retries int, marker string, cause error) (int, error) {
	retries++
	if retries > s.config.MaxRetries {
		return retries, errors.Wrapf(errs.RetryExhausted, "marker %q failed %d times: %v", marker, retries, cause)
	}
	logger.WarnContext(ctx, "Page request failed, retrying",
		slogx.String("event", "scanner/retry"),
		slogx.String("marker", marker),
		slogx.Int("attempt", retries),
		slogx.Error(cause),
	)
	if err := s.sleep(ctx, s.config.RetryBackoff); err != nil {
		return retries, errors.Wrap(err, "context done")
	}
	return retries, nil
}

// fetch requests one page. With reconciliation the page is requested in
// binary and in JSON form against the same ledger and the two are
// cross-checked.
func (s *Scanner) fetch(ctx context.Context, req types.LedgerDataRequest) ([]types.StateEntry, *types.LedgerDataPage, error) {
	if !s.config.Reconcile {
		page, err := s.node.LedgerData(ctx, req)
		if err != nil {
			return nil, nil, errors.WithStack(err)
		}
		return page.State, page, nil
	}

	req.Binary = true
	binary, err := s.node.LedgerData(ctx, req)
	if err != nil {
		return nil, nil, errors.Wrap(err, "binary page")
	}

	req.Binary = false
	req.LedgerIndex = binary.LedgerIndex
	decoded, err := s.node.LedgerData(ctx, req)
	if err != nil {
		return nil, nil, errors.Wrap(err, "json page")
	}

	s.setState(StateReconciling)
	entries, err := reconcile(binary, decoded)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	return entries, binary, nil
}

func (s *Scanner) dispatch(ctx context.Context, entries []types.StateEntry) error {
	for _, entry := range entries {
		obj, err := s.decoder.Decode(entry.Index, entry.Data, entry.JSON)
		if err != nil {
			return errors.WithStack(err)
		}
		for _, p := range s.processors {
			if !p.Accepts(obj.Type) {
				continue
			}
			if err := p.Process(ctx, obj); err != nil {
				return errors.Wrapf(err, "processor %s", p.Name())
			}
		}
	}
	return nil
}

// ledgerHeader fetches the header of the pinned ledger under the same
// retry policy as pages.
func (s *Scanner) ledgerHeader(ctx context.Context, index types.LedgerIndex) (types.LedgerHeader, error) {
	if index == 0 {
		return types.LedgerHeader{}, errors.Wrap(errs.ProtocolMismatch, "no page carried a ledger index")
	}
	var retries int
	for {
		header, err := s.node.Ledger(ctx, index)
		if err == nil {
			if header.Index == 0 {
				header.Index = index
			}
			if header.Index != index {
				return types.LedgerHeader{}, errors.Wrapf(errs.ProtocolMismatch, "ledger %d requested, %d returned", index, header.Index)
			}
			return *header, nil
		}
		if retries, err = s.retry(ctx, retries, "", err); err != nil {
			return types.LedgerHeader{}, err
		}
	}
}

// publish finalizes every processor in order, writes their documents into a
// staging generation and publishes it.
func (s *Scanner) publish(ctx context.Context, header types.LedgerHeader) (*snapshot.Generation, error) {
	staging, err := s.store.Begin(ctx, header.Index)
	if err != nil {
		return nil, errors.Wrap(err, "can't open snapshot staging")
	}

	var published bool
	defer func() {
		if !published {
			staging.Abort()
		}
	}()

	var artifacts []snapshot.Artifact
	for _, p := range s.processors {
		a, err := p.Finalize(ctx, header)
		if err != nil {
			return nil, errors.Wrapf(err, "finalize %s", p.Name())
		}
		artifacts = append(artifacts, a...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(writeConcurrency)
	for _, a := range artifacts {
		g.Go(func() error {
			return errors.WithStack(staging.Write(gctx, a))
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "can't write snapshot")
	}

	gen, err := staging.Publish(ctx, header)
	if err != nil {
		return nil, errors.Wrap(err, "can't publish snapshot")
	}
	published = true
	return gen, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
