package section

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	apperrors "github.com/opsdeskhq/opsdesk/internal/errors"
)

// Status is the section's load state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "error"
)

// SubmitStatus is the section's create sub-flow state.
type SubmitStatus string

const (
	SubmitIdle    SubmitStatus = "idle"
	SubmitPending SubmitStatus = "submitting"
	SubmitCreated SubmitStatus = "created"
	SubmitFailed  SubmitStatus = "error"
)

// ErrBusy is returned when a create is attempted while another is in flight.
var ErrBusy = errors.New("submission already in progress")

// ErrReadOnly is returned by Create on sections without a creator hook.
var ErrReadOnly = errors.New("section is read-only")

// Fetcher lists a section's raw backend rows.
type Fetcher[R any] func(ctx context.Context) ([]R, error)

// Creator posts a create request and returns the persisted row.
type Creator[R any, Req any] func(ctx context.Context, req Req) (R, error)

// Mapper derives the display row from a backend row.
type Mapper[R, V any] func(R) V

// Request is the create-form contract: requests normalize themselves in
// place, then report human-readable validation issues.
type Request interface {
	Normalize()
	Issues() []string
}

// NoRequest is the request type of read-only sections.
type NoRequest struct{}

func (*NoRequest) Normalize()       {}
func (*NoRequest) Issues() []string { return nil }

// Options groups the hooks and messages for one section. Fetch and MapRow
// are required; Create is omitted for read-only sections.
type Options[R, V any, Req Request] struct {
	// Name tags log lines, e.g. "employees".
	Name   string
	Fetch  Fetcher[R]
	Create Creator[R, Req]
	MapRow Mapper[R, V]
	// LoadErrorMessage is the static message shown for any failed fetch.
	LoadErrorMessage string
	// CreateErrorMessage is the static retry message for failed creates.
	CreateErrorMessage string
	Logger             *slog.Logger
}

// Snapshot is a section's observable state at one instant.
type Snapshot[V any] struct {
	Status  Status
	Rows    []V
	Message string

	Submit        SubmitStatus
	SubmitMessage string
}

// Section drives one resource table: a single cancellable fetch per mount,
// raw-to-view row mapping, and a validated create flow that appends the
// new row without refetching. All methods are safe for concurrent use.
type Section[R, V any, Req Request] struct {
	name      string
	fetch     Fetcher[R]
	create    Creator[R, Req]
	mapRow    Mapper[R, V]
	loadMsg   string
	createMsg string
	logger    *slog.Logger

	mu       sync.Mutex
	status   Status
	submit   SubmitStatus
	rows     []V
	message  string
	smessage string
	cancel   context.CancelFunc
	done     chan struct{}
	mountSeq uint64
}

// New constructs a section from its options.
func New[R, V any, Req Request](opts Options[R, V, Req]) (*Section[R, V, Req], error) {
	if opts.Name == "" {
		return nil, errors.New("section name is required")
	}
	if opts.Fetch == nil {
		return nil, errors.New("fetch hook is required")
	}
	if opts.MapRow == nil {
		return nil, errors.New("row mapper is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loadMsg := opts.LoadErrorMessage
	if loadMsg == "" {
		loadMsg = "Unable to load " + opts.Name + "."
	}
	createMsg := opts.CreateErrorMessage
	if createMsg == "" {
		createMsg = "Unable to save. Please try again."
	}

	return &Section[R, V, Req]{
		name:      opts.Name,
		fetch:     opts.Fetch,
		create:    opts.Create,
		mapRow:    opts.MapRow,
		loadMsg:   loadMsg,
		createMsg: createMsg,
		logger:    logger,
		status:    StatusIdle,
		submit:    SubmitIdle,
	}, nil
}

// Mount starts the section's one list fetch and returns a channel that
// closes when the fetch settles. Mounting an already-loading section does
// not start a second fetch; callers get the in-flight fetch's channel.
// Each (re)mount is a fresh load: previous rows and messages are cleared.
func (s *Section[R, V, Req]) Mount(ctx context.Context) <-chan struct{} {
	s.mu.Lock()
	if s.status == StatusLoading {
		done := s.done
		s.mu.Unlock()
		return done
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.mountSeq++
	seq := s.mountSeq
	s.cancel = cancel
	s.done = done
	s.status = StatusLoading
	s.rows = nil
	s.message = ""
	s.mu.Unlock()

	go s.load(fetchCtx, seq, done)
	return done
}

// Unmount cancels any in-flight fetch and returns the section to idle. A
// fetch canceled this way never surfaces as the error state.
func (s *Section[R, V, Req]) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mountSeq++
	s.status = StatusIdle
	s.message = ""
}

func (s *Section[R, V, Req]) load(ctx context.Context, seq uint64, done chan struct{}) {
	defer close(done)

	rows, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.mountSeq {
		// Unmounted or remounted while fetching; drop the stale result.
		s.logger.Debug("[" + s.name + "][load] stale fetch result dropped")
		return
	}
	s.cancel = nil

	if err != nil {
		if apperrors.IsCanceled(err) || ctx.Err() != nil {
			s.status = StatusIdle
			s.logger.Debug("[" + s.name + "][load] fetch canceled")
			return
		}
		s.status = StatusFailed
		s.message = s.loadMsg
		s.logger.Warn("["+s.name+"][load] fetch failed", "error", err)
		return
	}

	views := make([]V, 0, len(rows))
	for _, row := range rows {
		views = append(views, s.mapRow(row))
	}
	s.rows = views
	s.status = StatusReady
	s.logger.Debug("["+s.name+"][load] ready", "rows", len(views))
}

// Create validates, normalizes and posts a new row. Validation issues
// block the request before any network traffic; a backend failure keeps
// the draft usable and reports the section's static retry message. On
// success the mapped row is appended in place, with no refetch.
func (s *Section[R, V, Req]) Create(ctx context.Context, req Req) (V, error) {
	var zero V
	if s.create == nil {
		return zero, ErrReadOnly
	}

	s.mu.Lock()
	if s.submit == SubmitPending {
		s.mu.Unlock()
		return zero, ErrBusy
	}
	s.submit = SubmitPending
	s.smessage = ""
	s.mu.Unlock()

	req.Normalize()
	if issues := req.Issues(); len(issues) > 0 {
		err := apperrors.Validation(issues)
		s.setSubmit(SubmitFailed, strings.Join(issues, "; "))
		s.logger.Warn("["+s.name+"][create] blocked by validation", "issues", len(issues))
		return zero, err
	}

	row, err := s.create(ctx, req)
	if err != nil {
		if apperrors.IsCanceled(err) {
			s.setSubmit(SubmitIdle, "")
			s.logger.Debug("[" + s.name + "][create] canceled")
			return zero, err
		}
		s.setSubmit(SubmitFailed, s.createMsg)
		s.logger.Warn("["+s.name+"][create] failed", "error", err)
		return zero, err
	}

	view := s.mapRow(row)
	s.mu.Lock()
	s.rows = append(s.rows, view)
	s.submit = SubmitCreated
	s.smessage = ""
	s.mu.Unlock()

	s.logger.Info("[" + s.name + "][create] row added")
	return view, nil
}

// ClearSubmit resets the create sub-flow to idle, e.g. after the caller
// has shown the created/error feedback.
func (s *Section[R, V, Req]) ClearSubmit() {
	s.setSubmit(SubmitIdle, "")
}

// Snapshot returns the current observable state. Rows are copied so the
// caller can render without holding the section's lock.
func (s *Section[R, V, Req]) Snapshot() Snapshot[V] {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]V, len(s.rows))
	copy(rows, s.rows)

	return Snapshot[V]{
		Status:        s.status,
		Rows:          rows,
		Message:       s.message,
		Submit:        s.submit,
		SubmitMessage: s.smessage,
	}
}

// Name returns the section's log tag.
func (s *Section[R, V, Req]) Name() string { return s.name }

func (s *Section[R, V, Req]) setSubmit(status SubmitStatus, message string) {
	s.mu.Lock()
	s.submit = status
	s.smessage = message
	s.mu.Unlock()
}
