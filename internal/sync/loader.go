package sync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/noxmail/internal/mailstore"
	"github.com/nhle/noxmail/internal/model"
)

// SyncState represents the current state of the folder loader.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

func (s SyncState) String() string {
	switch s {
	case SyncRunning:
		return "loading"
	case SyncError:
		return "error"
	default:
		return "idle"
	}
}

// SyncStatus describes the most recent load.
type SyncStatus struct {
	State    SyncState
	Folder   string
	LastLoad time.Time
	Error    error
}

// LoadState is the outcome of polling a load.
type LoadState int

const (
	// LoadPending means the load is still running.
	LoadPending LoadState = iota
	// LoadReady carries the scanned records.
	LoadReady
	// LoadFailed carries the error that stopped the scan.
	LoadFailed
	// LoadStale means the handle was superseded or already delivered.
	LoadStale
)

// Handle identifies one load started by Start.
type Handle struct {
	gen    uint64
	Folder string
}

// Result is returned by Poll.
type Result struct {
	State    LoadState
	Folder   string
	Records  []model.MessageRecord
	Contacts map[string]string
	Err      error
}

// PollTickMsg is a tea.Msg sent on every poll interval.
type PollTickMsg struct {
	Time time.Time
}

// ContactSink receives the senders collected by each load.
type ContactSink interface {
	UpsertContacts(ctx context.Context, contacts map[string]string) error
}

// upsertTimeout bounds the contact write made after each scan.
const upsertTimeout = 10 * time.Second

// Loader scans folders on background goroutines. Only the most recently
// started load can be delivered; earlier ones run to completion and their
// results are dropped.
type Loader struct {
	scanner  *mailstore.Scanner
	contacts ContactSink
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      gosync.Mutex
	gen     uint64
	current chan Result
	status  SyncStatus
}

// New creates a Loader. contacts may be nil when no contact store is
// available. A nil logger discards output.
func New(scanner *mailstore.Scanner, contacts ContactSink, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		scanner:  scanner,
		contacts: contacts,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins loading folder and returns the handle to poll. Any earlier
// handle becomes stale.
func (l *Loader) Start(folder string) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.gen++
	ch := make(chan Result, 1)
	l.current = ch
	l.status.State = SyncRunning
	l.status.Folder = folder
	l.status.Error = nil

	go l.load(folder, ch)

	return Handle{gen: l.gen, Folder: folder}
}

// Poll reports the state of the load identified by h without blocking. A
// ready or failed result is delivered once; later polls report LoadStale.
func (l *Loader) Poll(h Handle) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if h.gen != l.gen || l.current == nil {
		return Result{State: LoadStale, Folder: h.Folder}
	}

	select {
	case res := <-l.current:
		l.current = nil
		if res.Err != nil {
			l.status.State = SyncError
			l.status.Error = res.Err
		} else {
			l.status.State = SyncIdle
			l.status.LastLoad = time.Now()
		}
		return res
	default:
		return Result{State: LoadPending, Folder: h.Folder}
	}
}

// Status returns the state of the most recent load.
func (l *Loader) Status() SyncStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Stop cancels running scans. Loads started afterwards fail immediately.
func (l *Loader) Stop() {
	l.cancel()
}

// Tick returns a tea.Cmd that emits a PollTickMsg after interval.
func Tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return PollTickMsg{Time: t}
	})
}

// load scans folder, records its senders and sends exactly one result.
func (l *Loader) load(folder string, ch chan<- Result) {
	started := time.Now()

	res, err := l.scanner.Scan(l.ctx, folder)
	if err != nil {
		ch <- Result{State: LoadFailed, Folder: folder, Err: fmt.Errorf("loading %s: %w", folder, err)}
		return
	}

	if l.contacts != nil && len(res.Contacts) > 0 {
		ctx, cancel := context.WithTimeout(l.ctx, upsertTimeout)
		if err := l.contacts.UpsertContacts(ctx, res.Contacts); err != nil {
			l.logger.Warn("saving contacts", "folder", folder, "error", err)
		}
		cancel()
	}

	l.logger.Info("folder loaded", "folder", folder, "messages", len(res.Records), "elapsed", time.Since(started))
	ch <- Result{
		State:    LoadReady,
		Folder:   folder,
		Records:  res.Records,
		Contacts: res.Contacts,
	}
}
