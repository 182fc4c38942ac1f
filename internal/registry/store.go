package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/five82/palette/internal/colorapi"
	"github.com/five82/palette/internal/logging"
)

var (
	// ErrNotFound is returned when an id is not among the loaded records.
	ErrNotFound = errors.New("color not found")
	// ErrNotEditing is returned by CommitEdit when no record is open.
	ErrNotEditing = errors.New("no color is being edited")
	// ErrFetchFailed wraps every failed Load.
	ErrFetchFailed = errors.New("fetch colors failed")
)

// DefaultCopyFeedback is how long CopiedCode stays set after Copy.
const DefaultCopyFeedback = 500 * time.Millisecond

// Service is the remote authority for color records.
type Service interface {
	List(ctx context.Context, sortByCategory bool) ([]colorapi.Color, error)
	Create(ctx context.Context, in colorapi.ColorInput) (colorapi.Color, error)
	Update(ctx context.Context, id string, in colorapi.ColorInput) (colorapi.Color, error)
	Delete(ctx context.Context, id string) error
}

// Ensure the HTTP client satisfies Service at compile time.
var _ Service = (*colorapi.Client)(nil)

// ClipboardSink receives copied codes.
type ClipboardSink interface {
	Write(text string) error
}

// NotificationSink presents success and error messages to the user.
type NotificationSink interface {
	NotifySuccess(message string)
	NotifyError(message string)
}

// Options configure a Store.
type Options struct {
	Service        Service
	Clipboard      ClipboardSink
	Notifier       NotificationSink
	Scheduler      Scheduler
	CopyFeedback   time.Duration
	StrictCodes    bool
	SortByCategory bool
}

// Store owns the local view of the color collection. All mutations go
// through its methods; readers take copies with State or Subscribe.
type Store struct {
	service      Service
	clipboard    ClipboardSink
	notifier     NotificationSink
	scheduler    Scheduler
	copyFeedback time.Duration
	strict       bool

	mu         sync.Mutex
	state      State
	loadSeq    uint64
	appliedSeq uint64
	copyTimer  Timer
	copyGen    uint64
	subs       map[chan State]struct{}
	closed     bool
	done       chan struct{}
}

// New builds a Store. Only Service is required.
func New(opts Options) (*Store, error) {
	if opts.Service == nil {
		return nil, fmt.Errorf("registry requires a color service")
	}
	s := &Store{
		service:      opts.Service,
		clipboard:    opts.Clipboard,
		notifier:     opts.Notifier,
		scheduler:    opts.Scheduler,
		copyFeedback: opts.CopyFeedback,
		strict:       opts.StrictCodes,
		subs:         make(map[chan State]struct{}),
		done:         make(chan struct{}),
	}
	if s.notifier == nil {
		s.notifier = discardNotifier{}
	}
	if s.scheduler == nil {
		s.scheduler = clockScheduler{}
	}
	if s.copyFeedback <= 0 {
		s.copyFeedback = DefaultCopyFeedback
	}
	s.state.SortByCategory = opts.SortByCategory
	return s, nil
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Load fetches the whole collection and replaces Records. When several loads
// overlap, a response is applied only if no later-requested load has already
// been applied. On failure Records is left untouched.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	sortByCategory := s.state.SortByCategory
	s.state.Busy++
	s.publishLocked()
	s.mu.Unlock()

	colors, err := s.service.List(ctx, sortByCategory)

	s.mu.Lock()
	s.state.Busy--
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrFetchFailed, err)
		// A newer load already applied fresh records; keep its status.
		if seq > s.appliedSeq {
			s.state.LastError = err
		}
		s.publishLocked()
		s.mu.Unlock()
		s.reportError("Could not load colors", err)
		return err
	}
	if seq < s.appliedSeq {
		logging.Debug(logging.CatStore, "stale load dropped", "seq", seq, "applied", s.appliedSeq)
		s.publishLocked()
		s.mu.Unlock()
		return nil
	}
	s.appliedSeq = seq
	s.state.Records = cloneRecords(colors)
	s.state.LastLoaded = time.Now()
	s.state.LastError = nil
	s.publishLocked()
	s.mu.Unlock()

	logging.Debug(logging.CatStore, "load applied", "seq", seq, "count", len(colors))
	return nil
}

// Create sends a new record to the service and reloads. The create form is
// cleared only when the service accepts the record.
func (s *Store) Create(ctx context.Context, code, name, category string) error {
	in, err := s.prepare(code, name, category)
	if err != nil {
		s.reportError("Could not add color", err)
		return err
	}

	s.begin()
	_, err = s.service.Create(ctx, in)

	s.mu.Lock()
	s.state.Busy--
	if err != nil {
		err = fmt.Errorf("add color: %w", err)
		s.state.LastError = err
		s.publishLocked()
		s.mu.Unlock()
		s.reportError("Could not add color", err)
		return err
	}
	s.state.Draft = Form{}
	s.clearCopiedLocked()
	s.publishLocked()
	s.mu.Unlock()

	logging.Info(logging.CatStore, "color created", "code", in.Code)
	s.notifier.NotifySuccess(fmt.Sprintf("Added %s", in.Code))
	_ = s.Load(ctx)
	return nil
}

// BeginEdit opens the record with the given id for editing and seeds the
// edit form from it.
func (s *Store) BeginEdit(id string) error {
	s.mu.Lock()
	rec, ok := findRecord(s.state.Records, id)
	if !ok {
		s.mu.Unlock()
		err := fmt.Errorf("edit %q: %w", id, ErrNotFound)
		s.reportError("Could not edit color", err)
		return err
	}
	s.state.Editing = &rec
	s.state.Edit = Form{Code: rec.Code, Name: rec.Name, Category: rec.Category}
	s.publishLocked()
	s.mu.Unlock()
	return nil
}

// CommitEdit sends the edited values for the open record. On failure the
// record stays open so the edit is not lost.
func (s *Store) CommitEdit(ctx context.Context, code, name, category string) error {
	s.mu.Lock()
	if s.state.Editing == nil {
		s.mu.Unlock()
		s.reportError("Could not update color", ErrNotEditing)
		return ErrNotEditing
	}
	id := s.state.Editing.ID
	s.mu.Unlock()

	in, err := s.prepare(code, name, category)
	if err != nil {
		s.reportError("Could not update color", err)
		return err
	}

	s.begin()
	_, err = s.service.Update(ctx, id, in)

	s.mu.Lock()
	s.state.Busy--
	if err != nil {
		err = fmt.Errorf("update color %s: %w", id, err)
		s.state.LastError = err
		s.publishLocked()
		s.mu.Unlock()
		s.reportError("Could not update color", err)
		return err
	}
	// The user may have switched to another record while the request ran.
	if s.state.Editing != nil && s.state.Editing.ID == id {
		s.state.Editing = nil
		s.state.Edit = Form{}
	}
	s.clearCopiedLocked()
	s.publishLocked()
	s.mu.Unlock()

	logging.Info(logging.CatStore, "color updated", "id", id, "code", in.Code)
	s.notifier.NotifySuccess(fmt.Sprintf("Updated %s", in.Code))
	_ = s.Load(ctx)
	return nil
}

// CancelEdit leaves editing mode without contacting the service.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Editing = nil
	s.state.Edit = Form{}
	s.publishLocked()
}

// Remove deletes the record with the given id. Its content is kept as the
// undo snapshot before the request is sent; if the delete fails the previous
// snapshot is put back.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	rec, ok := findRecord(s.state.Records, id)
	if !ok {
		s.mu.Unlock()
		err := fmt.Errorf("delete %q: %w", id, ErrNotFound)
		s.reportError("Could not delete color", err)
		return err
	}
	previous := s.state.PendingUndo
	snapshot := &rec
	s.state.PendingUndo = snapshot
	s.state.Busy++
	s.publishLocked()
	s.mu.Unlock()

	err := s.service.Delete(ctx, id)

	s.mu.Lock()
	s.state.Busy--
	if err != nil {
		if s.state.PendingUndo == snapshot {
			s.state.PendingUndo = previous
		}
		err = fmt.Errorf("delete color %s: %w", id, err)
		s.state.LastError = err
		s.publishLocked()
		s.mu.Unlock()
		s.reportError("Could not delete color", err)
		return err
	}
	if s.state.Editing != nil && s.state.Editing.ID == id {
		s.state.Editing = nil
		s.state.Edit = Form{}
	}
	s.publishLocked()
	s.mu.Unlock()

	logging.Info(logging.CatStore, "color deleted", "id", id, "code", rec.Code)
	s.notifier.NotifySuccess(fmt.Sprintf("Deleted %s", rec.Code))
	_ = s.Load(ctx)
	return nil
}

// UndoRemove re-creates the most recently deleted record. The service assigns
// a new id; only code, name and category are restored. Without a snapshot it
// does nothing.
func (s *Store) UndoRemove(ctx context.Context) error {
	s.mu.Lock()
	snapshot := s.state.PendingUndo
	if snapshot == nil {
		s.mu.Unlock()
		return nil
	}
	in := snapshot.Input()
	in.Code = Normalize(in.Code)
	s.state.Busy++
	s.publishLocked()
	s.mu.Unlock()

	_, err := s.service.Create(ctx, in)

	s.mu.Lock()
	s.state.Busy--
	if err != nil {
		err = fmt.Errorf("restore color: %w", err)
		s.state.LastError = err
		s.publishLocked()
		s.mu.Unlock()
		s.reportError("Could not restore color", err)
		return err
	}
	// A newer delete may have replaced the snapshot while the request ran.
	if s.state.PendingUndo == snapshot {
		s.state.PendingUndo = nil
	}
	s.publishLocked()
	s.mu.Unlock()

	logging.Info(logging.CatStore, "color restored", "code", in.Code)
	s.notifier.NotifySuccess(fmt.Sprintf("Restored %s", in.Code))
	_ = s.Load(ctx)
	return nil
}

// Copy writes code to the clipboard and shows copy feedback for the
// configured duration. A later Copy replaces the pending expiry.
func (s *Store) Copy(code string) {
	if s.clipboard != nil {
		if err := s.clipboard.Write(code); err != nil {
			logging.Warn(logging.CatClipboard, "clipboard write failed", "code", code, "error", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopCopyTimerLocked()
	s.copyGen++
	gen := s.copyGen
	s.state.CopiedCode = code
	s.copyTimer = s.scheduler.AfterFunc(s.copyFeedback, func() { s.expireCopied(gen) })
	s.publishLocked()
}

func (s *Store) expireCopied(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.copyGen {
		return
	}
	s.copyTimer = nil
	s.state.CopiedCode = ""
	s.publishLocked()
}

// SetDraft mirrors the create form as the user types.
func (s *Store) SetDraft(f Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Draft = f
	s.publishLocked()
}

// SetEditForm mirrors the edit form as the user types. It is ignored while
// browsing.
func (s *Store) SetEditForm(f Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Editing == nil {
		return
	}
	s.state.Edit = f
	s.publishLocked()
}

// SetSortByCategory changes the requested ordering and reloads.
func (s *Store) SetSortByCategory(ctx context.Context, on bool) error {
	s.mu.Lock()
	s.state.SortByCategory = on
	s.publishLocked()
	s.mu.Unlock()
	return s.Load(ctx)
}

// Subscribe returns a channel that receives the state after every change,
// starting with the current one. Only the latest state is buffered. The
// channel is closed when ctx is done or the store is closed.
func (s *Store) Subscribe(ctx context.Context) <-chan State {
	ch := make(chan State, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	s.subs[ch] = struct{}{}
	ch <- s.state.clone()
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}()
	return ch
}

// Close stops the copy timer and closes every subscription.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	s.stopCopyTimerLocked()
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}

func (s *Store) prepare(code, name, category string) (colorapi.ColorInput, error) {
	normalized := Normalize(code)
	if normalized == "" {
		return colorapi.ColorInput{}, ErrEmptyCode
	}
	if s.strict {
		if err := Validate(normalized); err != nil {
			return colorapi.ColorInput{}, err
		}
	}
	return colorapi.ColorInput{Code: normalized, Name: name, Category: category}, nil
}

func (s *Store) begin() {
	s.mu.Lock()
	s.state.Busy++
	s.publishLocked()
	s.mu.Unlock()
}

func (s *Store) clearCopiedLocked() {
	s.stopCopyTimerLocked()
	s.copyGen++
	s.state.CopiedCode = ""
}

func (s *Store) stopCopyTimerLocked() {
	if s.copyTimer != nil {
		s.copyTimer.Stop()
		s.copyTimer = nil
	}
}

// publishLocked hands the current state to every subscriber, replacing any
// state the subscriber has not read yet.
func (s *Store) publishLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.state.clone()
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// reportError logs err and routes it to the notifier. It must be called
// without holding mu.
func (s *Store) reportError(title string, err error) {
	logging.ErrorErr(logging.CatStore, title, err, "kind", colorapi.KindOf(err))
	s.notifier.NotifyError(fmt.Sprintf("%s: %s", title, colorapi.Describe(err)))
}

type discardNotifier struct{}

func (discardNotifier) NotifySuccess(string) {}
func (discardNotifier) NotifyError(string)   {}
