package registry

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/five82/palette/internal/colorapi"
)

// memService is an in-memory Service with failure injection.
type memService struct {
	mu        sync.Mutex
	nextID    int
	colors    []colorapi.Color
	creates   []colorapi.ColorInput
	updates   map[string]colorapi.ColorInput
	deletes   []string
	lists     int
	listErr   error
	createErr error
	updateErr error
	deleteErr error
	// listHook, when set, replaces the stored list for the given call number.
	listHook func(call int) ([]colorapi.Color, error)
}

func newMemService(colors ...colorapi.Color) *memService {
	return &memService{nextID: 100, colors: colors, updates: map[string]colorapi.ColorInput{}}
}

func (m *memService) List(_ context.Context, _ bool) ([]colorapi.Color, error) {
	m.mu.Lock()
	m.lists++
	call := m.lists
	hook := m.listHook
	m.mu.Unlock()
	if hook != nil {
		return hook(call)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]colorapi.Color(nil), m.colors...), nil
}

func (m *memService) Create(_ context.Context, in colorapi.ColorInput) (colorapi.Color, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates = append(m.creates, in)
	if m.createErr != nil {
		return colorapi.Color{}, m.createErr
	}
	m.nextID++
	c := colorapi.Color{ID: strconv.Itoa(m.nextID), Code: in.Code, Name: in.Name, Category: in.Category}
	m.colors = append(m.colors, c)
	return c, nil
}

func (m *memService) Update(_ context.Context, id string, in colorapi.ColorInput) (colorapi.Color, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates[id] = in
	if m.updateErr != nil {
		return colorapi.Color{}, m.updateErr
	}
	for i, c := range m.colors {
		if c.ID == id {
			m.colors[i] = colorapi.Color{ID: id, Code: in.Code, Name: in.Name, Category: in.Category}
			return m.colors[i], nil
		}
	}
	return colorapi.Color{}, &colorapi.Error{Kind: colorapi.KindStatus, Op: "update", StatusCode: 404}
}

func (m *memService) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, id)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, c := range m.colors {
		if c.ID == id {
			m.colors = append(m.colors[:i], m.colors[i+1:]...)
			return nil
		}
	}
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	success  []string
	failures []string
}

func (n *recordingNotifier) NotifySuccess(msg string) {
	n.mu.Lock()
	n.success = append(n.success, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) NotifyError(msg string) {
	n.mu.Lock()
	n.failures = append(n.failures, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.failures...)
}

type recordingClipboard struct {
	writes []string
	err    error
}

func (c *recordingClipboard) Write(text string) error {
	c.writes = append(c.writes, text)
	return c.err
}

// manualScheduler fires callbacks only when the test says so.
type manualScheduler struct {
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// fire runs timer i regardless of whether it was stopped, the way a real
// timer can fire just before Stop is called.
func (s *manualScheduler) fire(i int) {
	s.timers[i].f()
}

type harness struct {
	store     *Store
	service   *memService
	notifier  *recordingNotifier
	clipboard *recordingClipboard
	scheduler *manualScheduler
}

func newHarness(t *testing.T, service *memService) *harness {
	t.Helper()
	h := &harness{
		service:   service,
		notifier:  &recordingNotifier{},
		clipboard: &recordingClipboard{},
		scheduler: &manualScheduler{},
	}
	store, err := New(Options{
		Service:   service,
		Clipboard: h.clipboard,
		Notifier:  h.notifier,
		Scheduler: h.scheduler,
	})
	require.NoError(t, err)
	t.Cleanup(store.Close)
	h.store = store
	return h
}

func snow() colorapi.Color {
	return colorapi.Color{ID: "1", Code: "#fff", Name: "snow", Category: "white"}
}

func TestNew_RequiresService(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestLoad_ReplacesRecords(t *testing.T) {
	h := newHarness(t, newMemService(snow()))
	ctx := context.Background()

	require.NoError(t, h.store.Load(ctx))
	st := h.store.State()
	assert.Equal(t, []colorapi.Color{snow()}, st.Records)
	assert.False(t, st.LastLoaded.IsZero())
	assert.NoError(t, st.LastError)
	assert.Zero(t, st.Busy)
}

func TestLoad_FailureKeepsRecords(t *testing.T) {
	svc := newMemService(snow())
	h := newHarness(t, svc)
	ctx := context.Background()
	require.NoError(t, h.store.Load(ctx))

	svc.listErr = &colorapi.Error{Kind: colorapi.KindNoResponse, Op: "list", Err: errors.New("connection refused")}
	err := h.store.Load(ctx)
	require.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, colorapi.KindNoResponse, colorapi.KindOf(err))

	st := h.store.State()
	assert.Equal(t, []colorapi.Color{snow()}, st.Records)
	assert.ErrorIs(t, st.LastError, ErrFetchFailed)
	require.Len(t, h.notifier.errors(), 1)
	assert.Contains(t, h.notifier.errors()[0], "No response received from the server")
}

func TestLoad_LastFetchWins(t *testing.T) {
	stale := []colorapi.Color{{ID: "1", Code: "#111"}}
	fresh := []colorapi.Color{{ID: "2", Code: "#222"}}
	started := make(chan struct{})
	release := make(chan struct{})

	svc := newMemService()
	svc.listHook = func(call int) ([]colorapi.Color, error) {
		if call == 1 {
			close(started)
			<-release
			return stale, nil
		}
		return fresh, nil
	}
	h := newHarness(t, svc)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- h.store.Load(ctx) }()
	<-started

	require.NoError(t, h.store.Load(ctx))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, fresh, h.store.State().Records)
}

func TestLoad_StaleFailureKeepsFreshStatus(t *testing.T) {
	fresh := []colorapi.Color{{ID: "2", Code: "#222"}}
	started := make(chan struct{})
	release := make(chan struct{})

	svc := newMemService()
	svc.listHook = func(call int) ([]colorapi.Color, error) {
		if call == 1 {
			close(started)
			<-release
			return nil, errors.New("timeout")
		}
		return fresh, nil
	}
	h := newHarness(t, svc)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- h.store.Load(ctx) }()
	<-started

	require.NoError(t, h.store.Load(ctx))
	close(release)
	require.ErrorIs(t, <-done, ErrFetchFailed)

	st := h.store.State()
	assert.Equal(t, fresh, st.Records)
	assert.NoError(t, st.LastError)
	assert.Len(t, h.notifier.errors(), 1)
}

func TestCreate_NormalizesAndReloads(t *testing.T) {
	svc := newMemService(snow())
	h := newHarness(t, svc)
	ctx := context.Background()
	require.NoError(t, h.store.Load(ctx))
	h.store.SetDraft(Form{Code: "000"})

	require.NoError(t, h.store.Create(ctx, "000", "", ""))

	require.Len(t, svc.creates, 1)
	assert.Equal(t, colorapi.ColorInput{Code: "#000"}, svc.creates[0])

	st := h.store.State()
	require.Len(t, st.Records, 2)
	assert.Equal(t, "#fff", st.Records[0].Code)
	assert.Equal(t, "#000", st.Records[1].Code)
	assert.True(t, st.Draft.IsZero())
	assert.Equal(t, []string{"Added #000"}, h.notifier.success)
}

func TestCreate_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		code := rapid.StringMatching(`#?[0-9a-f]{6}`).Draw(rt, "code")
		svc := newMemService()
		store, err := New(Options{Service: svc, Scheduler: &manualScheduler{}})
		if err != nil {
			rt.Fatalf("New: %v", err)
		}
		defer store.Close()

		ctx := context.Background()
		if err := store.Create(ctx, code, "n", "c"); err != nil {
			rt.Fatalf("Create(%q): %v", code, err)
		}
		if err := store.Load(ctx); err != nil {
			rt.Fatalf("Load: %v", err)
		}
		found := false
		for _, r := range store.State().Records {
			if r.Code == Normalize(code) {
				found = true
			}
		}
		if !found {
			rt.Fatalf("record with code %q missing after create", Normalize(code))
		}
	})
}

func TestCreate_FailureKeepsDraft(t *testing.T) {
	svc := newMemService(snow())
	h := newHarness(t, svc)
	ctx := context.Background()
	require.NoError(t, h.store.Load(ctx))
	h.store.SetDraft(Form{Code: "abc", Name: "x"})

	svc.createErr = &colorapi.Error{Kind: colorapi.KindStatus, Op: "create", StatusCode: 500, Body: "boom"}
	err := h.store.Create(ctx, "abc", "x", "")
	require.Error(t, err)

	st := h.store.State()
	assert.Equal(t, Form{Code: "abc", Name: "x"}, st.Draft)
	assert.Equal(t, []colorapi.Color{snow()}, st.Records)
	require.Len(t, h.notifier.errors(), 1)
	assert.Contains(t, h.notifier.errors()[0], "Server responded with status 500: boom")
}

func TestCreate_RejectsEmptyCode(t *testing.T) {
	svc := newMemService()
	h := newHarness(t, svc)

	err := h.store.Create(context.Background(), "   ", "name", "")
	require.ErrorIs(t, err, ErrEmptyCode)
	assert.Empty(t, svc.creates)
	assert.Len(t, h.notifier.errors(), 1)
}

func TestCreate_StrictCodes(t *testing.T) {
	svc := newMemService()
	store, err := New(Options{Service: svc, StrictCodes: true, Scheduler: &manualScheduler{}})
	require.NoError(t, err)
	defer store.Close()

	err = store.Create(context.Background(), "red", "", "")
	require.ErrorIs(t, err, ErrInvalidCode)
	assert.Empty(t, svc.creates)

	require.NoError(t, store.Create(context.Background(), "f00", "", ""))
}

func TestBeginEdit_UnknownID(t *testing.T) {
	h := newHarness(t, newMemService(snow()))
	require.NoError(t, h.store.Load(context.Background()))

	err := h.store.BeginEdit("nope")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, ModeBrowsing, h.store.State().Mode())
}

func TestBeginEditThenCancel_LeavesRecordsUnchanged(t *testing.T) {
	h := newHarness(t, newMemService(snow()))
	require.NoError(t, h.store.Load(context.Background()))
	before := h.store.State().Records

	require.NoError(t, h.store.BeginEdit("1"))
	st := h.store.State()
	assert.Equal(t, ModeEditing, st.Mode())
	assert.Equal(t, Form{Code: "#fff", Name: "snow", Category: "white"}, st.Edit)

	h.store.SetEditForm(Form{Code: "#000", Name: "changed"})
	h.store.CancelEdit()

	st = h.store.State()
	assert.Equal(t, ModeBrowsing, st.Mode())
	assert.True(t, st.Edit.IsZero())
	assert.Equal(t, before, st.Records)
}

func TestCommitEdit_UpdatesAndExitsEditing(t *testing.T) {
	svc := newMemService(snow())
	h := newHarness(t, svc)
	ctx := context.Background()
	require.NoError(t, h.store.Load(ctx))
	require.NoError(t, h.store.BeginEdit("1"))

	require.NoError(t, h.store.CommitEdit(ctx, "eee", "ash", "white"))

	assert.Equal(t, colorapi.ColorInput{Code: "#eee", Name: "ash", Category: "white"}, svc.updates["1"])
	st := h.store.State()
	assert.Equal(t, ModeBrowsing, st.Mode())
	assert.True(t, st.Edit.IsZero())
	require.Len(t, st.Records, 1)
	assert.Equal(t, "#eee", st.Records[0].Code)
}

func TestCommitEdit_FailureStaysEditing(t *testing.T) {
	svc := newMemService(snow())
	h := newHarness(t, svc)
	ctx := context.Background()
	require.NoError(t, h.store.Load(ctx))
	require.NoError(t, h.store.BeginEdit("1"))

	svc.updateErr = &colorapi.Error{Kind: colorapi.KindRequest, Op: "update", Err: errors.New("bad url")}
	err := h.store.CommitEdit(ctx, "eee", "ash", "white")
	require.Error(t, err)

	st := h.store.State()
	require.NotNil(t, st.Editing)
	assert.Equal(t, "1", st.Editing.ID)
	assert.Equal(t, []colorapi.Color{snow()}, st.Records)
	require.Len(t, h.notifier.errors(), 1)
	assert.Contains(t, h.notifier.errors()[0], "Error setting up the request")
}

func TestCommitEdit_WithoutEditing(t *testing.T) {
	h := newHarness(t, newMemService(snow()))
	err := h.store.CommitEdit(context.Background(), "#000", "", "")
	require.ErrorIs(t, err, ErrNotEditing)
}

func TestRemove_SnapshotsThenUndoRestoresContent(t *testing.T) {
	svc := newMemService(snow())
	h := newHarness(t, svc)
	ctx := context.Background()
	require.NoError(t, h.store.Load(ctx))

	require.NoError(t, h.store.Remove(ctx, "1"))
	st := h.store.State()
	assert.Empty(t, st.Records)
	require.NotNil(t, st.PendingUndo)
	assert.Equal(t, snow(), *st.PendingUndo)

	require.NoError(t, h.store.UndoRemove(ctx))
	require.Len(t, svc.creates, 1)
	assert.Equal(t, colorapi.ColorInput{Code: "#fff", Name: "snow", Category: "white"}, svc.creates[0])

	st = h.store.State()
	assert.Nil(t, st.PendingUndo)
	require.Len(t, st.Records, 1)
	restored := st.Records[0]
	assert.Equal(t, snow().Input(), restored.Input())
	assert.NotEqual(t, "1", restored.ID)
}

func TestUndo_RestoresContentForAnyRecord(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rec := colorapi.Color{
			ID:       "7",
			Code:     rapid.StringMatching(`#[0-9a-f]{6}`).Draw(rt, "code"),
			Name:     rapid.StringMatching(`[a-z ]{0,10}`).Draw(rt, "name"),
			Category: rapid.StringMatching(`[a-z]{0,6}`).Draw(rt, "category"),
		}
		svc := newMemService(rec)
		store, err := New(Options{Service: svc, Scheduler: &manualScheduler{}})
		if err != nil {
			rt.Fatalf("New: %v", err)
		}
		defer store.Close()

		ctx := context.Background()
		if err := store.Load(ctx); err != nil {
			rt.Fatalf("Load: %v", err)
		}
		if err := store.Remove(ctx, rec.ID); err != nil {
			rt.Fatalf("Remove: %v", err)
		}
		if err := store.UndoRemove(ctx); err != nil {
			rt.Fatalf("UndoRemove: %v", err)
		}
		records := store.State().Records
		if len(records) != 1 || records[0].Input() != rec.Input() {
			rt.Fatalf("records after undo = %+v, want content of %+v", records, rec)
		}
	})
}

func TestRemove_SingleLevelUndo(t *testing.T) {
	a := colorapi.Color{ID: "1", Code: "#aaa", Name: "a"}
	b := colorapi.Color{ID: "2", Code: "#bbb", Name: "b"}
	svc := newMemService(a, b)
	h := newHarness(t, svc)
	ctx := context.Background()
	require.NoError(t, h.store.Load(ctx))

	require.NoError(t, h.store.Remove(ctx, "1"))
	require.NoError(t, h.store.Remove(ctx, "2"))
	require.NoError(t, h.store.UndoRemove(ctx))

	records := h.store.State().Records
	require.Len(t, records, 1)
	assert.Equal(t, "#bbb", records[0].Code)

	// Nothing left to undo.
	require.NoError(t, h.store.UndoRemove(ctx))
	assert.Len(t, svc.creates, 1)
}

func TestRemove_FailureRestoresPreviousState(t *testing.T) {
	a := colorapi.Color{ID: "1", Code: "#aaa"}
	b := colorapi.Color{ID: "2", Code: "#bbb"}
	svc := newMemService(a, b)
	h := newHarness(t, svc)
	ctx := context.Background()
	require.NoError(t, h.store.Load(ctx))
	require.NoError(t, h.store.Remove(ctx, "1"))
	before := h.store.State()

	svc.deleteErr = &colorapi.Error{Kind: colorapi.KindStatus, Op: "delete", StatusCode: 503}
	err := h.store.Remove(ctx, "2")
	require.Error(t, err)

	after := h.store.State()
	assert.Equal(t, before.Records, after.Records)
	require.NotNil(t, after.PendingUndo)
	assert.Equal(t, a, *after.PendingUndo)
	require.Len(t, h.notifier.errors(), 1)
	assert.Contains(t, h.notifier.errors()[0], "status 503")
}

func TestRemove_UnknownID(t *testing.T) {
	svc := newMemService(snow())
	h := newHarness(t, svc)
	require.NoError(t, h.store.Load(context.Background()))

	err := h.store.Remove(context.Background(), "9")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, svc.deletes)
	assert.Nil(t, h.store.State().PendingUndo)
}

func TestRemove_ClosesEditOfDeletedRecord(t *testing.T) {
	h := newHarness(t, newMemService(snow()))
	ctx := context.Background()
	require.NoError(t, h.store.Load(ctx))
	require.NoError(t, h.store.BeginEdit("1"))

	require.NoError(t, h.store.Remove(ctx, "1"))
	assert.Equal(t, ModeBrowsing, h.store.State().Mode())
}

func TestUndoRemove_FailureKeepsSnapshot(t *testing.T) {
	svc := newMemService(snow())
	h := newHarness(t, svc)
	ctx := context.Background()
	require.NoError(t, h.store.Load(ctx))
	require.NoError(t, h.store.Remove(ctx, "1"))

	svc.createErr = errors.New("offline")
	require.Error(t, h.store.UndoRemove(ctx))
	require.NotNil(t, h.store.State().PendingUndo)

	svc.createErr = nil
	require.NoError(t, h.store.UndoRemove(ctx))
	assert.Nil(t, h.store.State().PendingUndo)
}

func TestCopy_SetsAndExpires(t *testing.T) {
	h := newHarness(t, newMemService())

	h.store.Copy("#ABC123")
	assert.Equal(t, []string{"#ABC123"}, h.clipboard.writes)
	assert.Equal(t, "#ABC123", h.store.State().CopiedCode)
	require.Len(t, h.scheduler.timers, 1)
	assert.Equal(t, DefaultCopyFeedback, h.scheduler.timers[0].d)

	h.scheduler.fire(0)
	assert.Empty(t, h.store.State().CopiedCode)
}

func TestCopy_SupersedesPendingTimer(t *testing.T) {
	h := newHarness(t, newMemService())

	h.store.Copy("#111")
	h.store.Copy("#222")
	require.Len(t, h.scheduler.timers, 2)
	assert.True(t, h.scheduler.timers[0].stopped)

	// A stale timer that fires anyway must not clear the newer code.
	h.scheduler.fire(0)
	assert.Equal(t, "#222", h.store.State().CopiedCode)

	h.scheduler.fire(1)
	assert.Empty(t, h.store.State().CopiedCode)
}

func TestCopy_ClipboardFailureIsNotSurfaced(t *testing.T) {
	h := newHarness(t, newMemService())
	h.clipboard.err = errors.New("no display")

	h.store.Copy("#fff")
	assert.Equal(t, "#fff", h.store.State().CopiedCode)
	assert.Empty(t, h.notifier.errors())
}

func TestCopy_WithRealClock(t *testing.T) {
	store, err := New(Options{Service: newMemService(), CopyFeedback: 200 * time.Millisecond})
	require.NoError(t, err)
	defer store.Close()

	store.Copy("#fff")
	assert.True(t, store.State().IsCopied("#fff"))
	assert.Eventually(t, func() bool {
		return store.State().CopiedCode == ""
	}, time.Second, 5*time.Millisecond)
}

func TestCreate_ClearsCopied(t *testing.T) {
	h := newHarness(t, newMemService())
	h.store.Copy("#fff")

	require.NoError(t, h.store.Create(context.Background(), "#000", "", ""))
	assert.Empty(t, h.store.State().CopiedCode)
}

func TestDuplicateHint(t *testing.T) {
	h := newHarness(t, newMemService(snow()))
	require.NoError(t, h.store.Load(context.Background()))

	h.store.SetDraft(Form{Code: "FFF"})
	st := h.store.State()
	assert.True(t, st.IsDuplicate("#fff"))
	assert.True(t, st.DraftCollides())

	h.store.SetDraft(Form{Code: "#000"})
	assert.False(t, h.store.State().DraftCollides())
}

func TestSetSortByCategory_Reloads(t *testing.T) {
	svc := newMemService(snow())
	h := newHarness(t, svc)

	require.NoError(t, h.store.SetSortByCategory(context.Background(), true))
	assert.True(t, h.store.State().SortByCategory)
	assert.Equal(t, 1, svc.lists)
}

func TestSubscribe_DeliversLatestState(t *testing.T) {
	h := newHarness(t, newMemService(snow()))
	ctx, cancel := context.WithCancel(context.Background())

	ch := h.store.Subscribe(ctx)
	first := <-ch
	assert.Empty(t, first.Records)

	require.NoError(t, h.store.Load(context.Background()))
	h.store.Copy("#fff")

	// Unread states are replaced, so the next receive is the newest one.
	latest := <-ch
	assert.Len(t, latest.Records, 1)
	assert.Equal(t, "#fff", latest.CopiedCode)

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestClose_ClosesSubscriptions(t *testing.T) {
	store, err := New(Options{Service: newMemService()})
	require.NoError(t, err)

	ch := store.Subscribe(context.Background())
	<-ch
	store.Close()
	_, ok := <-ch
	assert.False(t, ok)

	closed := store.Subscribe(context.Background())
	_, ok = <-closed
	assert.False(t, ok)
}

func TestClose_ReleasesSubscriptionWatchers(t *testing.T) {
	before := runtime.NumGoroutine()
	for range 50 {
		store, err := New(Options{Service: newMemService()})
		require.NoError(t, err)
		<-store.Subscribe(context.Background())
		store.Close()
	}
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+5
	}, time.Second, 10*time.Millisecond)
}

func TestStore_UsableAfterEveryFailure(t *testing.T) {
	svc := newMemService(snow())
	h := newHarness(t, svc)
	ctx := context.Background()

	fail := fmt.Errorf("down")
	svc.listErr, svc.createErr, svc.deleteErr = fail, fail, fail
	require.Error(t, h.store.Load(ctx))
	require.Error(t, h.store.Create(ctx, "#000", "", ""))

	svc.listErr, svc.createErr, svc.deleteErr = nil, nil, nil
	require.NoError(t, h.store.Load(ctx))
	require.NoError(t, h.store.Create(ctx, "#000", "", ""))
	assert.Len(t, h.store.State().Records, 2)
}
