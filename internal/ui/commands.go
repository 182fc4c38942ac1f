package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/palette/internal/registry"
)

// Messages

type stateMsg registry.State

type noticeMsg Notice

type opKind string

const (
	opLoad   opKind = "load"
	opCreate opKind = "create"
	opCommit opKind = "commit"
	opRemove opKind = "remove"
	opUndo   opKind = "undo"
	opSort   opKind = "sort"
)

// opDoneMsg reports the end of a store operation. Failures have already
// been routed to the notifier by the store.
type opDoneMsg struct {
	op  opKind
	err error
}

// Commands

// listenStates waits for the next state from the store subscription.
func listenStates(ch <-chan registry.State) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg(st)
	}
}

// listenNotices waits for the next notification.
func listenNotices(ch <-chan Notice) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg(n)
	}
}

func loadCmd(ctx context.Context, store *registry.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return opDoneMsg{op: opLoad, err: store.Load(ctx)}
	}
}

func sortCmd(ctx context.Context, store *registry.Store, on bool) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return opDoneMsg{op: opSort, err: store.SetSortByCategory(ctx, on)}
	}
}

func createCmd(ctx context.Context, store *registry.Store, f registry.Form) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: opCreate, err: store.Create(ctx, f.Code, f.Name, f.Category)}
	}
}

func commitCmd(ctx context.Context, store *registry.Store, f registry.Form) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: opCommit, err: store.CommitEdit(ctx, f.Code, f.Name, f.Category)}
	}
}

func removeCmd(ctx context.Context, store *registry.Store, id string) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: opRemove, err: store.Remove(ctx, id)}
	}
}

func undoCmd(ctx context.Context, store *registry.Store) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: opUndo, err: store.UndoRemove(ctx)}
	}
}

// copyCmd runs the clipboard write off the update loop; the copied flag
// arrives with the next state.
func copyCmd(store *registry.Store, code string) tea.Cmd {
	return func() tea.Msg {
		store.Copy(code)
		return nil
	}
}
