// Package ui implements palette's terminal interface with Bubble Tea.
//
// # Overview
//
// The UI draws the color collection as a grid of swatches, each filled with
// its own color, and offers forms to add and edit records. It never changes
// records itself: every action is a call on registry.Store, run inside a
// tea.Cmd so the network round trip stays off the update loop.
//
// # Data flow
//
//	registry.Store ──Subscribe──→ stateMsg ──→ Model.state ──→ View
//	      ↑                                        │
//	      └──────── tea.Cmd (Create, Remove, ...) ←┘ key press
//
//	Notifier ──Notices──→ noticeMsg ──→ toast (3s)
//
// The store publishes a State after every change. listenStates turns the
// subscription into messages and is re-armed after each one. Notifications
// travel the same way through Notifier, which also writes them to the log.
//
// # Layout
//
//	Color Palette  ⠋  12 colors  by category  Nightfox
//	Deleted #c94f6d rose. Press u to undo.
//
//	╭──────────────────╮ ╭──────────────────╮
//	│      snow        │ │      coal        │
//	│      #fff        │ │     Copied!      │
//	│      white       │ │      black       │
//	╰──────────────────╯ ╰──────────────────╯
//
// The title turns to the theme's danger color while the add form holds a code
// that is already in the collection. The undo line appears only while a
// deleted record can be restored. Swatch text is dark or light depending on
// the lightness of the fill, computed with go-colorful.
//
// # Keys
//
// Browsing: arrows or hjkl move, a add, e edit, d or x delete, u undo,
// y or enter copy, s sort by category, r reload, T theme, ? help, q quit.
// Forms: tab and shift+tab move between fields, enter saves, esc cancels.
//
// # Themes
//
// Nightfox, Kanagawa and Slate. The choice is saved to prefs.toml together
// with the sort order.
package ui
