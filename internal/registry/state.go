package registry

import (
	"time"

	"github.com/five82/palette/internal/colorapi"
)

// Mode is the editing mode layered over the always-available actions.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "browsing"
}

// Form holds the text of a create or edit form.
type Form struct {
	Code     string
	Name     string
	Category string
}

// IsZero reports whether every field is empty.
func (f Form) IsZero() bool {
	return f == Form{}
}

// State is a point-in-time copy of everything the store owns.
type State struct {
	// Records mirrors the last applied fetch, in the order the service returned.
	Records []colorapi.Color
	// Editing is the record open for editing, nil while browsing.
	Editing *colorapi.Color
	// PendingUndo is the most recently deleted record.
	PendingUndo *colorapi.Color
	// CopiedCode is the code most recently copied, empty once feedback expires.
	CopiedCode string

	Draft          Form
	Edit           Form
	SortByCategory bool
	LastLoaded     time.Time
	LastError      error
	Busy           int
}

// Mode reports whether a record is open for editing.
func (s State) Mode() Mode {
	if s.Editing != nil {
		return ModeEditing
	}
	return ModeBrowsing
}

// IsDuplicate reports whether code matches the code typed into the create
// form. It is a display hint; the service does not enforce unique codes.
func (s State) IsDuplicate(code string) bool {
	return SameCode(code, s.Draft.Code)
}

// DraftCollides reports whether any record carries the code in the create form.
func (s State) DraftCollides() bool {
	for _, r := range s.Records {
		if s.IsDuplicate(r.Code) {
			return true
		}
	}
	return false
}

// Find returns the record with the given id.
func (s State) Find(id string) (colorapi.Color, bool) {
	return findRecord(s.Records, id)
}

// IsCopied reports whether code is showing copy feedback.
func (s State) IsCopied(code string) bool {
	return s.CopiedCode != "" && s.CopiedCode == code
}

func (s State) clone() State {
	dup := s
	dup.Records = cloneRecords(s.Records)
	if s.Editing != nil {
		rec := *s.Editing
		dup.Editing = &rec
	}
	if s.PendingUndo != nil {
		rec := *s.PendingUndo
		dup.PendingUndo = &rec
	}
	return dup
}

func findRecord(records []colorapi.Color, id string) (colorapi.Color, bool) {
	if id == "" {
		return colorapi.Color{}, false
	}
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return colorapi.Color{}, false
}

func cloneRecords(items []colorapi.Color) []colorapi.Color {
	if len(items) == 0 {
		return nil
	}
	dup := make([]colorapi.Color, len(items))
	copy(dup, items)
	return dup
}
