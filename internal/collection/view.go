// Package collection holds the messages of the open folder and the
// filtered, sorted projection shown to the user.
package collection

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/nhle/noxmail/internal/mailstore"
	"github.com/nhle/noxmail/internal/message"
	"github.com/nhle/noxmail/internal/model"
)

// ErrInvalidIndex is returned for a display index outside the projection.
var ErrInvalidIndex = errors.New("invalid message index")

// Column is a sortable column of the message list.
type Column int

const (
	ColumnDate Column = iota
	ColumnSender
	ColumnSubject
)

// Columns lists all sortable columns in display order.
var Columns = []Column{ColumnDate, ColumnSender, ColumnSubject}

func (c Column) String() string {
	switch c {
	case ColumnSender:
		return "Sender"
	case ColumnSubject:
		return "Subject"
	default:
		return "Date"
	}
}

// Selection is the result of selecting a message.
type Selection struct {
	Record model.MessageRecord
	Body   string
	// Warning is set when the message could not be marked read or its
	// content could not be read. The selection itself still succeeded.
	Warning error
}

// replyCooldown is how long after delivery a reply stays disabled.
const replyCooldown = 24 * time.Hour

// View owns the authoritative records of one folder and derives the
// display projection from them. It is not safe for concurrent use.
type View struct {
	authoritative []model.MessageRecord
	// display holds indices into authoritative.
	display []int

	query  string
	folded string
	fold   cases.Caser

	sortColumn Column
	descending map[Column]bool

	// selectedPath identifies the selected record across recomputations.
	selectedPath string
	selected     int
}

// New returns an empty View sorted by date, newest first.
func New() *View {
	return &View{
		fold:       cases.Fold(),
		sortColumn: ColumnDate,
		descending: map[Column]bool{ColumnDate: true},
		selected:   -1,
	}
}

// SetAuthoritative replaces the record set and clears the selection.
func (v *View) SetAuthoritative(records []model.MessageRecord) {
	v.authoritative = append([]model.MessageRecord(nil), records...)
	v.selectedPath = ""
	v.recompute()
}

// SetSearchQuery filters the projection to records whose subject, sender
// or full date contains text, ignoring case. Empty text shows everything.
func (v *View) SetSearchQuery(text string) {
	v.query = text
	v.folded = v.fold.String(text)
	v.recompute()
}

// SetSort sorts the projection by column.
func (v *View) SetSort(column Column, descending bool) {
	v.sortColumn = column
	v.descending[column] = descending
	v.recompute()
}

// ClickColumn flips the direction of the active column, or switches to
// column using the direction it last had.
func (v *View) ClickColumn(column Column) {
	if column == v.sortColumn {
		v.SetSort(column, !v.descending[column])
		return
	}
	v.SetSort(column, v.descending[column])
}

// Sort returns the active column and its direction.
func (v *View) Sort() (Column, bool) {
	return v.sortColumn, v.descending[v.sortColumn]
}

// Query returns the current search text.
func (v *View) Query() string { return v.query }

// Len returns the number of displayed records.
func (v *View) Len() int { return len(v.display) }

// Display returns a copy of the displayed records in display order.
func (v *View) Display() []model.MessageRecord {
	out := make([]model.MessageRecord, len(v.display))
	for i, idx := range v.display {
		out[i] = v.authoritative[idx]
	}
	return out
}

// At returns the displayed record at index.
func (v *View) At(index int) (model.MessageRecord, bool) {
	if index < 0 || index >= len(v.display) {
		return model.MessageRecord{}, false
	}
	return v.authoritative[v.display[index]], true
}

// Authoritative returns a copy of every record of the folder.
func (v *View) Authoritative() []model.MessageRecord {
	return append([]model.MessageRecord(nil), v.authoritative...)
}

// UnreadCount counts unread records in the whole folder.
func (v *View) UnreadCount() int {
	n := 0
	for _, rec := range v.authoritative {
		if !rec.IsRead {
			n++
		}
	}
	return n
}

// Selected returns the selected display index, or -1.
func (v *View) Selected() int { return v.selected }

// HasSelection reports whether a displayed record is selected.
func (v *View) HasSelection() bool { return v.selected >= 0 }

// ClearSelection deselects any record.
func (v *View) ClearSelection() {
	v.selectedPath = ""
	v.selected = -1
}

// Select makes the record at display index the selection, marks it read
// when needed and extracts its body.
func (v *View) Select(index int) (Selection, error) {
	if index < 0 || index >= len(v.display) {
		return Selection{}, fmt.Errorf("selecting %d of %d: %w", index, len(v.display), ErrInvalidIndex)
	}

	var sel Selection
	idx := v.display[index]
	rec := v.authoritative[idx]
	oldPath := rec.StoragePath

	if !rec.IsRead {
		if err := mailstore.MarkRead(&rec); err != nil {
			sel.Warning = fmt.Errorf("marking message read: %w", err)
		} else {
			v.replace(oldPath, rec)
		}
	}

	raw, err := os.ReadFile(rec.StoragePath)
	if err != nil {
		sel.Warning = errors.Join(sel.Warning, fmt.Errorf("reading message: %w", err))
		sel.Body = message.NoTextFound
	} else {
		sel.Body = message.ExtractBody(raw)
	}

	sel.Record = rec
	v.selectedPath = rec.StoragePath
	v.selected = index
	return sel, nil
}

// replace swaps the record stored under oldPath for rec.
func (v *View) replace(oldPath string, rec model.MessageRecord) {
	for i := range v.authoritative {
		if v.authoritative[i].StoragePath == oldPath {
			v.authoritative[i] = rec
			return
		}
	}
}

// ReplyEligibility reports whether rec may be replied to at now. When not,
// hoursRemaining is the whole number of hours left in the cooldown.
func ReplyEligibility(rec model.MessageRecord, now time.Time) (allowed bool, hoursRemaining int) {
	age := now.Unix() - rec.Timestamp
	if age >= int64(replyCooldown/time.Second) {
		return true, 0
	}
	return false, int(replyCooldown/time.Hour) - int(floorDiv(age, 3600))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Archive moves the displayed record at index into archiveFolder and drops
// it from the view. When it was selected, the selection moves to the record
// that takes its place, else the one before it. On failure the view is
// unchanged.
func (v *View) Archive(index int, archiveFolder string) error {
	if index < 0 || index >= len(v.display) {
		return fmt.Errorf("archiving %d of %d: %w", index, len(v.display), ErrInvalidIndex)
	}

	rec := v.authoritative[v.display[index]]
	oldPath := rec.StoragePath
	if mailstore.ArchiveTarget(archiveFolder, oldPath) == oldPath {
		return nil
	}
	if err := mailstore.Archive(&rec, archiveFolder); err != nil {
		return err
	}

	prev := v.selected
	for i := range v.authoritative {
		if v.authoritative[i].StoragePath == oldPath {
			v.authoritative = append(v.authoritative[:i], v.authoritative[i+1:]...)
			break
		}
	}
	v.recompute()

	switch {
	case prev != index:
		// Another record was selected; recompute kept it.
	case prev < len(v.display):
		v.selectIndex(prev)
	case prev-1 >= 0 && prev-1 < len(v.display):
		v.selectIndex(prev - 1)
	default:
		v.ClearSelection()
	}
	return nil
}

func (v *View) selectIndex(index int) {
	v.selected = index
	v.selectedPath = v.authoritative[v.display[index]].StoragePath
}

// recompute rebuilds the projection and relocates the selection in it.
func (v *View) recompute() {
	v.display = v.display[:0]
	for i, rec := range v.authoritative {
		if v.matches(rec) {
			v.display = append(v.display, i)
		}
	}

	desc := v.descending[v.sortColumn]
	sort.SliceStable(v.display, func(a, b int) bool {
		ia, ib := v.display[a], v.display[b]
		c := v.compare(v.authoritative[ia], v.authoritative[ib])
		if c == 0 {
			return ia < ib
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	v.selected = -1
	if v.selectedPath == "" {
		return
	}
	for i, idx := range v.display {
		if v.authoritative[idx].StoragePath == v.selectedPath {
			v.selected = i
			return
		}
	}
	v.selectedPath = ""
}

func (v *View) matches(rec model.MessageRecord) bool {
	if v.folded == "" {
		return true
	}
	return strings.Contains(v.fold.String(rec.Subject), v.folded) ||
		strings.Contains(v.fold.String(rec.Sender), v.folded) ||
		strings.Contains(v.fold.String(rec.DateFull), v.folded)
}

func (v *View) compare(a, b model.MessageRecord) int {
	switch v.sortColumn {
	case ColumnSender:
		return strings.Compare(v.fold.String(a.Sender), v.fold.String(b.Sender))
	case ColumnSubject:
		return strings.Compare(v.fold.String(a.Subject), v.fold.String(b.Subject))
	default:
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		}
		return 0
	}
}
