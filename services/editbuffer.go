package services

import "strconv"

// Field names the numeric attribute a row edit targets.
type Field int

const (
	FieldArea Field = iota
	FieldPercentage
)

// EditKey identifies a row under edit. Placeholder rows have no record
// id, so the key is a composite of the owning scope (estimate for areas,
// section's category scope for percentages) and the catalog entry id.
// Two placeholders edited at once therefore never collide.
type EditKey struct {
	ScopeID   string
	CatalogID string
	Field     Field
}

// Decision is the outcome of committing a draft.
type Decision int

const (
	// DecisionRevert: the draft was invalid or out of range; the display
	// returns to the last committed value and nothing is written.
	DecisionRevert Decision = iota
	// DecisionNoOp: the parsed value equals the committed value of an
	// already-persisted row; nothing is written.
	DecisionNoOp
	// DecisionSubmit: the parsed value should be handed to the commit
	// protocol.
	DecisionSubmit
)

type draft struct {
	text      string
	committed float64
	persisted bool
}

// EditBuffer tracks in-flight drafts separately from committed values, so
// a half-typed number never corrupts the model and unrelated re-merges
// never clobber what the user is typing. Keys survive reconciliation as
// long as the underlying catalog entry does.
type EditBuffer struct {
	drafts map[EditKey]*draft
}

func NewEditBuffer() *EditBuffer {
	return &EditBuffer{drafts: make(map[EditKey]*draft)}
}

// Begin marks a row as being edited. committed is the row's last stored
// value; persisted says whether the row has a real record behind it.
func (b *EditBuffer) Begin(key EditKey, committed float64, persisted bool) {
	b.drafts[key] = &draft{
		text:      strconv.FormatFloat(committed, 'f', -1, 64),
		committed: committed,
		persisted: persisted,
	}
}

// Change replaces the draft text. Partial or invalid input is fine here;
// validation happens at commit.
func (b *EditBuffer) Change(key EditKey, text string) {
	if d, ok := b.drafts[key]; ok {
		d.text = text
	}
}

// Editing reports whether a draft is open for the key.
func (b *EditBuffer) Editing(key EditKey) bool {
	_, ok := b.drafts[key]
	return ok
}

// Draft returns the current draft text for display.
func (b *EditBuffer) Draft(key EditKey) (string, bool) {
	d, ok := b.drafts[key]
	if !ok {
		return "", false
	}
	return d.text, true
}

// Discard drops the draft without committing, e.g. after a failed write
// (the user must retype to retry).
func (b *EditBuffer) Discard(key EditKey) {
	delete(b.drafts, key)
}

// Commit closes the draft and decides what to do with it. The draft is
// always removed; on DecisionSubmit the parsed value is returned for the
// commit protocol.
func (b *EditBuffer) Commit(key EditKey) (float64, Decision) {
	d, ok := b.drafts[key]
	if !ok {
		return 0, DecisionRevert
	}
	delete(b.drafts, key)

	value, err := strconv.ParseFloat(d.text, 64)
	if err != nil || !InDomain(key.Field, value, d.persisted) {
		return 0, DecisionRevert
	}
	if d.persisted && value == d.committed {
		return value, DecisionNoOp
	}
	return value, DecisionSubmit
}

// InDomain checks a parsed value against the field's range: areas are
// non-negative, percentages sit in [0, 100]. A row that does not exist
// yet needs a positive value, otherwise there is nothing to create.
func InDomain(field Field, value float64, persisted bool) bool {
	if !persisted && value <= 0 {
		return false
	}
	switch field {
	case FieldPercentage:
		return value >= 0 && value <= 100
	default:
		return value >= 0
	}
}
