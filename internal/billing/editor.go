package billing

import (
	"errors"
	"math"
)

var (
	ErrEmptyLabel    = errors.New("item label cannot be empty")
	ErrBadFieldValue = errors.New("invalid value for item field")
	ErrItemLocked    = errors.New("item field is locked")
	ErrNoSuchItem    = errors.New("no item at that position")
)

// ItemField names an editable column of a line item.
type ItemField string

const (
	FieldLabel    ItemField = "label"
	FieldQuantity ItemField = "quantity"
	FieldUnitCost ItemField = "unit_cost"
)

// Editor applies the user's hand edits to the draft. It shares the ordered
// item list with the enrichment routines but never touches rows it does not
// own beyond what each operation allows.
type Editor struct {
	store *DraftStore
}

func NewEditor(store *DraftStore) *Editor {
	return &Editor{store: store}
}

// AddItem appends a manual row. Quantity defaults to 1 when not positive.
// Adding a row identical to an existing one is a no-op.
func (e *Editor) AddItem(label string, unitCost float64, quantity int) error {
	if label == "" {
		return ErrEmptyLabel
	}
	if math.IsNaN(unitCost) || math.IsInf(unitCost, 0) {
		return ErrBadFieldValue
	}
	if quantity <= 0 {
		quantity = 1
	}
	e.store.Update(func(d *Draft) {
		d.AppendUnique(LineItem{
			Label:    label,
			UnitCost: unitCost,
			Quantity: quantity,
			Source:   SourceManual,
		})
	})
	return nil
}

// UpdateItem edits one field of the row at index. Label and quantity edits
// are rejected on locked rows; unit cost is editable on every row.
func (e *Editor) UpdateItem(index int, field ItemField, value any) error {
	return e.store.update(func(d *Draft) error {
		if index < 0 || index >= len(d.Items) {
			return ErrNoSuchItem
		}
		it := &d.Items[index]
		switch field {
		case FieldLabel:
			if it.Locked() {
				return ErrItemLocked
			}
			label, ok := value.(string)
			if !ok || label == "" {
				return ErrBadFieldValue
			}
			it.Label = label
		case FieldQuantity:
			if it.Locked() {
				return ErrItemLocked
			}
			quantity, ok := value.(int)
			if !ok || quantity < 0 {
				return ErrBadFieldValue
			}
			it.Quantity = quantity
		case FieldUnitCost:
			cost, ok := value.(float64)
			if !ok || math.IsNaN(cost) || math.IsInf(cost, 0) {
				return ErrBadFieldValue
			}
			it.UnitCost = cost
		default:
			return ErrBadFieldValue
		}
		return nil
	})
}

// RemoveItem deletes the row at index unconditionally. Removing a
// source-owned row is safe: the next enrichment run re-adds it.
func (e *Editor) RemoveItem(index int) error {
	return e.store.update(func(d *Draft) error {
		if index < 0 || index >= len(d.Items) {
			return ErrNoSuchItem
		}
		d.Items = append(d.Items[:index], d.Items[index+1:]...)
		return nil
	})
}
