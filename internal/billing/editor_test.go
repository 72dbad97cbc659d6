package billing

import (
	"errors"
	"math"
	"testing"
)

func storeWith(items ...LineItem) *DraftStore {
	s := NewDraftStore()
	s.Update(func(d *Draft) { d.Items = items })
	return s
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		unitCost float64
		quantity int
		wantErr  error
		wantQty  int
	}{
		{name: "valid", label: "Bandage", unitCost: 20, quantity: 2, wantQty: 2},
		{name: "quantity defaults to one", label: "Gauze", unitCost: 5, quantity: 0, wantQty: 1},
		{name: "empty label rejected", label: "", unitCost: 10, wantErr: ErrEmptyLabel},
		{name: "NaN cost rejected", label: "Gauze", unitCost: math.NaN(), wantErr: ErrBadFieldValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewDraftStore()
			e := NewEditor(s)
			err := e.AddItem(tt.label, tt.unitCost, tt.quantity)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddItem() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if len(s.Snapshot().Items) != 0 {
					t.Fatal("rejected add still appended a row")
				}
				return
			}
			items := s.Snapshot().Items
			if len(items) != 1 {
				t.Fatalf("len(items) = %d, want 1", len(items))
			}
			it := items[0]
			if it.Source != SourceManual || it.Quantity != tt.wantQty {
				t.Fatalf("appended %+v, want manual row with quantity %d", it, tt.wantQty)
			}
		})
	}
}

func TestAddItemCollapsesIdenticalRow(t *testing.T) {
	s := NewDraftStore()
	e := NewEditor(s)
	if err := e.AddItem("Bandage", 20, 1); err != nil {
		t.Fatal(err)
	}
	if err := e.AddItem("Bandage", 20, 1); err != nil {
		t.Fatal(err)
	}
	if n := len(s.Snapshot().Items); n != 1 {
		t.Fatalf("len(items) = %d, want double-add collapsed to 1", n)
	}
}

func TestUpdateItemLockEnforcement(t *testing.T) {
	locked := LineItem{Label: "Scan Cost - MRI", UnitCost: 900, Quantity: 1, Source: SourceScanCost}

	tests := []struct {
		name    string
		field   ItemField
		value   any
		wantErr error
	}{
		{name: "label locked", field: FieldLabel, value: "tampered", wantErr: ErrItemLocked},
		{name: "quantity locked", field: FieldQuantity, value: 3, wantErr: ErrItemLocked},
		{name: "unit cost stays editable", field: FieldUnitCost, value: 850.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := storeWith(locked)
			e := NewEditor(s)
			err := e.UpdateItem(0, tt.field, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UpdateItem() error = %v, wantErr %v", err, tt.wantErr)
			}
			got := s.Snapshot().Items[0]
			if tt.wantErr != nil {
				if got != locked {
					t.Fatalf("locked row changed: %+v", got)
				}
				return
			}
			if got.UnitCost != 850 {
				t.Fatalf("unit cost = %v, want 850", got.UnitCost)
			}
			if got.Label != locked.Label || got.Quantity != locked.Quantity {
				t.Fatal("cost edit touched other fields")
			}
		})
	}
}

func TestUpdateItemManualRow(t *testing.T) {
	s := storeWith(LineItem{Label: "Bandage", UnitCost: 20, Quantity: 1, Source: SourceManual})
	e := NewEditor(s)

	if err := e.UpdateItem(0, FieldLabel, "Elastic Bandage"); err != nil {
		t.Fatal(err)
	}
	if err := e.UpdateItem(0, FieldQuantity, 4); err != nil {
		t.Fatal(err)
	}
	got := s.Snapshot().Items[0]
	if got.Label != "Elastic Bandage" || got.Quantity != 4 {
		t.Fatalf("row = %+v after edits", got)
	}
}

func TestUpdateItemBadValues(t *testing.T) {
	s := storeWith(LineItem{Label: "Bandage", Source: SourceManual, Quantity: 1})
	e := NewEditor(s)

	if err := e.UpdateItem(0, FieldQuantity, "three"); !errors.Is(err, ErrBadFieldValue) {
		t.Fatalf("wrong type accepted: %v", err)
	}
	if err := e.UpdateItem(0, FieldLabel, ""); !errors.Is(err, ErrBadFieldValue) {
		t.Fatalf("empty label accepted: %v", err)
	}
	if err := e.UpdateItem(5, FieldLabel, "x"); !errors.Is(err, ErrNoSuchItem) {
		t.Fatalf("out-of-range index accepted: %v", err)
	}
}

func TestRemoveItemIsUnconditional(t *testing.T) {
	s := storeWith(
		LineItem{Label: "Scan Cost - MRI", Source: SourceScanCost},
		LineItem{Label: "Bandage", Source: SourceManual},
	)
	e := NewEditor(s)

	if err := e.RemoveItem(0); err != nil {
		t.Fatalf("removing a locked row must succeed: %v", err)
	}
	items := s.Snapshot().Items
	if len(items) != 1 || items[0].Label != "Bandage" {
		t.Fatalf("items = %v after removal", labels(items))
	}
	if err := e.RemoveItem(7); !errors.Is(err, ErrNoSuchItem) {
		t.Fatalf("out-of-range removal: %v", err)
	}
}
