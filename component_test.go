package ecs

import "testing"

type position struct {
	X, Y float32
}

type velocity struct {
	X, Y float32
}

type tag struct{}

func TestNewComponentSchema(t *testing.T) {
	tests := []struct {
		name      string
		build     func() *Descriptor
		wantTag   bool
		wantField []string
	}{
		{"struct with numeric fields", func() *Descriptor { return NewComponent[position]("position") }, false, []string{"X", "Y"}},
		{"empty struct is a tag", func() *Descriptor { return NewComponent[tag]("tag") }, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.build()
			if d.IsTag() != tt.wantTag {
				t.Fatalf("IsTag() = %v, want %v", d.IsTag(), tt.wantTag)
			}
			if len(d.schema) != len(tt.wantField) {
				t.Fatalf("schema has %d fields, want %d", len(d.schema), len(tt.wantField))
			}
			for i, name := range tt.wantField {
				if d.schema[i].name != name {
					t.Errorf("schema[%d].name = %q, want %q", i, d.schema[i].name, name)
				}
			}
		})
	}
}

func TestNewComponentRejectsReservedName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a reserved component name")
		}
	}()
	NewComponent[position]("id")
}

func TestNewComponentRejectsReservedFieldName(t *testing.T) {
	type bad struct {
		Id int32
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a reserved field name")
		}
	}()
	NewComponent[bad]("bad")
}

func TestWithMaxEntities(t *testing.T) {
	d := NewComponent[position]("position", WithMaxEntities(10))
	if d.MaxEntities() != 10 {
		t.Fatalf("MaxEntities() = %d, want 10", d.MaxEntities())
	}
}
