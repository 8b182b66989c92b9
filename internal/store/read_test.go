package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func asError(err error, target **Error) bool {
	return errors.As(err, target)
}

func TestList_NoTable(t *testing.T) {
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), nil)

	records, err := s.List(context.Background())
	if KindOf(err) != KindNoTable {
		t.Fatalf("KindOf(err) = %q, want %q", KindOf(err), KindNoTable)
	}
	if records != nil {
		t.Errorf("records = %v, want nil", records)
	}
}

func TestList_Empty(t *testing.T) {
	s := newTestStore(t)

	records, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	// Should return empty slice, not nil
	if records == nil {
		t.Error("records is nil, want empty slice")
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}

func TestList_NaturalOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	names := []string{"Cat", "Amy", "Bob"}
	for _, n := range names {
		s.Insert(ctx, n, "F", "0900")
	}

	records, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	for i, n := range names {
		if records[i].Name != n {
			t.Errorf("records[%d].Name = %q, want %q", i, records[i].Name, n)
		}
	}
}

func TestSearchByPhone(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.Insert(ctx, "Amy", "F", "0911000111")
	s.Insert(ctx, "Bob", "M", "0922333444")
	s.Insert(ctx, "Cat", "F", "0911000111")

	tests := []struct {
		name  string
		phone string
		want  []string
	}{
		{"no match", "0000000000", nil},
		{"single match", "0922333444", []string{"Bob"}},
		{"multiple matches", "0911000111", []string{"Amy", "Cat"}},
		{"prefix is not a match", "0911", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := s.SearchByPhone(ctx, tt.phone)
			if err != nil {
				t.Fatalf("SearchByPhone() failed: %v", err)
			}
			if len(records) != len(tt.want) {
				t.Fatalf("len(records) = %d, want %d", len(records), len(tt.want))
			}
			for i, name := range tt.want {
				if records[i].Name != name {
					t.Errorf("records[%d].Name = %q, want %q", i, records[i].Name, name)
				}
				if records[i].Phone != tt.phone {
					t.Errorf("records[%d].Phone = %q, want %q", i, records[i].Phone, tt.phone)
				}
			}
		})
	}
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}

	s.Insert(ctx, "Amy", "F", "0911000111")
	s.Insert(ctx, "Amy", "F", "0911000111")

	count, err = s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Kind: KindNotFound, Op: "update", Key: "Amy"}, `update: NOT_FOUND ("Amy")`},
		{&Error{Kind: KindFileNotFound, Op: "import", Path: "members.txt"}, "import: FILE_NOT_FOUND (members.txt)"},
		{&Error{Kind: KindMalformedLine, Op: "import", Path: "m.txt", Line: 4, Err: errors.New("bad")}, "import: MALFORMED_LINE (m.txt:4): bad"},
		{&Error{Kind: KindStore, Op: "list", Err: errors.New("disk I/O error")}, "list: STORE_ERROR: disk I/O error"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := &Error{Kind: KindNoTable, Op: "list"}
	wrapped := errors.Join(errors.New("outer"), err)

	if KindOf(wrapped) != KindNoTable {
		t.Errorf("KindOf(wrapped) = %q, want %q", KindOf(wrapped), KindNoTable)
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("KindOf(plain) should be empty")
	}
}
