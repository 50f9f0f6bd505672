package domain

import (
	"reflect"
	"testing"
)

func TestIDSet_Toggle(t *testing.T) {
	var s IDSet

	if !s.Toggle("a") {
		t.Fatal("toggling absent id should add it")
	}
	if !s.Has("a") {
		t.Fatal("expected a to be a member")
	}
	if s.Toggle("a") {
		t.Fatal("toggling present id should remove it")
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty set, got %v", s.IDs())
	}
}

func TestIDSet_ToggleTwiceRestores(t *testing.T) {
	s := NewIDSet("x", "y")
	for _, id := range []string{"x", "z"} {
		before := s.String()
		s.Toggle(id)
		s.Toggle(id)
		if s.Len() != 2 || !s.Has("x") || !s.Has("y") {
			t.Errorf("toggle twice of %q changed membership: %q -> %q", id, before, s.String())
		}
	}
}

func TestIDSet_Toggled_LeavesOriginal(t *testing.T) {
	s := NewIDSet("1", "2")
	c := s.Toggled("1")

	if !s.Has("1") {
		t.Error("original should still contain 1")
	}
	if c.Has("1") {
		t.Error("copy should not contain 1")
	}
}

func TestParseIDSet(t *testing.T) {
	s := ParseIDSet(" 3, 1,,3 ,2")
	want := []string{"3", "1", "2"}
	if !reflect.DeepEqual(s.IDs(), want) {
		t.Errorf("ParseIDSet = %v, want %v", s.IDs(), want)
	}
	if s.String() != "3,1,2" {
		t.Errorf("String() = %q", s.String())
	}
	if ParseIDSet("").Len() != 0 {
		t.Error("empty input should parse to empty set")
	}
}

func TestSelection_Transitions(t *testing.T) {
	var s Selection
	if s.State() != Selecting {
		t.Fatal("new selection should be selecting")
	}

	s.Toggle("1")
	if s.State() != Selecting || s.Len() != 1 {
		t.Fatalf("after one pick: state=%v len=%d", s.State(), s.Len())
	}

	s.Toggle("2")
	if s.State() != Comparing {
		t.Fatalf("after two picks expected comparing, got %v", s.State())
	}

	if s.Toggle("3") {
		t.Error("selecting a third experiment should be ignored")
	}
	if !reflect.DeepEqual(s.IDs(), []string{"1", "2"}) {
		t.Errorf("selection changed on overflow: %v", s.IDs())
	}

	if !s.Toggle("2") {
		t.Error("deselecting should report a change")
	}
	if s.State() != Selecting || s.Has("2") {
		t.Errorf("after deselect: state=%v ids=%v", s.State(), s.IDs())
	}

	s.Toggle("3")
	s.Reset()
	if s.Len() != 0 || s.State() != Selecting {
		t.Errorf("reset should clear everything, got %v", s.IDs())
	}
}

func TestNewSelection_DropsOverflow(t *testing.T) {
	s := NewSelection("a", "b", "c", "a")
	// a, b fill it; c is ignored; a is toggled off again.
	if !reflect.DeepEqual(s.IDs(), []string{"b"}) {
		t.Errorf("NewSelection = %v", s.IDs())
	}
}

func TestDefaultOpenSections(t *testing.T) {
	open := DefaultOpenSections()
	for _, sec := range CompareSections {
		if !open.Has(sec) {
			t.Errorf("section %q should be open by default", sec)
		}
	}
	if IsCompareSection("budget") {
		t.Error("budget is not a comparison section")
	}
}
