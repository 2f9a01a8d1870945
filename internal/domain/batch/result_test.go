package batch

import (
	"errors"
	"testing"
)

func TestNewOK(t *testing.T) {
	r := NewOK(1)
	if r.ID() != 1 {
		t.Errorf("ID() = %d", r.ID())
	}
	if r.Status() != StatusOK {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusOK)
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestNewError(t *testing.T) {
	err := errors.New("something failed")
	r := NewError(2, err)
	if r.ID() != 2 {
		t.Errorf("ID() = %d", r.ID())
	}
	if r.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusError)
	}
	if !errors.Is(r.Err(), err) {
		t.Errorf("Err() = %v, want %v", r.Err(), err)
	}
}

func TestReport(t *testing.T) {
	var rep Report
	rep.Add(NewOK(1))
	rep.Add(NewError(2, errors.New("boom")))
	rep.Add(NewOK(3))

	if rep.Succeeded() != 2 {
		t.Errorf("Succeeded() = %d, want 2", rep.Succeeded())
	}
	if rep.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", rep.Failed())
	}
	if rep.Total() != 3 {
		t.Errorf("Total() = %d, want 3", rep.Total())
	}
	if f := rep.Failures(); len(f) != 1 || f[0].ID() != 2 {
		t.Errorf("Failures() = %+v", f)
	}
}

func TestReport_Merge(t *testing.T) {
	var a, b Report
	a.Add(NewOK(1))
	b.Add(NewOK(2))
	b.Add(NewError(3, errors.New("x")))

	a.Merge(b)
	if a.Succeeded() != 2 || a.Failed() != 1 {
		t.Errorf("merged = %d ok / %d failed", a.Succeeded(), a.Failed())
	}
}
