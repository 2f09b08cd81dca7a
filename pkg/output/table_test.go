package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinter_Images_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Images(nil)

	if buf.Len() != 0 {
		t.Errorf("Images(nil) should output nothing, got %q", buf.String())
	}
}

func TestPrinter_Images_WithRows(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Images([]ImageRow{
		{Target: "x86_64-unknown-linux-gnu", Tier: "auto", Image: "quay.io/pypa/manylinux2010_x86_64:latest"},
		{Target: "x86_64-unknown-linux-gnu", Tier: "2014", Image: "quay.io/pypa/manylinux2014_x86_64:latest"},
	})

	got := buf.String()
	// go-pretty uppercases headers
	for _, want := range []string{"CONTAINERS", "TARGET", "TIER", "IMAGE", "manylinux2014_x86_64"} {
		if !strings.Contains(got, want) {
			t.Errorf("Images() should contain %q, got %q", want, got)
		}
	}
	if n := strings.Count(got, "x86_64-unknown-linux-gnu"); n != 1 {
		t.Errorf("expected repeated target to be printed once, got %d", n)
	}
}

func TestPrinter_Summary(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Summary("PLAN", []Field{
		{Name: "Mode", Value: "container"},
		{Name: "Target", Value: ""},
	})

	got := buf.String()
	if !strings.Contains(got, "PLAN") {
		t.Error("Summary() should contain title")
	}
	if !strings.Contains(got, "container") {
		t.Error("Summary() should contain values")
	}
	if !strings.Contains(got, "-") {
		t.Error("Summary() should render empty values as '-'")
	}
}

func TestPrinter_Summary_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Summary("PLAN", nil)

	if buf.Len() != 0 {
		t.Errorf("Summary with no fields should output nothing, got %q", buf.String())
	}
}

func TestPrinter_Result(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Result("failed", "maturin: returned 1")

	if got := buf.String(); got != "failed  maturin: returned 1\n" {
		t.Errorf("Result() = %q", got)
	}
}
