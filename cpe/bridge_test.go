package cpe

import (
	"errors"
	"strings"
	"testing"
)

func TestLiftFillsAny(t *testing.T) {
	n := mustParse(t, "cpe:/a:microsoft:ie:5.5")
	w, err := Lift(n)
	if err != nil {
		t.Fatal(err)
	}
	for _, att := range []Attribute{AttUpdate, AttEdition, AttLanguage, AttSwEdition, AttOther} {
		if w.At(0, att).Kind() != KindAny {
			t.Errorf("lifted %s should be ANY, got %v", att, w.At(0, att).Kind())
		}
	}
	if w.Version() != V23 {
		t.Fatalf("lifted name must be 2.3, got %s", w.Version())
	}
}

func TestWildcardPartDoesNotBind(t *testing.T) {
	n := mustParse(t, `wfn:[part="?", vendor="hp"]`)
	var inc *IncompatibleError
	if _, err := n.FS(); !errors.As(err, &inc) {
		t.Fatalf("FS of a wildcard part must be Incompatible, got %v", err)
	}
	if _, err := n.URI(); !errors.As(err, &inc) {
		t.Fatalf("URI of a wildcard part must be Incompatible, got %v", err)
	}
	if _, err := n.WFN(); err != nil {
		t.Fatalf("the WFN itself stays emittable: %v", err)
	}
}

func TestURIWildcardPart(t *testing.T) {
	// A percent-encoded wildcard part parses like its WFN counterpart and only
	// refuses to bind.
	n := mustParse(t, "cpe:/%01:hp:insight_diagnostics")
	vals, err := n.Get(AttPart)
	if err != nil {
		t.Fatal(err)
	}
	if vals[0].Kind() != KindSimple || vals[0].Standard() != "?" {
		t.Fatalf("expected wildcard part, got %v %q", vals[0].Kind(), vals[0].Standard())
	}
	wfn, err := n.WFN()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(wfn, `wfn:[part="?"`) {
		t.Fatalf("unexpected lift %s", wfn)
	}
	if !mustParse(t, wfn).Equal(n) {
		t.Fatal("WFN rebind changed the name")
	}
	var inc *IncompatibleError
	if _, err := n.URI(); !errors.As(err, &inc) {
		t.Fatalf("URI of a wildcard part must be Incompatible, got %v", err)
	}
	if _, err := n.FS(); !errors.As(err, &inc) {
		t.Fatalf("FS of a wildcard part must be Incompatible, got %v", err)
	}
}

func TestURIPacksExtendedAttributes(t *testing.T) {
	n := mustParse(t, "cpe:2.3:a:hp:insight_diagnostics:7.4.0.1570:-:*:*:online:win2003:x64:*")
	uri, err := n.URI()
	if err != nil {
		t.Fatal(err)
	}
	want := "cpe:/a:hp:insight_diagnostics:7.4.0.1570:-:~~online~win2003~x64~"
	if uri != want {
		t.Fatalf("packing mismatch:\n got %s\nwant %s", uri, want)
	}
}

func TestURISkipsPackingWhenUnconstrained(t *testing.T) {
	n := mustParse(t, "cpe:2.3:a:hp:insight_diagnostics:7.4.0.1570:*:online:*:*:*:*:*")
	uri, err := n.URI()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(uri, "~") {
		t.Fatalf("plain edition must not pack: %s", uri)
	}
	if uri != "cpe:/a:hp:insight_diagnostics:7.4.0.1570::online" {
		t.Fatalf("unexpected URI %s", uri)
	}
}

func TestBind11Incompatibilities(t *testing.T) {
	var inc *IncompatibleError

	// NA has no 1.1 spelling.
	na := mustParse(t, "cpe:/a:hp:prod:-")
	if _, err := na.URI11(); !errors.As(err, &inc) {
		t.Fatalf("NA must not bind to 1.1, got %v", err)
	}

	// Wildcards have no 1.1 spelling.
	wild := mustParse(t, "cpe:2.3:a:hp:prod:8.*:*:*:*:*:*:*:*")
	if _, err := wild.URI11(); !errors.As(err, &inc) {
		t.Fatalf("wildcards must not bind to 1.1, got %v", err)
	}

	// Constrained extended attributes have no 1.1 home.
	ext := mustParse(t, "cpe:2.3:a:hp:prod:1.0:*:*:*:online:*:*:*")
	if _, err := ext.URI11(); !errors.As(err, &inc) {
		t.Fatalf("extended attributes must not bind to 1.1, got %v", err)
	}

	ok := mustParse(t, "cpe:2.3:o:microsoft:windows:2000:*:*:*:*:*:*:*")
	bound, err := ok.URI11()
	if err != nil {
		t.Fatal(err)
	}
	if bound != "cpe:///microsoft:windows:2000" {
		t.Fatalf("unexpected 1.1 binding %q", bound)
	}
}

func TestLift11MixedClassesInfeasible(t *testing.T) {
	n := mustParse(t, "cpe://cisco:3825/cisco:ios:12.3")
	var inc *IncompatibleError
	if _, err := Lift(n); !errors.As(err, &inc) {
		t.Fatalf("mixed-class 1.1 name must not lift, got %v", err)
	}
	if inc.Source != V11 {
		t.Fatalf("error should name the source version, got %+v", inc)
	}
}
