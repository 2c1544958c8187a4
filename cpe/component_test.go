package cpe

import (
	"errors"
	"testing"
)

func mustSimple(t *testing.T, std string, att Attribute) Component {
	t.Helper()
	c, err := NewSimple(std, att)
	if err != nil {
		t.Fatalf("NewSimple(%q, %s): %v", std, att, err)
	}
	return c
}

func TestSimpleValidation(t *testing.T) {
	valid := []struct {
		std string
		att Attribute
	}{
		{"a", AttPart},
		{"o", AttPart},
		{"h", AttPart},
		{"?", AttPart},
		{"insight_diagnostics", AttProduct},
		{`8\.*`, AttVersion},
		{`*8\.1`, AttVersion},
		{`??vista`, AttVersion},
		{`sp\-3`, AttUpdate},
		{`\~beta`, AttUpdate},
		{"*", AttVersion},
		{"en", AttLanguage},
		{"eng", AttLanguage},
		{`en\-us`, AttLanguage},
		{`en\-150`, AttLanguage},
		{`??\-us`, AttLanguage},
		{`en\-*`, AttLanguage},
		{"en*", AttLanguage},
	}
	for _, tc := range valid {
		if _, err := NewSimple(tc.std, tc.att); err != nil {
			t.Errorf("NewSimple(%q, %s) unexpectedly failed: %v", tc.std, tc.att, err)
		}
	}

	invalid := []struct {
		std string
		att Attribute
	}{
		{"j", AttPart},
		{"aa", AttPart},
		{"*", AttPart},
		{"", AttVendor},
		{"foo!bar", AttVendor},
		{"foo|bar", AttVendor},
		{"foo@bar", AttVendor},
		{"8.1", AttVersion},
		{"mi*dd", AttVersion},
		{"mi?dd", AttVersion},
		{"e", AttLanguage},
		{"en-us", AttLanguage},
		{"english", AttLanguage},
		{`en\-usa2`, AttLanguage},
	}
	for _, tc := range invalid {
		if _, err := NewSimple(tc.std, tc.att); err == nil {
			t.Errorf("NewSimple(%q, %s) unexpectedly succeeded", tc.std, tc.att)
		}
	}
}

func TestInvalidPartValue(t *testing.T) {
	_, err := NewSimple("j", AttPart)
	var ive *InvalidValueError
	if !errors.As(err, &ive) {
		t.Fatalf("expected InvalidValueError, got %v", err)
	}
	if ive.Att != AttPart || ive.Text != "j" {
		t.Fatalf("unexpected error payload: %+v", ive)
	}
}

func TestUnknownAttribute(t *testing.T) {
	_, err := NewSimple("x", Attribute("flavour"))
	var iae *InvalidAttributeError
	if !errors.As(err, &iae) {
		t.Fatalf("expected InvalidAttributeError, got %v", err)
	}
}

func TestContainsLattice(t *testing.T) {
	any := NewAny()
	na := NewNA()
	undef := NewUndefined()
	empty := NewEmpty()
	simple := mustSimple(t, "weblogic", AttProduct)

	// ANY is top.
	for _, o := range []Component{any, na, undef, empty, simple} {
		if !any.Contains(o) {
			t.Errorf("ANY should contain %s", o.Kind())
		}
	}
	// Undefined and Empty act like ANY on the left.
	for _, c := range []Component{undef, empty} {
		for _, o := range []Component{any, na, simple} {
			if !c.Contains(o) {
				t.Errorf("%s should contain %s", c.Kind(), o.Kind())
			}
		}
	}
	// NA is minimal: contained only by ANY-likes and itself.
	if !na.Contains(na) {
		t.Error("NA should contain NA")
	}
	if na.Contains(simple) || na.Contains(any) {
		t.Error("NA should contain only NA")
	}
	if simple.Contains(na) || simple.Contains(any) || simple.Contains(undef) {
		t.Error("a simple value should not contain logical values")
	}
}

func TestContainsWildcards(t *testing.T) {
	star := mustSimple(t, "*", AttVersion)
	v81 := mustSimple(t, `8\.1`, AttVersion)
	v8x := mustSimple(t, `8\.*`, AttVersion)
	v91 := mustSimple(t, `9\.1`, AttVersion)
	q := mustSimple(t, `8\.?`, AttVersion)

	if !v81.Contains(v81) {
		t.Error("equal simples must contain each other")
	}
	if !star.Contains(v81) || !star.Contains(v91) {
		t.Error(`"*" must contain every simple value`)
	}
	if !v8x.Contains(v81) {
		t.Error(`8\.* must contain 8\.1`)
	}
	if v8x.Contains(v91) {
		t.Error(`8\.* must not contain 9\.1`)
	}
	if !q.Contains(v81) {
		t.Error(`8\.? must contain 8\.1`)
	}
	if q.Contains(mustSimple(t, `8\.11`, AttVersion)) {
		t.Error(`8\.? must not contain 8\.11`)
	}
	// A target with wildcards is covered only by an identical pattern.
	if star.Contains(v8x) {
		t.Error("a wildcard target must not be covered by a different pattern")
	}
	if !v8x.Contains(v8x) {
		t.Error("identical wildcard patterns contain each other")
	}
}

func TestContainsEscapedLiterals(t *testing.T) {
	lit := mustSimple(t, `c\+\+`, AttProduct)
	pat := mustSimple(t, `c\+*`, AttProduct)
	if !pat.Contains(lit) {
		t.Error(`c\+* must contain c\+\+`)
	}
	if lit.Contains(pat) {
		t.Error(`a literal must not contain a wildcard pattern`)
	}
}

func TestEquals(t *testing.T) {
	a := mustSimple(t, "weblogic", AttProduct)
	b := mustSimple(t, "WebLogic", AttProduct)
	c := mustSimple(t, "weblogic", AttVendor)
	if !a.Equal(b) {
		t.Error("equality must fold case")
	}
	if a.Equal(c) {
		t.Error("equality must require the same attribute")
	}
	if !NewAny().Equal(NewAny()) || NewAny().Equal(NewEmpty()) {
		t.Error("logical equality is per variant")
	}
}

func TestSetRevalidates(t *testing.T) {
	c := mustSimple(t, "solaris", AttProduct)
	if err := c.Set("8.1", AttVersion); err == nil {
		t.Fatal("Set must reject an invalid standard form")
	}
	if c.Standard() != "solaris" {
		t.Fatal("failed Set must leave the component untouched")
	}
	if err := c.Set(`8\.1`, AttVersion); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if c.Standard() != `8\.1` || c.Attribute() != AttVersion {
		t.Fatalf("Set did not replace the value: %+v", c)
	}
}

func TestSimpleValueOnLogical(t *testing.T) {
	if _, err := NewAny().SimpleValue(); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
	}
}

func TestValueRoundTrips(t *testing.T) {
	// FS field -> standard -> FS field.
	fsFields := []string{"8.*", "insight_diagnostics", "x32", `sp\:3`, "?vista", "7.4.0.1570"}
	for _, f := range fsFields {
		c, err := ParseFSValue(f, AttVersion)
		if err != nil {
			t.Fatalf("ParseFSValue(%q): %v", f, err)
		}
		got, err := c.FS()
		if err != nil {
			t.Fatalf("FS(%q): %v", f, err)
		}
		if got != f {
			t.Errorf("FS round trip %q -> %q -> %q", f, c.Standard(), got)
		}
	}

	// URI field -> standard -> URI field.
	uriFields := []string{"7.4.0.1570", "insight_diagnostics", "%21alpha", "%01vista", "8.%02"}
	for _, f := range uriFields {
		c, err := ParseURIValue(f, AttVersion)
		if err != nil {
			t.Fatalf("ParseURIValue(%q): %v", f, err)
		}
		got, err := c.URI()
		if err != nil {
			t.Fatalf("URI(%q): %v", f, err)
		}
		if got != f {
			t.Errorf("URI round trip %q -> %q -> %q", f, c.Standard(), got)
		}
	}

	// WFN token -> standard -> WFN token.
	wfnTokens := []string{`"8\.*"`, `"insight_diagnostics"`, "ANY", "NA"}
	for _, tok := range wfnTokens {
		c, err := ParseWFNValue(tok, AttVersion)
		if err != nil {
			t.Fatalf("ParseWFNValue(%q): %v", tok, err)
		}
		if got := c.WFN(); got != tok {
			t.Errorf("WFN round trip %q -> %q", tok, got)
		}
	}
}

func TestCrossEncodingValues(t *testing.T) {
	// The same value decoded from each binding is one standard form.
	fromFS, err := ParseFSValue("8.*", AttVersion)
	if err != nil {
		t.Fatal(err)
	}
	fromURI, err := ParseURIValue("8.%02", AttVersion)
	if err != nil {
		t.Fatal(err)
	}
	fromWFN, err := ParseWFNValue(`"8\.*"`, AttVersion)
	if err != nil {
		t.Fatal(err)
	}
	if fromFS.Standard() != `8\.*` {
		t.Fatalf("unexpected standard form %q", fromFS.Standard())
	}
	if !fromFS.Equal(fromURI) || !fromFS.Equal(fromWFN) {
		t.Fatal("bindings of one value must decode equal")
	}
}

func TestURIValueEscapes(t *testing.T) {
	c, err := ParseURIValue("a%2bb", AttProduct)
	if err != nil {
		t.Fatal(err)
	}
	if c.Standard() != `a\+b` {
		t.Fatalf("unexpected standard form %q", c.Standard())
	}
	if _, err := ParseURIValue("a%zzb", AttProduct); err == nil {
		t.Fatal("unknown percent escape must be rejected")
	}
	if _, err := ParseURIValue("a b", AttProduct); err == nil {
		t.Fatal("raw space must be rejected")
	}
}

func TestFSValueEmbeddedAsterisk(t *testing.T) {
	if _, err := ParseFSValue("mi*dd", AttVersion); err == nil {
		t.Fatal("embedded asterisk must be rejected")
	}
	if _, err := ParseFSValue(`mi\*dd`, AttVersion); err != nil {
		t.Fatalf("escaped asterisk must be accepted: %v", err)
	}
}
