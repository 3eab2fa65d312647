package handle

import (
	"testing"
	"testing/quick"
)

func TestNormalize_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  Handle
	}{
		{"sigil and punctuation", "@Foo_Bar!", "foo_bar"},
		{"already canonical", "foo_bar", "foo_bar"},
		{"surrounding space", "  @jack  ", "jack"},
		{"only one sigil stripped then filtered", "@@vitalik", "vitalik"},
		{"inner spaces dropped", "dan romero", "danromero"},
		{"truncated to 15", "abcdefghijklmnopqrstuvwxyz", "abcdefghijklmno"},
		{"fullwidth folded", "ＦＯＯ＿bar", "foo_bar"},
		{"combining marks stripped", "café", "cafe"},
		{"precomposed accent decomposed", "café", "cafe"},
		{"invalid utf8 dropped", string([]byte{0xff, 'a', 0x80, 'b'}), "ab"},
		{"empty", "", Invalid},
		{"only sigil", "@", Invalid},
		{"only symbols", "!!! ---", Invalid},
		{"emoji only", "🙂🙂", Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.out {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.out)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	f := func(s string) bool {
		once := Normalize(s)
		return Normalize(string(once)) == once
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 2000}); err != nil {
		t.Fatal(err)
	}
}

func TestNormalize_PrintableASCIIIsTotal(t *testing.T) {
	for c := byte(0x20); c < 0x7f; c++ {
		for _, s := range []string{string(c), "a" + string(c) + "b", "@" + string(c)} {
			h := Normalize(s)
			if len(h) > MaxLenX {
				t.Fatalf("Normalize(%q) too long: %q", s, h)
			}
			for i := 0; i < len(h); i++ {
				ch := h[i]
				if !(ch >= 'a' && ch <= 'z' || ch >= '0' && ch <= '9' || ch == '_') {
					t.Fatalf("Normalize(%q) = %q has %q", s, h, ch)
				}
			}
		}
	}
}

func TestNormalizeAll(t *testing.T) {
	got := NormalizeAll([]string{"@Alice", "bob", "ALICE", "", "!!", "carol"})
	want := []Handle{"alice", "bob", "carol"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeAll = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NormalizeAll[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if s := Strings(got); s[0] != "alice" || len(s) != 3 {
		t.Fatalf("Strings = %v", s)
	}
}

func TestValid(t *testing.T) {
	if Invalid.Valid() {
		t.Fatal("Invalid must not be valid")
	}
	if !Handle("x").Valid() {
		t.Fatal("x should be valid")
	}
}
