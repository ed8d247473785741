package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"  <b>bold</b> text ", "bold text"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;", "alert(1)"},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLineCollapsesWhitespace(t *testing.T) {
	if got := Line("Toyota \n  Land   Cruiser"); got != "Toyota Land Cruiser" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestTextPtrBlankBecomesNil(t *testing.T) {
	blank := " <p></p> "
	if TextPtr(&blank) != nil {
		t.Fatal("expected nil for blank input")
	}
	if TextPtr(nil) != nil {
		t.Fatal("expected nil for nil input")
	}
}
