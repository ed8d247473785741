package domain

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    LeadStatus
		wantErr bool
	}{
		{"new", StatusNew, false},
		{"Converted", StatusConverted, false},
		{" not_converted ", StatusNotConverted, false},
		{"NotConverted", "", true},
		{"lost", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseStatusesRejectsUnknownAndDedupes(t *testing.T) {
	got, err := ParseStatuses([]string{"new", "not_converted", "new"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != StatusNew || got[1] != StatusNotConverted {
		t.Fatalf("unexpected statuses %v", got)
	}

	if _, err := ParseStatuses([]string{"new", "archived"}); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestParsePriority(t *testing.T) {
	for _, in := range []string{"high", "MEDIUM", "low"} {
		if _, err := ParsePriority(in); err != nil {
			t.Errorf("ParsePriority(%q) unexpected error %v", in, err)
		}
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("expected urgent to be rejected")
	}
}
