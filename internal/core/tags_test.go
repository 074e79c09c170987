package core

import (
	"reflect"
	"testing"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{input: "", want: nil},
		{input: "urg", want: []string{"urg"}},
		{input: " urg , feito ", want: []string{"urg", "feito"}},
		{input: "urg,,URG,no_rec", want: []string{"urg", "no_rec"}},
	}
	for _, tt := range tests {
		got := ParseTags(tt.input).Labels()
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTagsAddRemove(t *testing.T) {
	base := NewTags("urg", "parc3")

	settled := base.Add(TagSettled)
	if !settled.Has(TagSettled) {
		t.Fatalf("expected %q in %q", TagSettled, settled)
	}
	if base.Has(TagSettled) {
		t.Fatalf("Add must not modify the receiver")
	}
	if got := settled.Add("FEITO"); got.Len() != 3 {
		t.Fatalf("adding an existing label with other casing should be a no-op, got %q", got)
	}

	unsettled := settled.Remove("Feito")
	if unsettled.String() != "urg,parc3" {
		t.Fatalf("Remove = %q, want %q", unsettled, "urg,parc3")
	}
	if !settled.Has(TagSettled) {
		t.Fatalf("Remove must not modify the receiver")
	}
	if got := unsettled.Remove("missing"); got.String() != "urg,parc3" {
		t.Fatalf("removing a missing label changed the set: %q", got)
	}
}

func TestInstallmentMarker(t *testing.T) {
	tests := []struct {
		tags      string
		wantCount int
		wantFound bool
	}{
		{tags: "", wantFound: false},
		{tags: "urg", wantFound: false},
		{tags: "parc", wantCount: 0, wantFound: true},
		{tags: "urg,parc12", wantCount: 12, wantFound: true},
		{tags: "PARC4", wantCount: 4, wantFound: true},
		{tags: "parcela", wantFound: false},
		{tags: "parc-2", wantFound: false},
		{tags: "parc+2", wantFound: false},
	}
	for _, tt := range tests {
		n, found := ParseTags(tt.tags).InstallmentMarker()
		if n != tt.wantCount || found != tt.wantFound {
			t.Errorf("InstallmentMarker(%q) = (%d, %v), want (%d, %v)", tt.tags, n, found, tt.wantCount, tt.wantFound)
		}
	}

	if InstallmentTag(6) != "parc6" {
		t.Fatalf("InstallmentTag(6) = %q", InstallmentTag(6))
	}
}
