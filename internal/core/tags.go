package core

import (
	"strconv"
	"strings"
)

// Well-known payable labels.
const (
	TagSettled   = "feito"
	TagUrgent    = "urg"
	TagNoReceipt = "no_rec"

	installmentTagPrefix = "parc"
)

// Tags is an ordered set of free-text labels. Comparison is case-insensitive
// and the first spelling of a label wins. The zero value is an empty set.
type Tags struct {
	labels []string
}

// ParseTags reads the comma-joined storage form. Blank and duplicate labels
// are dropped.
func ParseTags(s string) Tags {
	var t Tags
	for _, l := range strings.Split(s, ",") {
		t = t.Add(l)
	}
	return t
}

// NewTags builds a set from individual labels.
func NewTags(labels ...string) Tags {
	var t Tags
	for _, l := range labels {
		t = t.Add(l)
	}
	return t
}

// String returns the comma-joined storage form.
func (t Tags) String() string {
	return strings.Join(t.labels, ",")
}

// Labels returns a copy of the labels in insertion order.
func (t Tags) Labels() []string {
	return append([]string(nil), t.labels...)
}

func (t Tags) Len() int { return len(t.labels) }

func (t Tags) Has(label string) bool {
	return t.indexOf(label) >= 0
}

// Add returns a set that also contains label. t is not modified.
func (t Tags) Add(label string) Tags {
	label = strings.TrimSpace(label)
	if label == "" || t.Has(label) {
		return t
	}
	labels := make([]string, len(t.labels), len(t.labels)+1)
	copy(labels, t.labels)
	return Tags{labels: append(labels, label)}
}

// Remove returns a set without label. t is not modified.
func (t Tags) Remove(label string) Tags {
	i := t.indexOf(label)
	if i < 0 {
		return t
	}
	labels := make([]string, 0, len(t.labels)-1)
	labels = append(labels, t.labels[:i]...)
	return Tags{labels: append(labels, t.labels[i+1:]...)}
}

// InstallmentMarker looks for a "parc" or "parcN" label. found is true when
// any such label exists; count is N, or 0 for a bare "parc".
func (t Tags) InstallmentMarker() (count int, found bool) {
	for _, l := range t.labels {
		n, ok := parseInstallmentTag(l)
		if ok {
			return n, true
		}
	}
	return 0, false
}

// InstallmentTag returns the marker label for a split into count parts.
func InstallmentTag(count int) string {
	return installmentTagPrefix + strconv.Itoa(count)
}

func parseInstallmentTag(label string) (int, bool) {
	l := strings.ToLower(label)
	if !strings.HasPrefix(l, installmentTagPrefix) {
		return 0, false
	}
	rest := l[len(installmentTagPrefix):]
	if rest == "" {
		return 0, true
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 || strings.HasPrefix(rest, "+") {
		return 0, false
	}
	return n, true
}

func (t Tags) indexOf(label string) int {
	label = strings.TrimSpace(label)
	for i, l := range t.labels {
		if strings.EqualFold(l, label) {
			return i
		}
	}
	return -1
}
