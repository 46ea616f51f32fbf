package ml

import (
	"fmt"
	"sort"
)

// LabelEncoder maps category strings to the integer codes a classifier is
// trained on, and back. Codes are assigned in lexicographic class order, so
// fitting the same set of labels always yields the same mapping.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// FitLabelEncoder collects the distinct labels, sorts them and assigns codes
// 0..k-1 in that order.
func FitLabelEncoder(labels []string) *LabelEncoder {
	seen := make(map[string]struct{}, len(labels))
	var classes []string
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		classes = append(classes, l)
	}
	sort.Strings(classes)
	return &LabelEncoder{Classes: classes}
}

func (e *LabelEncoder) Transform(label string) (int, error) {
	for i, c := range e.Classes {
		if c == label {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown label %q", label)
}

func (e *LabelEncoder) Inverse(code int) (string, error) {
	if code < 0 || code >= len(e.Classes) {
		return "", fmt.Errorf("label code %d out of range [0,%d)", code, len(e.Classes))
	}
	return e.Classes[code], nil
}
