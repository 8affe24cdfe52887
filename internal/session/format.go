package session

import (
	"cmp"
	"slices"
	"time"
)

// Format is a named test length.
type Format struct {
	Key       string
	Questions int
	TimeLimit time.Duration
}

// DefaultFormats are the built-in test formats, keyed by Format.Key.
var DefaultFormats = map[string]Format{
	"quick":    {Key: "quick", Questions: 12, TimeLimit: 18 * time.Minute},
	"standard": {Key: "standard", Questions: 15, TimeLimit: 23 * time.Minute},
	"full":     {Key: "full", Questions: 27, TimeLimit: 47 * time.Minute},
}

// SortedFormats returns formats ordered by question count, then key.
func SortedFormats(formats map[string]Format) []Format {
	out := make([]Format, 0, len(formats))
	for _, f := range formats {
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b Format) int {
		if c := cmp.Compare(a.Questions, b.Questions); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}
