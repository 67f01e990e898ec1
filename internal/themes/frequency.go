package themes

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// ThemeCount pairs a theme with how often it was seen.
type ThemeCount struct {
	Theme Theme `json:"theme"`
	Count int   `json:"count"`
}

// Frequency is a theme histogram ordered by count, highest first. Ties keep
// the order in which themes were first seen. It encodes to JSON as an object
// whose keys follow that order.
type Frequency []ThemeCount

// Count builds a Frequency from a sequence of theme observations.
func Count(items []Theme) Frequency {
	index := make(map[Theme]int)
	freq := Frequency{}
	for _, t := range items {
		if i, ok := index[t]; ok {
			freq[i].Count++
			continue
		}
		index[t] = len(freq)
		freq = append(freq, ThemeCount{Theme: t, Count: 1})
	}
	sort.SliceStable(freq, func(i, j int) bool {
		return freq[i].Count > freq[j].Count
	})
	return freq
}

// Top returns the most frequent theme, or false when empty.
func (f Frequency) Top() (Theme, bool) {
	if len(f) == 0 {
		return "", false
	}
	return f[0].Theme, true
}

// Get returns the count for theme (0 if absent).
func (f Frequency) Get(theme Theme) int {
	for _, tc := range f {
		if tc.Theme == theme {
			return tc.Count
		}
	}
	return 0
}

// Map returns the histogram as an unordered map.
func (f Frequency) Map() map[Theme]int {
	m := make(map[Theme]int, len(f))
	for _, tc := range f {
		m[tc.Theme] = tc.Count
	}
	return m
}

// MarshalJSON writes the histogram as an ordered JSON object.
func (f Frequency) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tc := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(tc.Theme))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(tc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the object form produced by MarshalJSON. Key order
// is not preserved by the decoder, so the result is re-sorted by count.
func (f *Frequency) UnmarshalJSON(data []byte) error {
	var m map[Theme]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	out := make(Frequency, 0, len(m))
	for _, t := range sortedKeys(m) {
		out = append(out, ThemeCount{Theme: t, Count: m[t]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	*f = out
	return nil
}

func sortedKeys(m map[Theme]int) []Theme {
	keys := make([]Theme, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
