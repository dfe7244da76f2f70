package normalizer

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// ParseLeadingInt reads the leading run of digits of s, so "7-3" is 7
// and "12 (18)" is 12. It reports false when s does not start with a
// digit; callers treat that as 0.
func ParseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// flexInt accepts a JSON number, a numeric string or a composite string.
// Anything it cannot read, and any negative value, becomes 0 with ok
// false so the adapter can log the field.
type flexInt struct {
	Value int
	Raw   string
	OK    bool
	Set   bool
}

// UnmarshalJSON never fails, malformed values are recorded instead
func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	f.Set = true
	f.Raw = string(data)

	if bytes.Equal(data, []byte("null")) {
		f.Set = false
		f.OK = true
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		if n, err := num.Int64(); err == nil {
			f.set(int(n))
			return nil
		}
		if fl, err := num.Float64(); err == nil {
			f.set(int(fl))
			return nil
		}
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Raw = s
		if n, ok := ParseLeadingInt(s); ok {
			f.set(n)
			return nil
		}
		// "-3" parses as a negative number which also falls back to 0
		if n, err := strconv.Atoi(strings.TrimFunc(s, unicode.IsSpace)); err == nil {
			f.set(n)
			return nil
		}
	}

	f.Value, f.OK = 0, false
	return nil
}

func (f *flexInt) set(n int) {
	if n < 0 {
		f.Value, f.OK = 0, false
		return
	}
	f.Value, f.OK = n, true
}
