package brc

import "bytes"

// SplitRecord splits one record into its station name and raw
// measurement at the first ';'. ok is false when the separator is
// missing or the name is empty.
func SplitRecord(line []byte) (name, value []byte, ok bool) {
	i := bytes.IndexByte(line, Delim)
	if i <= 0 {
		return nil, nil, false
	}
	return line[:i], line[i+1:], true
}

// ParseTemp parses a plain decimal measurement such as "-12.3" from b.
// It accepts an optional sign, at most one fraction part, and at least
// one digit overall, with surrounding whitespace ignored. Exponents,
// hex, inf and NaN are all rejected; ok reports whether b parsed.
func ParseTemp(b []byte) (float64, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return 0, false
	}

	neg := false
	switch b[0] {
	case '-':
		neg = true
		b = b[1:]
	case '+':
		b = b[1:]
	}

	var val float64
	i := 0
	digits := 0
	for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
		val = val*10 + float64(b[i]-'0')
		digits++
	}

	if i < len(b) {
		if b[i] != '.' {
			return 0, false
		}
		pow := 1.0
		for i++; i < len(b); i++ {
			if b[i] < '0' || b[i] > '9' {
				return 0, false
			}
			pow *= 10
			val += float64(b[i]-'0') / pow
			digits++
		}
	}

	if digits == 0 {
		return 0, false
	}
	if neg {
		val = -val
	}
	return val, true
}
