package dashboard

import (
	"fmt"
	"strconv"
)

// FormatLargeNumber renders a magnitude in "万" (ten-thousand) or "亿"
// (hundred-million) units. Presentation only; all arithmetic upstream
// works on the raw integers.
func FormatLargeNumber(n int64) string {
	switch {
	case n >= 100000000:
		return fmt.Sprintf("%.2f亿", float64(n)/100000000)
	case n >= 10000:
		return fmt.Sprintf("%.2f万", float64(n)/10000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// groupThousands renders n with comma group separators, e.g. 1234567 →
// "1,234,567".
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	start := 0
	if s[0] == '-' {
		start = 1
	}

	out := make([]byte, 0, len(s)+len(s)/3)
	out = append(out, s[:start]...)
	digits := s[start:]
	for i, c := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
