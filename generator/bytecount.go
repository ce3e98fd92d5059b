package generator

// ByteCount approximates the byte length the school record system charges
// for text: runes above 127 count 3, newline counts 2, anything else 1.
func ByteCount(text string) int {
	n := 0
	for _, r := range text {
		switch {
		case r == '\n':
			n += 2
		case r > 127:
			n += 3
		default:
			n++
		}
	}
	return n
}
