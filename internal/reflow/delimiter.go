package reflow

// ExtractDelimiter detects the dominant line terminator of text: "\n",
// "\r\n", or "\n\r". It scans once, left to right, counting each of the
// three terminator shapes; matches never overlap — once two characters are
// consumed as a "\r\n" or "\n\r" pair, scanning resumes right after them. A
// lone '\r' not paired with an adjacent '\n' is not a recognized delimiter
// and is simply skipped.
//
// When every count is zero (no newline at all), ExtractDelimiter reports
// found=false. The delimiter with the highest count wins; a tie is broken
// by the fixed precedence "\n" > "\r\n" > "\n\r".
func ExtractDelimiter(text string) (delim string, found bool) {
	runes := []rune(text)
	n := len(runes)

	var countLF, countCRLF, countLFCR int

	i := 0
	for i < n {
		switch runes[i] {
		case '\r':
			if i+1 < n && runes[i+1] == '\n' {
				countCRLF++
				i += 2
				continue
			}
			i++
		case '\n':
			if i+1 < n && runes[i+1] == '\r' {
				countLFCR++
				i += 2
				continue
			}
			countLF++
			i++
		default:
			i++
		}
	}

	if countLF == 0 && countCRLF == 0 && countLFCR == 0 {
		return "", false
	}

	type candidate struct {
		delim string
		count int
	}
	// Listed in precedence order, so a strict comparison keeps the
	// higher-precedence delimiter on a tie.
	candidates := []candidate{
		{"\n", countLF},
		{"\r\n", countCRLF},
		{"\n\r", countLFCR},
	}

	best := candidate{count: -1}
	for _, c := range candidates {
		if c.count == 0 {
			continue
		}
		if c.count > best.count {
			best = c
		}
	}
	return best.delim, true
}
