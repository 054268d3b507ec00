package pdf

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// splitText accumulates whole sentences into spans of at most maxSize
// characters. A sentence longer than maxSize is hard-split. The result is
// deterministic for a given input and bound, and never contains empty spans.
func splitText(text string, maxSize int) []string {
	if maxSize <= 0 {
		maxSize = 1000
	}

	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(text)
		if len(trimmed) == 0 {
			return nil
		}
		sentences = []string{trimmed}
	}

	var spans []string
	var sb strings.Builder

	flush := func() {
		if sb.Len() > 0 {
			spans = append(spans, sb.String())
			sb.Reset()
		}
	}

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) == 0 {
			continue
		}

		if len(sentence) > maxSize {
			flush()
			for len(sentence) > maxSize {
				cut := maxSize
				for cut > 0 && !utf8.RuneStart(sentence[cut]) {
					cut--
				}
				if cut == 0 {
					cut = maxSize
				}
				spans = append(spans, sentence[:cut])
				sentence = sentence[cut:]
			}
			if len(sentence) > 0 {
				sb.WriteString(sentence)
			}
			continue
		}

		needed := len(sentence)
		if sb.Len() > 0 {
			needed += 1 // joining space
		}

		if sb.Len()+needed > maxSize {
			flush()
		}

		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(sentence)
	}

	flush()

	return spans
}
