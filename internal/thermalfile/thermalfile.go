// Package thermalfile implements the human-authored debug text format
// spec.md §6 documents: whitespace-separated decimal byte literals,
// 'x' ASCII char literals, "..." UTF-8 string literals, and // line
// comments, all emitting the same byte stream a binary ESC/POS capture
// would. Grounded on original_source's thermal_file::parse_str contract,
// used here (as there) to author readable test fixtures instead of raw
// byte blobs.
package thermalfile

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts thermal text-file source into the raw byte stream it
// describes, or an error naming the offending token and its position.
func Parse(src string) ([]byte, error) {
	var out []byte
	runes := []rune(src)
	i, n := 0, len(runes)
	line := 1

	for i < n {
		c := runes[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '/' && i+1 < n && runes[i+1] == '/':
			for i < n && runes[i] != '\n' {
				i++
			}
		case c == '\'':
			b, next, err := parseCharLiteral(runes, i, line)
			if err != nil {
				return nil, err
			}
			out = append(out, b)
			i = next
		case c == '"':
			bs, next, err := parseStringLiteral(runes, i, line)
			if err != nil {
				return nil, err
			}
			out = append(out, bs...)
			i = next
		case c >= '0' && c <= '9':
			b, next, err := parseDecimalLiteral(runes, i, line)
			if err != nil {
				return nil, err
			}
			out = append(out, b)
			i = next
		default:
			return nil, fmt.Errorf("thermalfile: line %d: unexpected character %q", line, c)
		}
	}
	return out, nil
}

func parseCharLiteral(runes []rune, i, line int) (byte, int, error) {
	if i+2 >= len(runes) || runes[i+2] != '\'' {
		return 0, 0, fmt.Errorf("thermalfile: line %d: malformed char literal", line)
	}
	return byte(runes[i+1]), i + 3, nil
}

func parseStringLiteral(runes []rune, i, line int) ([]byte, int, error) {
	j := i + 1
	var sb strings.Builder
	for j < len(runes) && runes[j] != '"' {
		sb.WriteRune(runes[j])
		j++
	}
	if j >= len(runes) {
		return nil, 0, fmt.Errorf("thermalfile: line %d: unterminated string literal", line)
	}
	return []byte(sb.String()), j + 1, nil
}

func parseDecimalLiteral(runes []rune, i, line int) (byte, int, error) {
	j := i
	for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
		j++
	}
	v, err := strconv.Atoi(string(runes[i:j]))
	if err != nil || v > 255 {
		return 0, 0, fmt.Errorf("thermalfile: line %d: decimal literal out of byte range", line)
	}
	return byte(v), j, nil
}
