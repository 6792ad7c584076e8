// Package codepage maps an ESC/POS code-table selector byte to a
// byte->Unicode decoder, per spec.md §2's "codepage decoders" leaf
// component and SPEC_FULL.md §4.8. The registry is keyed by code table
// alone; the international character set (ESC R) does not affect decoding.
package codepage

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// TableUTF8 is the distinguished passthrough code table: printers that
// negotiate UTF-8 text skip codepage translation entirely.
const TableUTF8 = 255

// Decoder turns raw printer bytes for one code table into Go text.
type Decoder func([]byte) string

var registry = map[byte]Decoder{
	TableUTF8: decodeUTF8,
	0:         encodingDecoder(charmap.CodePage437),  // PC437 USA
	1:         encodingDecoder(charmap.CodePage850),  // PC850 Multilingual
	2:         encodingDecoder(charmap.CodePage852),  // PC852 Latin2
	3:         encodingDecoder(charmap.CodePage860),  // PC860 Portuguese
	16:        encodingDecoder(charmap.Windows1252),   // WPC1252
	17:        encodingDecoder(charmap.CodePage866),   // PC866 Cyrillic
	30:        encodingDecoder(simplifiedchinese.GBK), // GBK-style table
}

// Lookup resolves a code-table byte to its decoder, falling back to raw
// Latin-1-as-Unicode (one byte per rune) for any table this module doesn't
// recognize, rather than rejecting the command — matching spec.md §7's
// "no error is fatal except input I/O failure".
func Lookup(table byte) Decoder {
	if d, ok := registry[table]; ok {
		return d
	}
	return decodeLatin1
}

func decodeUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return decodeLatin1(b)
}

func decodeLatin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

func encodingDecoder(enc encoding.Encoding) Decoder {
	dec := enc.NewDecoder()
	return func(b []byte) string {
		out, err := dec.Bytes(b)
		if err != nil {
			return decodeLatin1(b)
		}
		return string(out)
	}
}
