// FILE: lixenwraith/tradelog/sanitizer/sanitizer.go
// Package sanitizer rewrites rendered log lines according to configurable
// rules built from bitwise filter and transform flags.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Matches runes not classified as printable by strconv.IsPrint
	FilterControl                         // Matches control characters (unicode.IsControl)
	FilterWhitespace                      // Matches whitespace characters (unicode.IsSpace)
)

// Transform flags for character transformation
const (
	TransformStrip      uint64 = 1 << iota // Removes the character
	TransformHexEncode                     // Encodes the character's UTF-8 bytes as "<XXYY>"
	TransformJSONEscape                    // Escapes the character with JSON-style backslashes (e.g., '\n', '\u0000')
)

// PolicyPreset defines pre-configured sanitization policies
type PolicyPreset string

const (
	PolicyRaw  PolicyPreset = "raw"  // Raw is a no-op (passthrough)
	PolicyTxt  PolicyPreset = "txt"  // One record per line: non-printables hex-encoded
	PolicyJSON PolicyPreset = "json" // Control characters escaped for JSON embedding
)

// rule represents a single sanitization rule
type rule struct {
	filter    uint64
	transform uint64
}

// policyRules contains pre-configured rules for each policy
var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:  {},
	PolicyTxt:  {{filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicyJSON: {{filter: FilterControl, transform: TransformJSONEscape}},
}

// filterOrder fixes the evaluation order of filter flags
var filterOrder = []uint64{FilterNonPrintable, FilterControl, FilterWhitespace}

// filterCheckers maps individual filter flags to their check functions
var filterCheckers = map[uint64]func(rune) bool{
	FilterNonPrintable: func(r rune) bool { return !strconv.IsPrint(r) },
	FilterControl:      unicode.IsControl,
	FilterWhitespace:   unicode.IsSpace,
}

// Sanitizer provides chainable text sanitization.
// A Sanitizer is not safe for concurrent use; the tradelog worker owns one.
type Sanitizer struct {
	rules []rule
	buf   []byte
}

// New creates a new Sanitizer instance
func New() *Sanitizer {
	return &Sanitizer{
		rules: []rule{},
		buf:   make([]byte, 0, 256),
	}
}

// Rule adds a custom rule to the sanitizer (appended, earliest rule applies first)
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy applies a pre-configured policy to the sanitizer (appended)
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	if rules, ok := policyRules[preset]; ok {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// Passthrough reports whether the sanitizer has no rules
func (s *Sanitizer) Passthrough() bool {
	return len(s.rules) == 0
}

// Sanitize applies all configured rules to the input string
func (s *Sanitizer) Sanitize(data string) string {
	s.buf = s.Append(s.buf[:0], []byte(data))
	return string(s.buf)
}

// Append applies all configured rules to src and appends the result to dst.
// dst and src must not overlap.
func (s *Sanitizer) Append(dst, src []byte) []byte {
	if len(s.rules) == 0 {
		return append(dst, src...)
	}

	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && size == 1 {
			// Invalid UTF-8: treat the raw byte as non-printable
			dst = s.applyByte(dst, src[i])
			i++
			continue
		}

		matched := false
		// First matching rule wins
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				dst = applyTransform(dst, r, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			dst = append(dst, src[i:i+size]...)
		}
		i += size
	}
	return dst
}

// applyByte handles a byte that does not start a valid UTF-8 sequence
func (s *Sanitizer) applyByte(dst []byte, b byte) []byte {
	for _, rl := range s.rules {
		if rl.filter&(FilterNonPrintable|FilterControl) == 0 {
			continue
		}
		switch {
		case rl.transform&TransformStrip != 0:
			return dst
		case rl.transform&TransformHexEncode != 0:
			dst = append(dst, '<')
			dst = hex.AppendEncode(dst, []byte{b})
			return append(dst, '>')
		case rl.transform&TransformJSONEscape != 0:
			dst = append(dst, `\u00`...)
			return hex.AppendEncode(dst, []byte{b})
		}
	}
	return append(dst, b)
}

// matchesFilter checks if a rune matches any filter in the mask
func matchesFilter(r rune, filterMask uint64) bool {
	for _, flag := range filterOrder {
		if filterMask&flag != 0 && filterCheckers[flag](r) {
			return true
		}
	}
	return false
}

// applyTransform appends the transformed rune to dst
func applyTransform(dst []byte, r rune, transformMask uint64) []byte {
	switch {
	case (transformMask & TransformStrip) != 0:
		// Do nothing (strip)

	case (transformMask & TransformHexEncode) != 0:
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		dst = append(dst, '<')
		dst = hex.AppendEncode(dst, runeBytes[:n])
		dst = append(dst, '>')

	case (transformMask & TransformJSONEscape) != 0:
		switch r {
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		default:
			if r < 0x20 || r == 0x7f {
				dst = append(dst, `\u`...)
				dst = appendHex4(dst, r)
			} else {
				dst = utf8.AppendRune(dst, r)
			}
		}

	default:
		dst = utf8.AppendRune(dst, r)
	}
	return dst
}

// appendHex4 appends r as four lower-case hex digits
func appendHex4(dst []byte, r rune) []byte {
	const digits = "0123456789abcdef"
	return append(dst,
		digits[(r>>12)&0xf],
		digits[(r>>8)&0xf],
		digits[(r>>4)&0xf],
		digits[r&0xf],
	)
}
