package parser

import (
	"strconv"
	"strings"

	"ipprun/types"
	"ipprun/vm"
)

// parseLiteral constructs a runtime value from the textual form of a
// literal operand. The surrounding whitespace XML encoders may add around
// int, bool and nil literals is ignored; string payloads are taken exactly
// as written, then escape-expanded.
func parseLiteral(kind vm.ArgKind, text string) (types.Value, error) {
	switch kind {
	case vm.ArgInt:
		n, err := parseIntLiteral(strings.TrimSpace(text))
		if err != nil {
			return nil, err
		}
		return types.NewInt(n), nil
	case vm.ArgBool:
		switch strings.TrimSpace(text) {
		case "true":
			return types.NewBool(true), nil
		case "false":
			return types.NewBool(false), nil
		default:
			return nil, types.NewError(types.E_XML_STRUCT, "invalid bool literal %q", text)
		}
	case vm.ArgNil:
		if strings.TrimSpace(text) != "nil" {
			return nil, types.NewError(types.E_XML_STRUCT, "invalid nil literal %q", text)
		}
		return types.NewNil(), nil
	case vm.ArgString:
		expanded, err := expandEscapes(text)
		if err != nil {
			return nil, err
		}
		return types.NewStr(expanded), nil
	default:
		return nil, types.NewError(types.E_INTERNAL, "parseLiteral called for %s", kind)
	}
}

// parseIntLiteral accepts decimal, 0x/0X hexadecimal and 0o/0O octal
// integers with an optional sign.
func parseIntLiteral(text string) (int64, error) {
	s := text
	sign := ""
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		sign = s[:1]
		s = s[1:]
	}
	base := 10
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base = 16
		s = s[2:]
	case strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O"):
		base = 8
		s = s[2:]
	}
	if s == "" {
		return 0, types.NewError(types.E_XML_STRUCT, "invalid int literal %q", text)
	}
	n, err := strconv.ParseInt(sign+s, base, 64)
	if err != nil {
		return 0, types.NewError(types.E_XML_STRUCT, "invalid int literal %q", text)
	}
	return n, nil
}

// expandEscapes replaces every \ddd triplet (three decimal digits) with the
// corresponding code point. Any other backslash is malformed. Expansion
// happens here, at parse time, so every runtime string operation works on
// plain code points.
func expandEscapes(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}
		if i+3 >= len(s) {
			return "", types.NewError(types.E_XML_STRUCT, "truncated escape sequence in %q", s)
		}
		code := 0
		for j := i + 1; j <= i+3; j++ {
			d := s[j]
			if d < '0' || d > '9' {
				return "", types.NewError(types.E_XML_STRUCT, "invalid escape sequence in %q", s)
			}
			code = code*10 + int(d-'0')
		}
		b.WriteRune(rune(code))
		i += 4
	}
	return b.String(), nil
}
