package parser

import (
	"regexp"
	"strings"

	"ipprun/types"
	"ipprun/vm"
)

// Identifiers (variable and label names) start with a letter or one of
// _ - $ & % * ! ? and continue with those or digits.
var identRE = regexp.MustCompile(`^[A-Za-z_$&%*!?-][A-Za-z0-9_$&%*!?-]*$`)

func validIdent(s string) bool {
	return identRE.MatchString(s)
}

// parseVariable splits a FRAME@name operand and validates both halves.
func parseVariable(text string) (vm.FrameTag, string, error) {
	text = strings.TrimSpace(text)
	at := strings.Index(text, "@")
	if at < 0 {
		return 0, "", types.NewError(types.E_XML_STRUCT, "invalid variable %q, expected FRAME@name", text)
	}
	frame, ok := vm.FrameTagFromString(text[:at])
	if !ok {
		return 0, "", types.NewError(types.E_XML_STRUCT, "invalid frame %q in variable %q", text[:at], text)
	}
	name := text[at+1:]
	if !validIdent(name) {
		return 0, "", types.NewError(types.E_XML_STRUCT, "invalid variable name %q", name)
	}
	return frame, name, nil
}
