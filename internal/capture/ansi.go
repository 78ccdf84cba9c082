package capture

import "regexp"

// ansiRegex matches CSI and OSC escape sequences.
var ansiRegex = regexp.MustCompile(`[\x1B\x9B][[\]()#;?]*(?:(?:[0-9]{1,4}(?:;[0-9]{0,4})*)?[0-9A-ORZcf-nqry=><~])`)

// StripANSI removes escape sequences from captured text. It is applied to
// deltas rather than raw chunks so later delta extraction still sees the
// same byte stream it compared against.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
