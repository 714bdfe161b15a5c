package command

import (
	"regexp"
	"strings"
)

// The upstream text generator is told to emit strict JSON but does not
// always comply. Repair is deliberately narrow: comments and quote
// style only. Anything structurally wrong (trailing commas, unquoted
// keys, truncated blocks) must still fail the strict parse so we never
// silently accept a mangled command.
var (
	reLineComment  = regexp.MustCompile(`(?m)//.*$`)
	reBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reSingleKey    = regexp.MustCompile(`'([^']*)':`)
	reSingleValue  = regexp.MustCompile(`: '([^']*)'`)
)

// RepairJSON normalizes common generator formatting defects. Idempotent
// on already-strict JSON.
func RepairJSON(s string) string {
	s = reLineComment.ReplaceAllString(s, "")
	s = reBlockComment.ReplaceAllString(s, "")
	s = reSingleKey.ReplaceAllString(s, `"$1":`)
	s = reSingleValue.ReplaceAllString(s, `: "$1"`)
	return strings.TrimSpace(s)
}
