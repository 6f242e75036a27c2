package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// bibliographic maps ISO 639-2/B codes, which muxers still write, to their
// terminology equivalents.
var bibliographic = map[string]string{
	"alb": "sqi",
	"arm": "hye",
	"baq": "eus",
	"bur": "mya",
	"chi": "zho",
	"cze": "ces",
	"dut": "nld",
	"fre": "fra",
	"geo": "kat",
	"ger": "deu",
	"gre": "ell",
	"ice": "isl",
	"mac": "mkd",
	"may": "msa",
	"per": "fas",
	"rum": "ron",
	"slo": "slk",
	"wel": "cym",
}

var namer = display.English.Languages()

// Parse resolves a stream language tag. Empty, undetermined ("und"), and
// unknown tags report ok=false.
func Parse(tag string) (xlanguage.Tag, bool) {
	code := strings.ToLower(strings.TrimSpace(tag))
	if code == "" || code == "und" || code == "zxx" || code == "mul" {
		return xlanguage.Und, false
	}
	if t, ok := bibliographic[code]; ok {
		code = t
	}
	parsed, err := xlanguage.Parse(code)
	if err != nil || parsed == xlanguage.Und {
		return xlanguage.Und, false
	}
	return parsed, true
}

// DisplayName returns the English name of tag, e.g. "French" for "fre".
// Unrecognised tags come back trimmed and unchanged.
func DisplayName(tag string) string {
	parsed, ok := Parse(tag)
	if !ok {
		return strings.TrimSpace(tag)
	}
	if name := namer.Name(parsed); name != "" {
		return name
	}
	return strings.TrimSpace(tag)
}

// Label renders tag for tables: "English (eng)", the bare tag when it has no
// known name, or "" for an empty tag.
func Label(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	name := DisplayName(tag)
	if name == tag {
		return tag
	}
	return name + " (" + tag + ")"
}
