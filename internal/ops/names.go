package ops

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Names lists every operation in menu order.
var Names = []string{
	OpResize, OpConvert, OpCut, OpCrop, OpRotate, OpSubtitles,
	OpConcat, OpMerge, OpSanitize, OpExtractAudio, OpExtractFrames, OpInfo,
}

// Title renders an operation name for display: "extract-audio" becomes
// "Extract Audio".
func Title(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "-", " "))
	if name == "" {
		return ""
	}
	return cases.Title(language.English).String(name)
}
