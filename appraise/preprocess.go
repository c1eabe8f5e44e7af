package appraise

import (
	"regexp"
	"strings"
)

// ethMarker is the one bracket annotation that survives preprocessing: it
// marks ethereal items and changes the appraisal.
const ethMarker = "[ETH]"

var (
	// numeric stat tags like [290ED/6/6/4] that OCR lifts from trade overlays
	numericTagPattern = regexp.MustCompile(`\[\d+[A-Za-z%]*(?:/\d+[A-Za-z%]*)+\]`)
	// any remaining [x] annotation
	bracketPattern = regexp.MustCompile(`\[[^\[\]]*\]`)
	// fullwidth 【x】 annotations from Chinese UI overlays
	cjkBracketPattern = regexp.MustCompile(`【[^【】]*】`)
	// whole prefix:/suffix: annotation lines
	affixLinePattern = regexp.MustCompile(`(?mi)^[ \t]*(?:prefix|suffix|前缀|后缀)[:：].*$`)
)

// Lines announcing the item's level requirement, in the phrasings the OCR
// output has been seen to use.
var levelMarkers = []string{"需要等级", "等级需求", "Required Level"}

// PreprocessOCRText cleans raw OCR output before it is handed to the
// appraisal model: decorative bracket annotations are stripped (except the
// [ETH] marker), affix annotation lines dropped, and blank lines collapsed.
// When a level-requirement line is present, at most the first three lines
// plus everything from that line onward are kept, cutting OCR noise between
// the item header and its property block.
func PreprocessOCRText(raw string) string {
	text := numericTagPattern.ReplaceAllString(raw, "")
	text = bracketPattern.ReplaceAllStringFunc(text, func(m string) string {
		if m == ethMarker {
			return m
		}
		return ""
	})
	text = cjkBracketPattern.ReplaceAllString(text, "")
	text = affixLinePattern.ReplaceAllString(text, "")

	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	marker := levelMarkerIndex(lines)
	if marker < 0 {
		return strings.Join(lines, "\n")
	}

	head := marker
	if head > 3 {
		head = 3
	}
	kept := make([]string, 0, head+len(lines)-marker)
	kept = append(kept, lines[:head]...)
	kept = append(kept, lines[marker:]...)
	return strings.Join(kept, "\n")
}

func levelMarkerIndex(lines []string) int {
	for i, line := range lines {
		for _, m := range levelMarkers {
			if strings.Contains(line, m) {
				return i
			}
		}
	}
	return -1
}
