package classify

import (
	"regexp"
	"strings"

	"github.com/reddy-lalith/PlayDex/internal/lexicon"
)

var (
	threePointPatterns = compileAll(`\b3PT\b`, `\b3-PT\b`, `\bThree Point\b`)

	jumpShotInclude = compileAll(
		`\b(Jump Shot|Jumper|Pull-Up|Pullup|Step Back|Turnaround|Fadeaway)\b`,
		`\b3PT\b`,
		`\b(Running|Floating)\s+(Jump Shot|Jumper)\b`,
	)
	jumpShotExclude = compileAll(
		`\b(Layup|Dunk|Tip|Hook|Alley Oop)\b`,
		`\b(Cutting|Putback)\s+(Layup|Dunk)\b`,
	)

	// labels whose description wording differs from the canonical label
	labelPatterns = map[lexicon.ShotLabel]*regexp.Regexp{
		lexicon.ShotPullup:   regexp.MustCompile(`(?i)\bPull-?Up\b`),
		lexicon.ShotStepBack: regexp.MustCompile(`(?i)\bStep[- ]?Back\b`),
		lexicon.ShotAlleyOop: regexp.MustCompile(`(?i)\bAlley[- ]Oop\b`),
		lexicon.ShotTip:      regexp.MustCompile(`(?i)\bTip\b`),
	}
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

func anyMatch(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// IsThreePointer reports whether the description is a three-point attempt.
func IsThreePointer(desc string) bool {
	return anyMatch(threePointPatterns, desc)
}

// IsJumpShot reports whether the description belongs to the jump-shot
// family: an inclusion phrase and no layup/dunk/tip/hook/alley-oop wording.
func IsJumpShot(desc string) bool {
	return anyMatch(jumpShotInclude, desc) && !anyMatch(jumpShotExclude, desc)
}

// MatchesShot reports whether the play is of the given shot type.
func MatchesShot(p Play, label lexicon.ShotLabel) bool {
	switch label {
	case lexicon.ShotThree:
		return IsThreePointer(p.Description)
	case lexicon.ShotJump:
		return IsJumpShot(p.Description)
	}
	if re, ok := labelPatterns[label]; ok {
		return re.MatchString(p.Description)
	}
	return lexicon.ContainsPhrase(strings.ToLower(p.Description), strings.ToLower(string(label)))
}

// MatchesLongRange reports whether the shot came from at least
// lexicon.LongRangeFeet. Without any distance, a three-pointer qualifies.
func MatchesLongRange(p Play) bool {
	if ft, ok := ShotDistance(p); ok {
		return ft >= lexicon.LongRangeFeet
	}
	return IsThreePointer(p.Description)
}
