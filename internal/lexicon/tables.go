// Package lexicon holds the static keyword tables used to understand queries:
// shot-type aliases, stat categories, score contexts, clutch windows, months
// and season types. Tables are ordered slices so every lookup that depends on
// iteration order is deterministic.
package lexicon

import "strconv"

// Category is a stat category accepted by the upstream video endpoint.
type Category string

const (
	Points    Category = "PTS"
	Blocks    Category = "BLK"
	Steals    Category = "STL"
	Assists   Category = "AST"
	Rebounds  Category = "REB"
	Turnovers Category = "TOV"
	Misses    Category = "MISS"
	Attempts  Category = "FGA"
)

// Action returns the human phrase for a category.
func (c Category) Action() string {
	switch c {
	case Points:
		return "field goals made"
	case Assists:
		return "assists"
	case Rebounds:
		return "rebounds"
	case Steals:
		return "steals"
	case Blocks:
		return "blocks"
	case Turnovers:
		return "turnovers"
	case Attempts:
		return "shot attempts"
	case Misses:
		return "misses"
	default:
		return string(c)
	}
}

// Shooting reports whether shot and score filters apply to the category.
func (c Category) Shooting() bool {
	return c == Points || c == Attempts || c == Misses
}

// ShotLabel is a canonical shot technique as it appears in play descriptions.
type ShotLabel string

const (
	ShotFadeaway   ShotLabel = "Fadeaway"
	ShotBank       ShotLabel = "Bank"
	ShotHook       ShotLabel = "Hook"
	ShotFloating   ShotLabel = "Floating"
	ShotLayup      ShotLabel = "Layup"
	ShotPutback    ShotLabel = "Putback"
	ShotReverse    ShotLabel = "Reverse Layup"
	ShotFingerRoll ShotLabel = "Finger Roll"
	ShotJump       ShotLabel = "Jump Shot"
	ShotStepBack   ShotLabel = "Step Back"
	ShotAlleyOop   ShotLabel = "Alley Oop"
	ShotPullup     ShotLabel = "Pullup"
	ShotTip        ShotLabel = "Tip"
	ShotRunning    ShotLabel = "Running"
	ShotTurnaround ShotLabel = "Turnaround"
	ShotDunk       ShotLabel = "Dunk"
	ShotDriving    ShotLabel = "Driving"
	ShotCutting    ShotLabel = "Cutting"
	ShotThree      ShotLabel = "3PT"
)

// ScoreSpecifier classifies a shot's effect on the score.
type ScoreSpecifier string

const (
	GameTying    ScoreSpecifier = "GT"
	LeadTaking   ScoreSpecifier = "LT"
	BuzzerBeater ScoreSpecifier = "BB"
	GameWinner   ScoreSpecifier = "GW"
)

// Phrase returns a readable name for the specifier.
func (s ScoreSpecifier) Phrase() string {
	switch s {
	case GameTying:
		return "game-tying"
	case LeadTaking:
		return "lead-taking"
	case BuzzerBeater:
		return "buzzer beater"
	case GameWinner:
		return "game winner"
	default:
		return string(s)
	}
}

// RareEvent reports whether the specifier needs raw last-second clock data.
func (s ScoreSpecifier) RareEvent() bool {
	return s == BuzzerBeater || s == GameWinner
}

// ScorePriority orders specifiers when a query names more than one.
// The narrowest context wins.
var ScorePriority = []ScoreSpecifier{GameWinner, BuzzerBeater, GameTying, LeadTaking}

// ClutchWindow is a named last-N-time-remaining filter.
type ClutchWindow string

const (
	Last10Seconds ClutchWindow = "Last 10 Seconds"
	Last1Minute   ClutchWindow = "Last 1 Minute"
	Last5Minutes  ClutchWindow = "Last 5 Minutes"
)

// ClutchPriority lists windows from narrowest to broadest.
var ClutchPriority = []ClutchWindow{Last10Seconds, Last1Minute, Last5Minutes}

// SeasonType is the upstream season segment.
type SeasonType string

const (
	RegularSeason SeasonType = "Regular Season"
	Playoffs      SeasonType = "Playoffs"
	PreSeason     SeasonType = "Pre Season"
	AllStar       SeasonType = "All Star"
)

// Entry maps a lowercase phrase to a canonical value.
type Entry[V any] struct {
	Phrase string
	Value  V
}

// ShotSpecifiers maps shot aliases to canonical labels.
var ShotSpecifiers = []Entry[ShotLabel]{
	{"fade", ShotFadeaway}, {"fades", ShotFadeaway}, {"fadeaway", ShotFadeaway}, {"fadeaways", ShotFadeaway},
	{"bank", ShotBank}, {"banks", ShotBank}, {"bankshot", ShotBank},
	{"hook", ShotHook}, {"hooks", ShotHook}, {"hookshot", ShotHook},
	{"floater", ShotFloating}, {"floaters", ShotFloating}, {"floating", ShotFloating},
	{"layup", ShotLayup}, {"layups", ShotLayup},
	{"putback", ShotPutback}, {"putbacks", ShotPutback},
	{"reverse", ShotReverse},
	{"finger", ShotFingerRoll}, {"roll", ShotFingerRoll},
	{"jumper", ShotJump}, {"jumpers", ShotJump}, {"jump", ShotJump},
	{"step", ShotStepBack}, {"back", ShotStepBack},
	{"alley", ShotAlleyOop}, {"oop", ShotAlleyOop},
	{"pullup", ShotPullup}, {"pull-up", ShotPullup}, {"pullups", ShotPullup}, {"pull-ups", ShotPullup},
	{"pulls", ShotPullup}, {"pull", ShotPullup}, {"hang-pulls", ShotPullup}, {"hang pulls", ShotPullup},
	{"hang-pull", ShotPullup}, {"hang pull", ShotPullup},
	{"tip", ShotTip}, {"tips", ShotTip}, {"tip-in", ShotTip}, {"tip-ins", ShotTip}, {"tip in", ShotTip}, {"tip ins", ShotTip},
	{"running", ShotRunning}, {"runner", ShotRunning}, {"runners", ShotRunning},
	{"turnaround", ShotTurnaround}, {"turnarounds", ShotTurnaround},
	{"dunk", ShotDunk}, {"dunks", ShotDunk}, {"slams", ShotDunk}, {"slam", ShotDunk}, {"jam", ShotDunk}, {"jams", ShotDunk},
	{"driving", ShotDriving}, {"drive", ShotDriving},
	{"cutting", ShotCutting}, {"cut", ShotCutting},
	{"three", ShotThree}, {"threes", ShotThree}, {"three-pointer", ShotThree}, {"three-point", ShotThree},
	{"three-pointers", ShotThree}, {"3-pointer", ShotThree}, {"3-point", ShotThree}, {"3-pointers", ShotThree},
	{"3pt", ShotThree}, {"3pts", ShotThree}, {"3-point shot", ShotThree}, {"3-point shots", ShotThree},
	{"3pt shot", ShotThree}, {"3pt shots", ShotThree}, {"trey-ball", ShotThree}, {"three ball", ShotThree},
	{"trey balls", ShotThree}, {"three balls", ShotThree}, {"trey-balls", ShotThree}, {"three-ball", ShotThree},
	{"three-balls", ShotThree}, {"treyball", ShotThree}, {"threeball", ShotThree}, {"treyballs", ShotThree},
	{"threeballs", ShotThree}, {"treys", ShotThree},
}

// ScoreSpecifiers maps score-context phrases to specifiers.
var ScoreSpecifiers = []Entry[ScoreSpecifier]{
	{"game-tying", GameTying}, {"game tying", GameTying}, {"tying", GameTying},
	{"lead-taking", LeadTaking}, {"lead taking", LeadTaking}, {"lead-taker", LeadTaking}, {"lead taker", LeadTaking},
	{"lead-takers", LeadTaking}, {"lead takers", LeadTaking}, {"go ahead", LeadTaking}, {"go-ahead", LeadTaking},
	{"go-aheads", LeadTaking}, {"go aheads", LeadTaking},
	{"buzzer beater", BuzzerBeater}, {"buzzer-beater", BuzzerBeater}, {"buzzer beaters", BuzzerBeater}, {"buzzer-beaters", BuzzerBeater},
	{"game winner", GameWinner}, {"game-winner", GameWinner}, {"game winners", GameWinner}, {"game-winners", GameWinner},
}

// CategoryKeywordSet is the keyword list for one category.
type CategoryKeywordSet struct {
	Category Category
	Keywords []string
}

// CategoryKeywords lists the words that select each stat category. Every
// shot alias also selects points.
var CategoryKeywords = []CategoryKeywordSet{
	{Points, append([]string{
		"point", "score", "pts", "points", "scoring", "buckets", "bucket", "makes", "lays",
		"step back", "alley oop", "jump shot", "midrange", "middy", "flush", "flushes",
		"alley oops", "oops", "slam dunk", "slam dunks",
		"buzzer beater", "buzzer-beater", "buzzer beaters", "buzzer-beaters",
		"game winner", "game-winner", "game winners", "game-winners",
	}, shotPhrases()...)},
	{Blocks, []string{"block", "swat", "blocks", "swats", "reject", "rejections", "rejection", "swatted"}},
	{Steals, []string{"steal", "steals", "thief", "thieves", "cookies", "cookie", "stolen"}},
	{Assists, []string{"assist", "apple", "dime", "dimes", "assists", "passing", "apples"}},
	{Rebounds, []string{"board", "rebound", "rebounds", "boards", "grab"}},
	{Turnovers, []string{"turnover", "giveaway", "turnovers", "lose", "losing possession", "lost possession", "giveaways"}},
	{Misses, []string{"brick", "bricks", "miss", "misses", "airball", "missed shot", "failed shot", "missed shots", "clank", "clanks", "missed"}},
	{Attempts, []string{"all shots", "shot attempts", "attempts", "shots", "field goal attempts", "fga", "fgas", "field goal attempt"}},
}

// Months maps month names to upstream month codes. Codes count from the
// start of the season, so October is 01 and September is 12.
var Months = []Entry[string]{
	{"october", "01"}, {"oct", "01"},
	{"november", "02"}, {"nov", "02"},
	{"december", "03"}, {"dec", "03"},
	{"january", "04"}, {"jan", "04"},
	{"february", "05"}, {"feb", "05"},
	{"march", "06"}, {"mar", "06"},
	{"april", "07"}, {"apr", "07"},
	{"may", "08"},
	{"june", "09"}, {"jun", "09"},
	{"july", "10"}, {"jul", "10"},
	{"august", "11"}, {"aug", "11"},
	{"september", "12"}, {"sep", "12"},
}

// NoMonth is the month code meaning "no filter".
const NoMonth = "0"

// MonthName returns the calendar name for a season-ordered month code.
func MonthName(code string) string {
	names := []string{"October", "November", "December", "January", "February", "March",
		"April", "May", "June", "July", "August", "September"}
	n, err := strconv.Atoi(code)
	if err != nil || n < 1 || n > len(names) {
		return ""
	}
	return names[n-1]
}

// ClutchWindows maps clutch phrases to windows.
var ClutchWindows = []Entry[ClutchWindow]{
	{"clutch", Last5Minutes},
	{"end of game", Last5Minutes},
	{"last minute", Last1Minute},
	{"final minute", Last1Minute},
	{"last second", Last10Seconds},
	{"last-second", Last10Seconds},
	{"last seconds", Last10Seconds},
	{"final seconds", Last10Seconds},
	{"last 10 seconds", Last10Seconds},
	{"last 5 seconds", Last10Seconds},
}

// ClutchKeywords and SeasonKeywords feed the token-level spelling corrector.
var (
	ClutchKeywords = []string{"clutch", "last minute", "final minute", "end of game", "last second",
		"final seconds", "last 10 seconds", "last-second", "last seconds", "last 5 seconds"}
	SeasonKeywords = []string{"playoffs", "postseason", "regular season", "preseason", "all-star",
		"all star", "play-offs", "play-off", "post-season"}
)

// LongRangeWords mark a request for deep shots.
var LongRangeWords = []string{"long", "deep", "logo", "halfcourt", "half-court"}

// LongRangeFeet is the minimum shot distance for long-range requests.
const LongRangeFeet = 20

// StopWords are dropped before any matching.
var StopWords = map[string]struct{}{"the": {}, "a": {}, "an": {}}

func shotPhrases() []string {
	out := make([]string, 0, len(ShotSpecifiers))
	for _, e := range ShotSpecifiers {
		out = append(out, e.Phrase)
	}
	return out
}

// Vocabulary returns every non-player keyword in table order, without
// duplicates. The spelling corrector matches tokens against this list.
func Vocabulary() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(words ...string) {
		for _, w := range words {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	for _, e := range CategoryKeywords {
		add(e.Keywords...)
	}
	for _, e := range Months {
		add(e.Phrase)
	}
	add(shotPhrases()...)
	add(ClutchKeywords...)
	add(SeasonKeywords...)
	for _, e := range ScoreSpecifiers {
		add(e.Phrase)
	}
	return out
}
