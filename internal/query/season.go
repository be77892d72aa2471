package query

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/reddy-lalith/PlayDex/internal/lexicon"
)

var (
	seasonRangePattern = regexp.MustCompile(`\b((?:19|20)\d{2})[-\s]?(?:19|20)?(\d{2})\b`)
	seasonYearPattern  = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
)

// FormatSeason renders the season starting in start as "YYYY-YY".
func FormatSeason(start int) string {
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// SeasonStartYear parses the start year out of a "YYYY-YY" season.
func SeasonStartYear(season string) (int, bool) {
	if len(season) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(season[:4])
	if err != nil {
		return 0, false
	}
	return y, true
}

// ResolveSeason reads a season out of the raw query. An explicit range
// ("2014-15", "2014-2015", "2014 2015") wins. A bare year names the season
// ending in that year when it is an All-Star query or not in the future, and
// the season starting in that year otherwise. No year gives "".
func ResolveSeason(query string, seasonType lexicon.SeasonType, now time.Time) string {
	for _, m := range seasonRangePattern.FindAllStringSubmatch(query, -1) {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if (start+1)%100 == end {
			return FormatSeason(start)
		}
	}

	m := seasonYearPattern.FindStringSubmatch(query)
	if m == nil {
		return ""
	}
	year, _ := strconv.Atoi(m[1])
	if seasonType == lexicon.AllStar || year <= now.Year() {
		return FormatSeason(year - 1)
	}
	return FormatSeason(year)
}
