package identity

// Team ids used by the exception table.
const (
	teamCavaliers int64 = 1610612739
	teamHeat      int64 = 1610612748
	teamLakers    int64 = 1610612747
)

// stint is an inclusive range of season start years spent on one team.
type stint struct {
	from, to int
	teamID   int64
}

// historicalStints covers well-documented team changes that upstream
// season data is often missing for. Ranges are by season start year; a zero
// upper bound is open-ended.
var historicalStints = map[int64][]stint{
	2544: { // LeBron James
		{from: 2003, to: 2009, teamID: teamCavaliers},
		{from: 2010, to: 2013, teamID: teamHeat},
		{from: 2014, to: 2017, teamID: teamCavaliers},
		{from: 2018, to: 0, teamID: teamLakers},
	},
}

func exceptionTeam(playerID int64, startYear int) (int64, bool) {
	for _, s := range historicalStints[playerID] {
		if startYear >= s.from && (s.to == 0 || startYear <= s.to) {
			return s.teamID, true
		}
	}
	return 0, false
}
