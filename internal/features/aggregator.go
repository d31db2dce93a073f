// Package features turns time-ordered performance history into the point-in-
// time statistics the ensemble models were trained on. Every aggregate is
// computed from records strictly before the prediction date; feeding a record
// from the target date (or later) into a feature is a correctness bug, not a
// tuning choice.
package features

import (
	"sort"
	"time"

	"github.com/yourusername/prop-edge/internal/models"
)

// SortByDate orders stat rows oldest first. Aggregation assumes this order.
func SortByDate(stats []*models.PlayerGameStat) {
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].MatchDate.Before(stats[j].MatchDate)
	})
}

// Before returns the rows dated strictly before asOf's calendar date, oldest
// first. The cut is at date granularity: a row from the fixture's own day is
// excluded regardless of kickoff time. The input may be in any order and may
// contain same-day or future rows; they are dropped, never silently included.
func Before(stats []*models.PlayerGameStat, asOf time.Time) []*models.PlayerGameStat {
	cut := utcDate(asOf)
	past := make([]*models.PlayerGameStat, 0, len(stats))
	for _, s := range stats {
		if utcDate(s.MatchDate).Before(cut) {
			past = append(past, s)
		}
	}
	SortByDate(past)
	return past
}

// utcDate truncates t to midnight of its UTC calendar date. Stat rows carry
// date-granularity timestamps while fixtures carry full kickoff times, so
// comparing them raw would let a same-day row pass a strict before check.
func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Series extracts one named counter from ordered stat rows.
func Series(stats []*models.PlayerGameStat, stat string) ([]float64, error) {
	values := make([]float64, 0, len(stats))
	for _, s := range stats {
		v, err := s.StatValue(stat)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// RollingMean returns the mean of the last window values. Shorter history
// degrades to the mean of what is available; empty history yields 0.
func RollingMean(values []float64, window int) float64 {
	if len(values) == 0 || window <= 0 {
		return 0
	}
	if len(values) > window {
		values = values[len(values)-window:]
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// EMA returns the exponential moving average over values with the given span,
// using the non-adjusted recurrence seeded by the first observation:
// e_1 = x_1, e_t = e_{t-1} + alpha*(x_t - e_{t-1}), alpha = 2/(span+1).
func EMA(values []float64, span int) float64 {
	if len(values) == 0 || span <= 0 {
		return 0
	}

	alpha := 2.0 / (float64(span) + 1.0)
	ema := values[0]
	for _, v := range values[1:] {
		ema += alpha * (v - ema)
	}
	return ema
}

// ExpandingMean returns the cumulative mean over all values.
func ExpandingMean(values []float64) float64 {
	return RollingMean(values, len(values))
}

// BinaryRate returns the fraction of values satisfying pred, both over all
// values (season rate) and over the last five (recent rate).
func BinaryRate(values []float64, pred func(float64) bool) (season, last5 float64) {
	indicator := make([]float64, len(values))
	for i, v := range values {
		if pred(v) {
			indicator[i] = 1
		}
	}
	return ExpandingMean(indicator), RollingMean(indicator, 5)
}

// HeadToHeadAverage returns the mean of stat over the last n completed
// meetings between two teams strictly before asOf. No meetings yields 0.
func HeadToHeadAverage(matches []*models.Match, teamA, teamB string, asOf time.Time, n int, stat func(*models.Match) float64) float64 {
	meetings := headToHead(matches, teamA, teamB, asOf, n)
	if len(meetings) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, m := range meetings {
		sum += stat(m)
	}
	return sum / float64(len(meetings))
}

// HeadToHeadRate returns the fraction of the last n meetings before asOf
// satisfying pred. No meetings yields 0.
func HeadToHeadRate(matches []*models.Match, teamA, teamB string, asOf time.Time, n int, pred func(*models.Match) bool) float64 {
	meetings := headToHead(matches, teamA, teamB, asOf, n)
	if len(meetings) == 0 {
		return 0.0
	}

	count := 0
	for _, m := range meetings {
		if pred(m) {
			count++
		}
	}
	return float64(count) / float64(len(meetings))
}

func headToHead(matches []*models.Match, teamA, teamB string, asOf time.Time, n int) []*models.Match {
	cut := utcDate(asOf)
	meetings := make([]*models.Match, 0, n)
	for _, m := range matches {
		if !m.Played() || !utcDate(m.Kickoff).Before(cut) {
			continue
		}
		pair := (m.HomeTeam == teamA && m.AwayTeam == teamB) ||
			(m.HomeTeam == teamB && m.AwayTeam == teamA)
		if pair {
			meetings = append(meetings, m)
		}
	}

	sort.Slice(meetings, func(i, j int) bool {
		return meetings[i].Kickoff.Before(meetings[j].Kickoff)
	})
	if len(meetings) > n {
		meetings = meetings[len(meetings)-n:]
	}
	return meetings
}

// playedBefore returns a team's completed matches dated strictly before
// asOf's calendar date, oldest first.
func playedBefore(matches []*models.Match, team string, asOf time.Time) []*models.Match {
	cut := utcDate(asOf)
	past := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if m.Played() && utcDate(m.Kickoff).Before(cut) && m.Involves(team) {
			past = append(past, m)
		}
	}
	sort.Slice(past, func(i, j int) bool {
		return past[i].Kickoff.Before(past[j].Kickoff)
	})
	return past
}
