package match

import (
	"strings"
	"unicode/utf8"

	"github.com/marimeireles/spotify-to-youtube/internal/models"
)

// missingDetailPenalty is the sentinel duration penalty for candidates
// whose detail lookup returned nothing. They rank last instead of
// being excluded, so a batch with partial detail failures still
// degrades to "pick the least-bad option".
const missingDetailPenalty = 1_000_000

// channelBonus is subtracted from the duration penalty when the
// uploader looks like a canonical channel ("official" or auto-generated
// "Topic" channels).
const channelBonus = 5

// ScoreKey is the ordered ranking tuple for candidates; the
// lexicographically smallest key wins. It exists only for the duration
// of one ranking step.
type ScoreKey struct {
	DurationPenalty int // Distance from the target duration, minus the channel bonus
	TitleLength     int // Shorter titles carry fewer remix/cover qualifiers
	NegDuration     int // Longer videos win the final tie-break
}

// Less reports whether k ranks strictly better than other.
func (k ScoreKey) Less(other ScoreKey) bool {
	if k.DurationPenalty != other.DurationPenalty {
		return k.DurationPenalty < other.DurationPenalty
	}
	if k.TitleLength != other.TitleLength {
		return k.TitleLength < other.TitleLength
	}
	return k.NegDuration < other.NegDuration
}

// Score ranks one candidate against the target duration. A nil
// candidate (missing detail data) gets the worst-case sentinel key.
// When targetSeconds is 0 the source duration is unknown and duration
// stops discriminating: every candidate's base penalty is 0.
func Score(c *models.Candidate, targetSeconds int) ScoreKey {
	if c == nil {
		return ScoreKey{DurationPenalty: missingDetailPenalty}
	}

	penalty := 0
	if targetSeconds > 0 {
		penalty = c.Duration - targetSeconds
		if penalty < 0 {
			penalty = -penalty
		}
	}

	channel := strings.ToLower(c.Channel)
	if strings.Contains(channel, "official") || strings.Contains(channel, "topic") {
		penalty -= channelBonus
	}

	return ScoreKey{
		DurationPenalty: penalty,
		TitleLength:     utf8.RuneCountInString(c.Title),
		NegDuration:     -c.Duration,
	}
}

// SelectBest picks the candidate id with the smallest ScoreKey.
//
// ids preserves search-result order; details may be missing entries
// for ids whose detail fetch failed. Ties resolve to the earliest id,
// which makes selection deterministic for a fixed input. Returns
// ("", false) when ids is empty.
func SelectBest(ids []string, details map[string]models.Candidate, targetSeconds int) (string, bool) {
	if len(ids) == 0 {
		return "", false
	}

	bestID := ""
	var bestKey ScoreKey
	for i, id := range ids {
		var key ScoreKey
		if c, ok := details[id]; ok {
			key = Score(&c, targetSeconds)
		} else {
			key = Score(nil, targetSeconds)
		}

		if i == 0 || key.Less(bestKey) {
			bestID = id
			bestKey = key
		}
	}

	return bestID, true
}
