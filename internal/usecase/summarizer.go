package usecase

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"steam-profile-bot/internal/domain"
)

const (
	realNameFallback    = "Not specified"
	displayNameFallback = "No nickname"
	unknownFallback     = "Unknown"

	topCountryLimit  = 5
	digestTitleLimit = 10
	digestDateLayout = "01/02/2006"
	digestListJoiner = ", "
)

// CountryCount is one entry of the friend country distribution.
type CountryCount struct {
	Code  string
	Count int
}

// Summarize reduces an aggregate to the fixed-format plain-text digest. It is
// pure and deterministic.
func Summarize(agg domain.ProfileAggregate) string {
	p := agg.Profile

	countries := make([]string, 0, topCountryLimit)
	for _, c := range TopFriendCountries(agg.Friends, topCountryLimit) {
		countries = append(countries, fmt.Sprintf("%d from %s", c.Count, c.Code))
	}

	var totalMinutes int64
	for _, g := range agg.Games {
		totalMinutes += g.PlaytimeMinutes
	}

	titles := make([]string, 0, digestTitleLimit)
	for i, g := range agg.Games {
		if i == digestTitleLimit {
			break
		}
		titles = append(titles, g.Name)
	}

	var b strings.Builder
	b.WriteString("Steam User:\n")
	fmt.Fprintf(&b, "- Display name: %s\n", orDefault(p.PersonaName, displayNameFallback))
	fmt.Fprintf(&b, "- Real name: %s\n", orDefault(p.RealName, realNameFallback))
	fmt.Fprintf(&b, "- Country: %s\n", orDefault(p.CountryCode, unknownFallback))
	fmt.Fprintf(&b, "- Account created: %s\n", formatCreated(p.TimeCreated))
	b.WriteString("\n")
	b.WriteString("Friends:\n")
	fmt.Fprintf(&b, "- Total friends: %d\n", len(agg.Friends))
	fmt.Fprintf(&b, "- Top friend countries: %s\n", strings.Join(countries, digestListJoiner))
	b.WriteString("\n")
	b.WriteString("Gaming activity:\n")
	fmt.Fprintf(&b, "- Sample of owned games: %d\n", len(agg.Games))
	fmt.Fprintf(&b, "- Total playtime (in sample): ~%.1f hours\n", float64(totalMinutes)/60)
	fmt.Fprintf(&b, "- Example games: %s", strings.Join(titles, digestListJoiner))
	return b.String()
}

// TopFriendCountries tallies friends by country and returns the limit most
// frequent entries, count descending. Ties keep first-encounter order.
func TopFriendCountries(friends []domain.FriendRecord, limit int) []CountryCount {
	index := make(map[string]int)
	var tally []CountryCount
	for _, f := range friends {
		code := f.CountryCode
		if code == "" {
			code = domain.UnknownCountry
		}
		if i, ok := index[code]; ok {
			tally[i].Count++
			continue
		}
		index[code] = len(tally)
		tally = append(tally, CountryCount{Code: code, Count: 1})
	}

	slices.SortStableFunc(tally, func(a, b CountryCount) int {
		return b.Count - a.Count
	})
	if len(tally) > limit {
		tally = tally[:limit]
	}
	return tally
}

func formatCreated(epoch int64) string {
	if epoch <= 0 {
		return unknownFallback
	}
	return time.Unix(epoch, 0).UTC().Format(digestDateLayout)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
