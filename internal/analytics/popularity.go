package analytics

import (
	"sort"
	"time"

	"github.com/caravel-labs/caravel/internal/usagelog"
)

const topTagCount = 5

// PopularityItem aggregates usage events sharing a product key.
type PopularityItem struct {
	Key               string    `json:"key"`
	Count             int       `json:"count"`
	FirstSeen         time.Time `json:"firstSeen"`
	LastSeen          time.Time `json:"lastSeen"`
	MeanRiskScore     *float64  `json:"meanRiskScore,omitempty"`
	MeanFeasibility   *float64  `json:"meanFeasibility,omitempty"`
	TopRegulationTags []string  `json:"topRegulationTags,omitempty"`
}

// PopularityReport ranks analyzed products by request volume.
type PopularityReport struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	TotalEvents int              `json:"totalEvents"`
	Items       []PopularityItem `json:"items"`
}

type popularityAccumulator struct {
	count     int
	firstSeen time.Time
	lastSeen  time.Time
	riskSum   float64
	riskCount int
	feasSum   float64
	feasCount int
	tagCounts map[string]int
}

// BuildPopularity aggregates usage events into a ranked popularity report.
// Events group by category when resolved, falling back to product name and
// finally raw input, so unresolved products still surface.
func BuildPopularity(events []usagelog.Event, now time.Time) PopularityReport {
	groups := make(map[string]*popularityAccumulator)

	for _, ev := range events {
		key := eventKey(ev)
		if key == "" {
			continue
		}

		acc, ok := groups[key]
		if !ok {
			acc = &popularityAccumulator{
				firstSeen: ev.Timestamp,
				lastSeen:  ev.Timestamp,
				tagCounts: make(map[string]int),
			}
			groups[key] = acc
		}

		acc.count++
		if ev.Timestamp.Before(acc.firstSeen) {
			acc.firstSeen = ev.Timestamp
		}
		if ev.Timestamp.After(acc.lastSeen) {
			acc.lastSeen = ev.Timestamp
		}
		if ev.RiskScore != nil {
			acc.riskSum += *ev.RiskScore
			acc.riskCount++
		}
		if ev.FeasibilityScore != nil {
			acc.feasSum += *ev.FeasibilityScore
			acc.feasCount++
		}
		for _, tag := range ev.RegulationTags {
			acc.tagCounts[tag]++
		}
	}

	items := make([]PopularityItem, 0, len(groups))
	for key, acc := range groups {
		item := PopularityItem{
			Key:              key,
			Count:            acc.count,
			FirstSeen:        acc.firstSeen,
			LastSeen:         acc.lastSeen,
			TopRegulationTags: topTags(acc.tagCounts, topTagCount),
		}
		if acc.riskCount > 0 {
			mean := acc.riskSum / float64(acc.riskCount)
			item.MeanRiskScore = &mean
		}
		if acc.feasCount > 0 {
			mean := acc.feasSum / float64(acc.feasCount)
			item.MeanFeasibility = &mean
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		if !items[i].LastSeen.Equal(items[j].LastSeen) {
			return items[i].LastSeen.After(items[j].LastSeen)
		}
		return items[i].Key < items[j].Key
	})

	return PopularityReport{
		GeneratedAt: now,
		TotalEvents: len(events),
		Items:       items,
	}
}

func eventKey(ev usagelog.Event) string {
	if ev.CategoryID != nil && *ev.CategoryID != "" {
		return *ev.CategoryID
	}
	if ev.ProductName != nil && *ev.ProductName != "" {
		return *ev.ProductName
	}
	return ev.RawInput
}

// topTags returns up to n tags ordered by descending count, tag name as
// the deterministic tiebreaker.
func topTags(counts map[string]int, n int) []string {
	if len(counts) == 0 {
		return nil
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}

	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})

	if len(tags) > n {
		tags = tags[:n]
	}
	return tags
}
