package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/shopspring/decimal"
)

const unknownLocation = "(unknown)"

type GroupStat struct {
	Name  string
	Count int
	// AvgSeverity is over the records that carry a numeric severity.
	AvgSeverity decimal.Decimal
	rated       int
	sum         decimal.Decimal
}

type Summary struct {
	Total      int
	ByDistrict []GroupStat
	ByRoad     []GroupStat
}

// Summarize groups records by district and by road section, busiest first.
func Summarize(records []domain.Defect) Summary {
	return Summary{
		Total:      len(records),
		ByDistrict: group(records, func(d domain.Defect) string { return location(d.City(), d.District()) }),
		ByRoad:     group(records, func(d domain.Defect) string { return location(d.District(), d.RoadSection()) }),
	}
}

func location(parent, name string) string {
	if name == "" {
		return unknownLocation
	}
	if parent == "" {
		return name
	}
	return parent + " / " + name
}

func group(records []domain.Defect, key func(domain.Defect) string) []GroupStat {
	idx := make(map[string]int)
	stats := make([]GroupStat, 0)
	for _, r := range records {
		k := key(r)
		i, ok := idx[k]
		if !ok {
			i = len(stats)
			idx[k] = i
			stats = append(stats, GroupStat{Name: k})
		}

		stats[i].Count++
		if sev, ok := r.Severity(); ok {
			stats[i].rated++
			stats[i].sum = stats[i].sum.Add(sev)
		}
	}

	for i := range stats {
		if stats[i].rated > 0 {
			stats[i].AvgSeverity = stats[i].sum.Div(decimal.NewFromInt(int64(stats[i].rated))).Round(2)
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "total defects: %d\n", s.Total)
	writeGroup(&b, "by district", s.ByDistrict)
	writeGroup(&b, "by road section", s.ByRoad)
	return b.String()
}

func writeGroup(b *strings.Builder, title string, stats []GroupStat) {
	fmt.Fprintf(b, "%s:\n", title)
	for _, st := range stats {
		avg := "n/a"
		if st.rated > 0 {
			avg = st.AvgSeverity.StringFixed(2)
		}
		fmt.Fprintf(b, "- %s: count=%d, avg_severity=%s\n", st.Name, st.Count, avg)
	}
}
