package history

import (
	"sort"
	"time"
)

// DayCutoff returns midnight N days ago (inclusive) in the local timezone.
// For days=1 it returns today at midnight, for days=7 it returns 6 days ago, etc.
func DayCutoff(days int) time.Time {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -(days - 1))
}

// DaySummary holds run and file counts for one project/platform pair.
// The row with an empty Platform is the project rollup: it counts each
// run once no matter how many platforms it touched, and carries the
// failure count.
type DaySummary struct {
	Project  string
	Platform string
	Runs     int
	Files    int
	Failed   int
}

// DayGroup holds all summaries for a single calendar day.
type DayGroup struct {
	Date      time.Time
	Summaries []DaySummary
}

// SummarizeByDay filters stats to the last N calendar days (local time),
// groups by date + project/platform, and returns day groups sorted
// descending with summaries sorted by project then platform. Pass days=0
// to include all stats.
func SummarizeByDay(stats []RunStat, days int) []DayGroup {
	now := time.Now()
	var cutoff time.Time
	if days > 0 {
		cutoff = DayCutoff(days)
	}

	type key struct {
		date              string
		project, platform string
	}
	type counts struct {
		runs, files, failed int
	}
	grouped := map[key]*counts{}
	dates := map[string]time.Time{}
	runSeen := map[int64]bool{}

	bump := func(k key, day time.Time) *counts {
		c, ok := grouped[k]
		if !ok {
			c = &counts{}
			grouped[k] = c
			dates[k.date] = day
		}
		return c
	}

	for _, st := range stats {
		local := st.Time.In(now.Location())
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, now.Location())
		if days > 0 && day.Before(cutoff) {
			continue
		}
		ds := day.Format("2006-01-02")

		// Project rollup row: one count per run, files summed across
		// all its platforms.
		rollup := bump(key{date: ds, project: st.Project}, day)
		rollup.files += st.Files
		if !runSeen[st.RunID] {
			runSeen[st.RunID] = true
			rollup.runs++
			if st.Status == StatusFailed {
				rollup.failed++
			}
		}

		if st.Platform != "" {
			c := bump(key{date: ds, project: st.Project, platform: st.Platform}, day)
			c.runs++
			c.files += st.Files
		}
	}

	// Build day groups.
	dayMap := map[string]*DayGroup{}
	for k, c := range grouped {
		dg, ok := dayMap[k.date]
		if !ok {
			dg = &DayGroup{Date: dates[k.date]}
			dayMap[k.date] = dg
		}
		dg.Summaries = append(dg.Summaries, DaySummary{
			Project:  k.project,
			Platform: k.platform,
			Runs:     c.runs,
			Files:    c.files,
			Failed:   c.failed,
		})
	}

	// Sort summaries within each day: project alphabetical, rollup row
	// before its platform rows.
	for _, dg := range dayMap {
		sort.Slice(dg.Summaries, func(i, j int) bool {
			ki := dg.Summaries[i].Project + "/" + dg.Summaries[i].Platform
			kj := dg.Summaries[j].Project + "/" + dg.Summaries[j].Platform
			return ki < kj
		})
	}

	// Collect and sort days descending.
	groups := make([]DayGroup, 0, len(dayMap))
	for _, dg := range dayMap {
		groups = append(groups, *dg)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})

	return groups
}

// PlatformKey identifies a project/platform pair for aggregation.
type PlatformKey struct{ Project, Platform string }

// Counts holds run, file, and failure totals for a project or platform.
type Counts struct{ Runs, Files, Failed int }

// AggregatedData holds the result of aggregating day groups into
// per-platform and per-project counts.
type AggregatedData struct {
	PerPlatform        map[PlatformKey]*Counts
	PerProject         map[string]*Counts
	ProjectOrder       []string
	PlatformsByProject map[string][]PlatformKey
	HasFailed          bool
}

// AggregateGroups collects per-platform and per-project counts from day
// groups.
func AggregateGroups(groups []DayGroup) AggregatedData {
	ad := AggregatedData{
		PerPlatform:        map[PlatformKey]*Counts{},
		PerProject:         map[string]*Counts{},
		PlatformsByProject: map[string][]PlatformKey{},
	}
	projectSeen := map[string]bool{}

	for _, dg := range groups {
		for _, s := range dg.Summaries {
			if s.Platform == "" {
				pc, ok := ad.PerProject[s.Project]
				if !ok {
					pc = &Counts{}
					ad.PerProject[s.Project] = pc
				}
				pc.Runs += s.Runs
				pc.Files += s.Files
				pc.Failed += s.Failed
			} else {
				pk := PlatformKey{s.Project, s.Platform}
				c, ok := ad.PerPlatform[pk]
				if !ok {
					c = &Counts{}
					ad.PerPlatform[pk] = c
				}
				c.Runs += s.Runs
				c.Files += s.Files
			}

			if !projectSeen[s.Project] {
				projectSeen[s.Project] = true
				ad.ProjectOrder = append(ad.ProjectOrder, s.Project)
			}
		}
	}
	sort.Strings(ad.ProjectOrder)

	for pk := range ad.PerPlatform {
		ad.PlatformsByProject[pk.Project] = append(ad.PlatformsByProject[pk.Project], pk)
	}
	for _, pks := range ad.PlatformsByProject {
		sort.Slice(pks, func(i, j int) bool { return pks[i].Platform < pks[j].Platform })
	}
	for _, pc := range ad.PerProject {
		if pc.Failed > 0 {
			ad.HasFailed = true
			break
		}
	}

	return ad
}
