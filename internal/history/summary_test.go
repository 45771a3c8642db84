package history

import (
	"testing"
	"time"
)

func TestDayCutoff(t *testing.T) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if got := DayCutoff(1); !got.Equal(today) {
		t.Errorf("DayCutoff(1) = %v, want %v", got, today)
	}
	if got := DayCutoff(7); !got.Equal(today.AddDate(0, 0, -6)) {
		t.Errorf("DayCutoff(7) = %v, want %v", got, today.AddDate(0, 0, -6))
	}
}

func TestSummarizeByDay(t *testing.T) {
	now := time.Now()
	stats := []RunStat{
		{RunID: 1, Time: now, Project: "/app", Status: StatusOK, Platform: "ios", Files: 12, Bytes: 100},
		{RunID: 1, Time: now, Project: "/app", Status: StatusOK, Platform: "android", Files: 10, Bytes: 80},
		{RunID: 2, Time: now, Project: "/app", Status: StatusFailed, Platform: "", Files: 0},
	}

	groups := SummarizeByDay(stats, 0)
	if len(groups) != 1 {
		t.Fatalf("len(groups) = %d, want 1", len(groups))
	}

	byKey := map[string]DaySummary{}
	for _, s := range groups[0].Summaries {
		byKey[s.Project+"/"+s.Platform] = s
	}

	rollup, ok := byKey["/app/"]
	if !ok {
		t.Fatal("no project rollup row")
	}
	if rollup.Runs != 2 {
		t.Errorf("rollup.Runs = %d, want 2 (each run counted once)", rollup.Runs)
	}
	if rollup.Files != 22 {
		t.Errorf("rollup.Files = %d, want 22", rollup.Files)
	}
	if rollup.Failed != 1 {
		t.Errorf("rollup.Failed = %d, want 1", rollup.Failed)
	}

	if s := byKey["/app/ios"]; s.Runs != 1 || s.Files != 12 {
		t.Errorf("ios row = %+v, want 1 run, 12 files", s)
	}
	if s := byKey["/app/android"]; s.Runs != 1 || s.Files != 10 {
		t.Errorf("android row = %+v, want 1 run, 10 files", s)
	}
}

func TestSummarizeByDayRollupFirst(t *testing.T) {
	now := time.Now()
	stats := []RunStat{
		{RunID: 1, Time: now, Project: "/app", Status: StatusOK, Platform: "ios", Files: 1},
	}
	groups := SummarizeByDay(stats, 0)
	if len(groups) != 1 || len(groups[0].Summaries) != 2 {
		t.Fatalf("groups = %+v, want one day with rollup + ios rows", groups)
	}
	if groups[0].Summaries[0].Platform != "" {
		t.Errorf("first summary platform = %q, want rollup row first", groups[0].Summaries[0].Platform)
	}
}

func TestSummarizeByDayCutoff(t *testing.T) {
	now := time.Now()
	stats := []RunStat{
		{RunID: 1, Time: now.AddDate(0, 0, -10), Project: "/old", Status: StatusOK, Platform: "ios", Files: 1},
		{RunID: 2, Time: now, Project: "/new", Status: StatusOK, Platform: "ios", Files: 1},
	}

	groups := SummarizeByDay(stats, 2)
	if len(groups) != 1 {
		t.Fatalf("len(groups) = %d, want 1", len(groups))
	}
	for _, s := range groups[0].Summaries {
		if s.Project == "/old" {
			t.Error("old run survived the cutoff")
		}
	}
}

func TestSummarizeByDaySortsDaysDescending(t *testing.T) {
	now := time.Now()
	stats := []RunStat{
		{RunID: 1, Time: now.AddDate(0, 0, -2), Project: "/a", Status: StatusOK, Platform: "ios", Files: 1},
		{RunID: 2, Time: now, Project: "/a", Status: StatusOK, Platform: "ios", Files: 1},
	}

	groups := SummarizeByDay(stats, 0)
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if !groups[0].Date.After(groups[1].Date) {
		t.Errorf("days out of order: %v before %v", groups[0].Date, groups[1].Date)
	}
}

func TestAggregateGroups(t *testing.T) {
	now := time.Now()
	groups := []DayGroup{
		{Date: now, Summaries: []DaySummary{
			{Project: "/b", Platform: "", Runs: 2, Files: 20, Failed: 1},
			{Project: "/b", Platform: "ios", Runs: 2, Files: 20},
		}},
		{Date: now.AddDate(0, 0, -1), Summaries: []DaySummary{
			{Project: "/a", Platform: "", Runs: 1, Files: 5},
			{Project: "/a", Platform: "android", Runs: 1, Files: 5},
			{Project: "/b", Platform: "", Runs: 1, Files: 10},
			{Project: "/b", Platform: "ios", Runs: 1, Files: 10},
		}},
	}

	ad := AggregateGroups(groups)

	if len(ad.ProjectOrder) != 2 || ad.ProjectOrder[0] != "/a" || ad.ProjectOrder[1] != "/b" {
		t.Errorf("ProjectOrder = %v, want [/a /b]", ad.ProjectOrder)
	}
	if c := ad.PerProject["/b"]; c.Runs != 3 || c.Files != 30 || c.Failed != 1 {
		t.Errorf("PerProject[/b] = %+v, want 3 runs, 30 files, 1 failed", c)
	}
	if c := ad.PerPlatform[PlatformKey{"/b", "ios"}]; c.Runs != 3 || c.Files != 30 {
		t.Errorf("PerPlatform[/b ios] = %+v, want 3 runs, 30 files", c)
	}
	if !ad.HasFailed {
		t.Error("HasFailed = false, want true")
	}
	if got := ad.PlatformsByProject["/a"]; len(got) != 1 || got[0].Platform != "android" {
		t.Errorf("PlatformsByProject[/a] = %v, want [android]", got)
	}
}

func TestAggregateGroupsNoFailures(t *testing.T) {
	groups := []DayGroup{
		{Date: time.Now(), Summaries: []DaySummary{
			{Project: "/a", Platform: "", Runs: 1, Files: 5},
		}},
	}
	if ad := AggregateGroups(groups); ad.HasFailed {
		t.Error("HasFailed = true, want false")
	}
}
