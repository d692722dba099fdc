package arkgen

import (
  "testing"
  "time"
)

var testStart = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestSynthesizeTimelineCoversEveryMilestone(t *testing.T) {
  milestones := []MilestoneDraft{
    {Title: "Basics", Order: 0},
    {Title: "Structs", Order: 1},
    {Title: "Concurrency", Order: 2},
  }
  tasks := SynthesizeTimeline(milestones, testStart, 12)

  covered := map[int]bool{}
  for _, task := range tasks {
    if task.HasMilestone {
      covered[task.MilestoneOrder] = true
    }
  }
  for _, m := range milestones {
    if !covered[m.Order] {
      t.Fatalf("milestone %d has no scheduled task", m.Order)
    }
  }
}

func TestSynthesizeTimelineDatesWithinWindow(t *testing.T) {
  milestones := []MilestoneDraft{
    {Title: "Basics", Order: 0, EstimatedWeeks: 10},
    {Title: "Structs", Order: 1, EstimatedWeeks: 10},
  }
  totalWeeks := 8
  tasks := SynthesizeTimeline(milestones, testStart, totalWeeks)
  end := testStart.AddDate(0, 0, totalWeeks*7)

  if len(tasks) == 0 {
    t.Fatal("expected tasks")
  }
  for _, task := range tasks {
    if task.Date.Before(testStart) || !task.Date.Before(end) {
      t.Fatalf("task %q dated %s outside [%s, %s)", task.Title, task.Date, testStart, end)
    }
  }
}

func TestSynthesizeTimelineMoreMilestonesThanWeeks(t *testing.T) {
  var milestones []MilestoneDraft
  for i := 0; i < 10; i++ {
    milestones = append(milestones, MilestoneDraft{Title: "Phase", Order: i})
  }
  totalWeeks := 4
  tasks := SynthesizeTimeline(milestones, testStart, totalWeeks)
  end := testStart.AddDate(0, 0, totalWeeks*7)

  covered := map[int]bool{}
  for _, task := range tasks {
    if task.Date.Before(testStart) || !task.Date.Before(end) {
      t.Fatalf("task dated %s outside window", task.Date)
    }
    if task.HasMilestone {
      covered[task.MilestoneOrder] = true
    }
  }
  if len(covered) != len(milestones) {
    t.Fatalf("expected all %d milestones covered, got %d", len(milestones), len(covered))
  }
}

func TestSynthesizeTimelineDefaultDuration(t *testing.T) {
  milestones := []MilestoneDraft{{Title: "Basics", Order: 0}}
  tasks := SynthesizeTimeline(milestones, testStart, 0)
  end := testStart.AddDate(0, 0, DefaultTotalWeeks*7)
  for _, task := range tasks {
    if !task.Date.Before(end) {
      t.Fatalf("task dated %s beyond default window", task.Date)
    }
  }
}

func TestSynthesizeTimelineSorted(t *testing.T) {
  milestones := []MilestoneDraft{
    {Title: "Basics", Order: 0, EstimatedWeeks: 2},
    {Title: "Structs", Order: 1, EstimatedWeeks: 2},
  }
  tasks := SynthesizeTimeline(milestones, testStart, 4)
  for i := 1; i < len(tasks); i++ {
    if tasks[i].Date.Before(tasks[i-1].Date) {
      t.Fatalf("tasks not sorted at index %d", i)
    }
  }
}

func TestReshapeTimelineExplicitDates(t *testing.T) {
  days := []TimelineDayDraft{
    {
      Date: "2026-03-04",
      Tasks: []TimelineTaskDraft{
        {Title: "Read chapter 1", TaskType: "learning", EstimatedHours: 1, Priority: "high"},
      },
    },
  }
  tasks := ReshapeTimeline(days, testStart)
  if len(tasks) != 1 {
    t.Fatalf("expected 1 task, got %d", len(tasks))
  }
  want := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
  if !tasks[0].Date.Equal(want) {
    t.Fatalf("expected %s, got %s", want, tasks[0].Date)
  }
}

func TestReshapeTimelineWeekOffsets(t *testing.T) {
  days := []TimelineDayDraft{
    {
      WeekNumber: 2,
      DayOfWeek:  3,
      Tasks:      []TimelineTaskDraft{{Title: "Practice"}},
    },
  }
  tasks := ReshapeTimeline(days, testStart)
  if len(tasks) != 1 {
    t.Fatalf("expected 1 task, got %d", len(tasks))
  }
  want := testStart.AddDate(0, 0, 7+3)
  if !tasks[0].Date.Equal(want) {
    t.Fatalf("expected %s, got %s", want, tasks[0].Date)
  }
  if tasks[0].TaskType != "learning" || tasks[0].Priority != "medium" || tasks[0].EstimatedHours != 1 {
    t.Fatalf("expected defaults applied, got %+v", tasks[0])
  }
}

func TestReshapeTimelineSkipsUnresolvableDays(t *testing.T) {
  days := []TimelineDayDraft{
    {Tasks: []TimelineTaskDraft{{Title: "Orphan"}}},
    {Date: "2026-03-04", Tasks: []TimelineTaskDraft{{Title: "Kept"}}},
  }
  tasks := ReshapeTimeline(days, testStart)
  if len(tasks) != 1 || tasks[0].Title != "Kept" {
    t.Fatalf("expected only resolvable day kept, got %+v", tasks)
  }
}
