package arkgen

import (
  "fmt"
  "sort"
  "time"
)

// ReshapeTimeline converts an AI-provided daily timeline into dated task
// drafts. Each day's date comes from its explicit date field when present,
// otherwise from the start date plus its week number and day-of-week offset.
// Days whose date cannot be resolved are skipped.
func ReshapeTimeline(days []TimelineDayDraft, startDate time.Time) []TimelineTaskDraft {
  var tasks []TimelineTaskDraft
  for _, day := range days {
    date, ok := resolveDayDate(day, startDate)
    if !ok {
      continue
    }
    for _, t := range day.Tasks {
      t.Date = date
      if t.TaskType == "" {
        t.TaskType = "learning"
      }
      if t.Priority == "" {
        t.Priority = "medium"
      }
      if t.EstimatedHours <= 0 {
        t.EstimatedHours = 1
      }
      tasks = append(tasks, t)
    }
  }
  sortByDate(tasks)
  return tasks
}

func resolveDayDate(day TimelineDayDraft, startDate time.Time) (time.Time, bool) {
  if day.Date != "" {
    if d, err := time.Parse("2006-01-02", day.Date); err == nil {
      return d, true
    }
    if d, err := time.Parse(time.RFC3339, day.Date); err == nil {
      return d.Truncate(24 * time.Hour), true
    }
  }
  if day.WeekNumber > 0 {
    return startDate.AddDate(0, 0, (day.WeekNumber-1)*7+day.DayOfWeek), true
  }
  return time.Time{}, false
}

// SynthesizeTimeline derives a task schedule from the milestone list when the
// AI provided no timeline. Each milestone's week span follows a fixed weekly
// pattern: an opening learning week, practice and review in the middle weeks,
// then a checkpoint and celebration in the final week, with a rest day every
// second week. Every milestone receives at least one task, and when the
// combined spans run past the total duration the schedule is compressed
// proportionally so no task lands outside the window.
func SynthesizeTimeline(milestones []MilestoneDraft, startDate time.Time, totalWeeks int) []TimelineTaskDraft {
  if totalWeeks <= 0 {
    totalWeeks = DefaultTotalWeeks
  }
  if len(milestones) == 0 {
    return nil
  }

  weeksPerMilestone := totalWeeks / len(milestones)
  if weeksPerMilestone < 1 {
    weeksPerMilestone = 1
  }

  type rawTask struct {
    dayOffset int
    task      TimelineTaskDraft
  }
  var raw []rawTask

  cumWeek := 0
  for _, m := range milestones {
    span := m.EstimatedWeeks
    if span <= 0 {
      span = weeksPerMilestone
    }

    for week := 0; week < span; week++ {
      weekStart := (cumWeek + week) * 7
      add := func(offset int, title, desc, taskType string, hours float64, priority string, linked bool) {
        raw = append(raw, rawTask{
          dayOffset: weekStart + offset,
          task: TimelineTaskDraft{
            Title:          title,
            Description:    desc,
            TaskType:       taskType,
            EstimatedHours: hours,
            Priority:       priority,
            MilestoneOrder: m.Order,
            HasMilestone:   linked,
          },
        })
      }

      switch {
      case week == 0:
        desc := m.Description
        if desc == "" {
          desc = fmt.Sprintf("Begin working on %s", m.Title)
        }
        add(1, fmt.Sprintf("Start: %s", m.Title), desc, "learning", 1, "high", true)
        add(3, fmt.Sprintf("Study: %s", m.Title), fmt.Sprintf("Continue learning about %s", m.Title), "learning", 1.5, "medium", true)
        add(5, fmt.Sprintf("Practice: %s", m.Title), fmt.Sprintf("Apply what you've learned about %s", m.Title), "practice", 2, "medium", true)
      case week < span-1:
        add(1, fmt.Sprintf("Practice: %s", m.Title), fmt.Sprintf("Continue working on %s", m.Title), "practice", 1.5, "medium", true)
        add(4, fmt.Sprintf("Review: %s", m.Title), fmt.Sprintf("Review your progress on %s", m.Title), "review", 1, "low", true)
      default:
        checkpoint := fmt.Sprintf("Complete checkpoint for %s", m.Title)
        if len(m.CheckpointQuestions) > 0 {
          checkpoint = m.CheckpointQuestions[0]
        }
        celebration := m.CelebrationMessage
        if celebration == "" {
          celebration = fmt.Sprintf("You've completed %s!", m.Title)
        }
        add(2, fmt.Sprintf("Checkpoint: %s", m.Title), checkpoint, "checkpoint", 2, "high", true)
        add(5, fmt.Sprintf("Celebrate: %s Complete!", m.Title), celebration, "celebration", 0.5, "low", true)
      }

      if week%2 == 1 {
        add(6, "Rest Day", "Take a break and recharge", "rest", 0, "low", false)
      }
    }
    cumWeek += span
  }

  totalDays := totalWeeks * 7
  virtualDays := cumWeek * 7
  scale := 1.0
  if virtualDays > totalDays {
    scale = float64(totalDays) / float64(virtualDays)
  }

  tasks := make([]TimelineTaskDraft, 0, len(raw))
  for _, r := range raw {
    day := int(float64(r.dayOffset) * scale)
    if day >= totalDays {
      day = totalDays - 1
    }
    t := r.task
    t.Date = startDate.AddDate(0, 0, day)
    tasks = append(tasks, t)
  }
  sortByDate(tasks)
  return tasks
}

func sortByDate(tasks []TimelineTaskDraft) {
  sort.SliceStable(tasks, func(i, j int) bool {
    return tasks[i].Date.Before(tasks[j].Date)
  })
}
