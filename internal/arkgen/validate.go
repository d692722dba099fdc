package arkgen

import (
  "encoding/json"
  "errors"
  "strings"
)

var (
  ErrMissingTitle      = errors.New("roadmap payload has no title")
  ErrMissingMilestones = errors.New("roadmap payload has no milestones field")
  ErrEmptyMilestones   = errors.New("roadmap payload has an empty milestone list")
)

// BuildDraft validates a normalized payload and shapes it into a RoadmapDraft.
// expectedCount is the milestone count the duration heuristic calls for; a
// shortfall is flagged on the draft but never fails validation, since an
// under-generated roadmap is still usable.
func BuildDraft(payload map[string]interface{}, expectedCount int) (*RoadmapDraft, error) {
  title := strings.TrimSpace(strFromAny(payload["title"]))
  if title == "" {
    return nil, ErrMissingTitle
  }

  rawMilestones, ok := payload["milestones"]
  if !ok {
    return nil, ErrMissingMilestones
  }
  list, ok := rawMilestones.([]interface{})
  if !ok {
    return nil, ErrMissingMilestones
  }
  if len(list) == 0 {
    return nil, ErrEmptyMilestones
  }

  draft := &RoadmapDraft{
    Title:                    title,
    Description:              strFromAny(payload["description"]),
    EstimatedCompletionWeeks: intFromAny(payload["estimatedCompletionWeeks"]),
  }

  for i, item := range list {
    m, ok := item.(map[string]interface{})
    if !ok {
      continue
    }
    draft.Milestones = append(draft.Milestones, buildMilestone(m, i))
  }
  if len(draft.Milestones) == 0 {
    return nil, ErrEmptyMilestones
  }

  if timeline, ok := payload["dailyTimeline"].([]interface{}); ok {
    draft.DailyTimeline = buildTimelineDays(timeline)
  }

  if expectedCount > 0 && len(draft.Milestones) < expectedCount {
    draft.MilestoneShortfall = true
  }
  return draft, nil
}

func buildMilestone(m map[string]interface{}, index int) MilestoneDraft {
  difficulty := strings.ToLower(strFromAny(m["difficulty"]))
  if !difficulties[difficulty] {
    difficulty = DefaultDifficulty
  }

  ms := MilestoneDraft{
    Title:               strFromAny(m["title"]),
    Description:         strFromAny(m["description"]),
    Order:               index,
    EstimatedWeeks:      intFromAny(m["estimatedWeeks"]),
    Difficulty:          difficulty,
    SkillsGained:        stringSliceFromAny(m["skillsGained"]),
    CheckpointQuestions: stringSliceFromAny(m["checkpointQuestions"]),
    CelebrationMessage:  strFromAny(m["celebrationMessage"]),
  }

  if resources, ok := m["resources"].([]interface{}); ok {
    for _, item := range resources {
      r, ok := item.(map[string]interface{})
      if !ok {
        continue
      }
      ms.Resources = append(ms.Resources, buildResource(r))
    }
  }
  return ms
}

func buildResource(r map[string]interface{}) ResourceCandidate {
  resType := strings.ToLower(strFromAny(r["type"]))
  if !resourceTypes[resType] {
    resType = DefaultResourceType
  }

  isFree := true
  if v, ok := r["isFree"].(bool); ok {
    isFree = v
  } else if v, ok := r["is_free"].(bool); ok {
    isFree = v
  }

  optional := false
  if v, ok := r["optional"].(bool); ok {
    optional = v
  } else if v, ok := r["isRequired"].(bool); ok {
    optional = !v
  }

  quality := floatFromAny(r["qualityScore"])
  if quality == 0 {
    quality = floatFromAny(r["quality_score"])
  }
  if quality <= 0 || quality > 1 {
    quality = DefaultQualityScore
  }

  duration := intFromAny(r["durationMinutes"])
  if duration == 0 {
    duration = intFromAny(r["duration_minutes"])
  }

  return ResourceCandidate{
    Type:            resType,
    Title:           strFromAny(r["title"]),
    URL:             strFromAny(r["url"]),
    Provider:        strFromAny(r["provider"]),
    Description:     strFromAny(r["description"]),
    DurationMinutes: duration,
    IsFree:          isFree,
    Optional:        optional,
    QualityScore:    quality,
    Origin:          OriginAIGenerated,
  }
}

func buildTimelineDays(raw []interface{}) []TimelineDayDraft {
  var days []TimelineDayDraft
  for _, item := range raw {
    d, ok := item.(map[string]interface{})
    if !ok {
      continue
    }
    day := TimelineDayDraft{
      Date:       strFromAny(d["date"]),
      WeekNumber: intFromAny(d["weekNumber"]),
      DayOfWeek:  intFromAny(d["dayOfWeek"]),
    }
    if tasks, ok := d["tasks"].([]interface{}); ok {
      for _, t := range tasks {
        tm, ok := t.(map[string]interface{})
        if !ok {
          continue
        }
        task := TimelineTaskDraft{
          Title:          strFromAny(tm["title"]),
          Description:    strFromAny(tm["description"]),
          TaskType:       strFromAny(tm["taskType"]),
          EstimatedHours: floatFromAny(tm["estimatedHours"]),
          Priority:       strFromAny(tm["priority"]),
        }
        if order, ok := tm["milestoneOrder"]; ok {
          task.MilestoneOrder = intFromAny(order)
          task.HasMilestone = true
        }
        day.Tasks = append(day.Tasks, task)
      }
    }
    days = append(days, day)
  }
  return days
}

func strFromAny(v interface{}) string {
  s, _ := v.(string)
  return s
}

func intFromAny(v interface{}) int {
  switch n := v.(type) {
  case json.Number:
    f, err := n.Float64()
    if err != nil {
      return 0
    }
    return int(f)
  case float64:
    return int(n)
  case int:
    return n
  }
  return 0
}

func floatFromAny(v interface{}) float64 {
  switch n := v.(type) {
  case json.Number:
    f, err := n.Float64()
    if err != nil {
      return 0
    }
    return f
  case float64:
    return n
  case int:
    return float64(n)
  }
  return 0
}

func stringSliceFromAny(v interface{}) []string {
  raw, ok := v.([]interface{})
  if !ok {
    return nil
  }
  var out []string
  for _, item := range raw {
    if s, ok := item.(string); ok && s != "" {
      out = append(out, s)
    }
  }
  return out
}
