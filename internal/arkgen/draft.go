package arkgen

import (
  "regexp"
  "strconv"
  "strings"
  "time"
)

// RoadmapDraft is the in-memory result of normalizing and validating a raw
// AI roadmap response. Nothing here has been persisted yet.
type RoadmapDraft struct {
  Title                    string
  Description              string
  Milestones               []MilestoneDraft
  DailyTimeline            []TimelineDayDraft
  EstimatedCompletionWeeks int
  MilestoneShortfall       bool
}

type MilestoneDraft struct {
  Title               string
  Description         string
  Order               int
  EstimatedWeeks      int
  Difficulty          string
  SkillsGained        []string
  CheckpointQuestions []string
  CelebrationMessage  string
  Resources           []ResourceCandidate
}

type ResourceCandidate struct {
  Type            string
  Title           string
  URL             string
  Provider        string
  Description     string
  DurationMinutes int
  IsFree          bool
  Optional        bool
  QualityScore    float64
  Origin          string
}

// TimelineDayDraft carries one day of an AI-provided timeline before it is
// reshaped into dated tasks.
type TimelineDayDraft struct {
  Date         string
  WeekNumber   int
  DayOfWeek    int
  Tasks        []TimelineTaskDraft
}

type TimelineTaskDraft struct {
  Date           time.Time
  Title          string
  Description    string
  TaskType       string
  EstimatedHours float64
  Priority       string
  MilestoneOrder int
  HasMilestone   bool
}

const (
  OriginAIGenerated = "ai-generated"
  OriginAPIGathered = "api-gathered"

  DefaultResourceType  = "article"
  DefaultDifficulty    = "medium"
  DefaultQualityScore  = 0.8
  DefaultTotalWeeks    = 12
  ResourceCap          = 8

  BucketShort = "short"
  BucketMid   = "mid"
  BucketLong  = "long"
)

var resourceTypes = map[string]bool{
  "video":   true,
  "article": true,
  "course":  true,
  "book":    true,
  "podcast": true,
  "tool":    true,
}

var difficulties = map[string]bool{
  "easy":   true,
  "medium": true,
  "hard":   true,
}

// RecommendedMilestoneCount maps a duration in weeks to the milestone count a
// well-formed roadmap of that length is expected to have.
func RecommendedMilestoneCount(durationWeeks int) int {
  switch {
  case durationWeeks <= 4:
    return 3
  case durationWeeks <= 12:
    return 4
  case durationWeeks <= 24:
    return 5
  case durationWeeks <= 36:
    return 6
  default:
    return 8
  }
}

var weeksPattern = regexp.MustCompile(`(\d+)\s*(week|wk|w)`)
var monthsPattern = regexp.MustCompile(`(\d+)\s*(month|mo|m)`)

// ParseDurationWeeks extracts a week count from a free-form duration hint
// such as "12 weeks" or "3 months". Returns 0 when nothing parses.
func ParseDurationWeeks(hint string) int {
  lower := strings.ToLower(strings.TrimSpace(hint))
  if lower == "" {
    return 0
  }
  if m := weeksPattern.FindStringSubmatch(lower); m != nil {
    if n, err := strconv.Atoi(m[1]); err == nil {
      return n
    }
  }
  if m := monthsPattern.FindStringSubmatch(lower); m != nil {
    if n, err := strconv.Atoi(m[1]); err == nil {
      return n * 4
    }
  }
  if n, err := strconv.Atoi(lower); err == nil {
    return n
  }
  return 0
}

// DurationBucket classifies a duration hint into short, mid, or long. Keyword
// fallbacks cover hints with no parseable number; mid is the default.
func DurationBucket(hint string) string {
  weeks := ParseDurationWeeks(hint)
  if weeks > 0 {
    switch {
    case weeks <= 8:
      return BucketShort
    case weeks <= 24:
      return BucketMid
    default:
      return BucketLong
    }
  }
  lower := strings.ToLower(hint)
  switch {
  case strings.Contains(lower, "quick") || strings.Contains(lower, "short") || strings.Contains(lower, "sprint"):
    return BucketShort
  case strings.Contains(lower, "year") || strings.Contains(lower, "long"):
    return BucketLong
  default:
    return BucketMid
  }
}
