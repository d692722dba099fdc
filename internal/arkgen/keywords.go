package arkgen

import "strings"

// KeywordContext summarizes what kinds of external resources a milestone
// calls for, derived from its text plus the roadmap's category and goal.
type KeywordContext struct {
  Keywords         []string
  Category         string
  Goal             string
  Domain           string
  RequiresVideo    bool
  RequiresCode     bool
  RequiresResearch bool
}

var techKeywords = []string{
  "react", "javascript", "python", "java", "c++", "coding", "programming",
  "web development", "app development", "machine learning", "ai",
  "data science", "database", "api", "backend", "frontend",
}

var videoKeywords = []string{"tutorial", "video", "watch", "learn", "course", "lesson", "youtube", "explain"}
var codeKeywords = []string{"code", "github", "repository", "project", "example", "demo", "implementation"}
var researchKeywords = []string{"research", "study", "analysis", "paper", "article", "documentation", "guide"}

// ExtractKeywordContext inspects milestone text alongside the roadmap's
// category and goal to decide which search collaborators are worth querying.
func ExtractKeywordContext(input, category, goal string) KeywordContext {
  lowerInput := strings.ToLower(input)
  lowerGoal := strings.ToLower(goal)

  ctx := KeywordContext{
    Category: strings.ToLower(category),
    Goal:     lowerGoal,
  }

  for _, kw := range techKeywords {
    if strings.Contains(lowerInput, kw) || strings.Contains(lowerGoal, kw) {
      ctx.Keywords = append(ctx.Keywords, kw)
    }
  }

  ctx.RequiresVideo = containsAny(lowerInput, lowerGoal, videoKeywords)
  ctx.RequiresCode = containsAny(lowerInput, lowerGoal, codeKeywords)
  ctx.RequiresResearch = containsAny(lowerInput, lowerGoal, researchKeywords)
  ctx.Domain = detectDomain(ctx.Keywords)
  return ctx
}

// SearchQuery builds the query string passed to content-search collaborators.
func (c KeywordContext) SearchQuery(milestoneTitle string) string {
  parts := []string{milestoneTitle}
  if len(c.Keywords) > 0 {
    parts = append(parts, strings.Join(c.Keywords, " "))
  } else if c.Category != "" {
    parts = append(parts, c.Category)
  }
  return strings.TrimSpace(strings.Join(parts, " "))
}

func containsAny(input, goal string, keywords []string) bool {
  for _, kw := range keywords {
    if strings.Contains(input, kw) || strings.Contains(goal, kw) {
      return true
    }
  }
  return false
}

func detectDomain(keywords []string) string {
  has := func(targets ...string) bool {
    for _, k := range keywords {
      for _, t := range targets {
        if k == t {
          return true
        }
      }
    }
    return false
  }
  switch {
  case has("react", "javascript", "web development"):
    return "web-development"
  case has("python", "machine learning", "ai", "data science"):
    return "data-science"
  case has("java", "c++", "programming"):
    return "software-engineering"
  }
  return ""
}
