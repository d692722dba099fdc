package arkgen

import (
  "encoding/json"
  "errors"
  "fmt"
  "regexp"
  "strings"
)

var (
  ErrRefusalDetected  = errors.New("ai response is a refusal")
  ErrMalformedPayload = errors.New("ai response payload is malformed")
)

// Recovery tiers, in the order Normalize attempts them.
const (
  TierStrict    = "strict"
  TierFenced    = "fenced"
  TierRepaired  = "repaired"
  TierExtracted = "extracted"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

var refusalPatterns = []*regexp.Regexp{
  regexp.MustCompile(`(?i)I'?m sorry,? I (can'?t|cannot)`),
  regexp.MustCompile(`(?i)I (can'?t|cannot) assist`),
  regexp.MustCompile(`(?i)I'?m not able to`),
  regexp.MustCompile(`(?i)I cannot (help|generate|create|provide)`),
}

// Normalize turns raw AI output text into a parsed payload. It walks an
// ordered chain of recovery strategies and stops at the first that yields
// valid JSON, reporting which tier succeeded so callers can log it. Heavy use
// of the later tiers usually means the upstream response is being truncated.
func Normalize(raw string) (map[string]interface{}, string, error) {
  trimmed := strings.TrimSpace(raw)
  if trimmed == "" {
    return nil, "", fmt.Errorf("%w: empty response", ErrMalformedPayload)
  }

  candidate := trimmed
  tier := TierStrict
  if m := fencedBlockPattern.FindStringSubmatch(trimmed); m != nil {
    candidate = strings.TrimSpace(m[1])
    tier = TierFenced
  } else if strings.HasPrefix(candidate, "```") {
    candidate = strings.TrimPrefix(candidate, "```json")
    candidate = strings.TrimPrefix(candidate, "```")
    candidate = strings.TrimSuffix(strings.TrimSpace(candidate), "```")
    candidate = strings.TrimSpace(candidate)
    tier = TierFenced
  }

  payload, parseErr := parseObject(candidate)
  if parseErr == nil {
    return payload, tier, nil
  }

  repaired := RepairJSON(candidate)
  if payload, err := parseObject(repaired); err == nil {
    return payload, TierRepaired, nil
  }

  if extracted := extractBalancedObject(candidate); extracted != "" {
    if payload, err := parseObject(extracted); err == nil {
      return payload, TierExtracted, nil
    }
    if payload, err := parseObject(RepairJSON(extracted)); err == nil {
      return payload, TierExtracted, nil
    }
  }

  if IsRefusal(trimmed) {
    return nil, "", fmt.Errorf("%w: %s", ErrRefusalDetected, truncate(trimmed, 200))
  }
  return nil, "", fmt.Errorf("%w: %v", ErrMalformedPayload, parseErr)
}

// IsRefusal reports whether the text matches a known refusal phrasing.
func IsRefusal(text string) bool {
  for _, p := range refusalPatterns {
    if p.MatchString(text) {
      return true
    }
  }
  return false
}

func parseObject(s string) (map[string]interface{}, error) {
  var payload map[string]interface{}
  dec := json.NewDecoder(strings.NewReader(s))
  dec.UseNumber()
  if err := dec.Decode(&payload); err != nil {
    return nil, err
  }
  return payload, nil
}

var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// RepairJSON fixes the malformations truncated AI output most often carries:
// trailing commas, raw control characters inside strings, an unterminated
// final string, and unclosed braces or brackets. It never invents fields, and
// running it on already valid JSON leaves the text unchanged.
func RepairJSON(s string) string {
  repaired := strings.TrimSpace(s)
  repaired = trailingCommaPattern.ReplaceAllString(repaired, "$1")
  repaired = escapeControlChars(repaired)

  if countUnescapedQuotes(repaired)%2 != 0 {
    repaired += `"`
  }

  return repaired + closeSequence(repaired)
}

func escapeControlChars(s string) string {
  var b strings.Builder
  b.Grow(len(s))
  inString := false
  escaped := false
  for _, r := range s {
    if escaped {
      b.WriteRune(r)
      escaped = false
      continue
    }
    if r == '\\' {
      b.WriteRune(r)
      escaped = true
      continue
    }
    if r == '"' {
      inString = !inString
      b.WriteRune(r)
      continue
    }
    if inString && r < 0x20 {
      switch r {
      case '\n':
        b.WriteString(`\n`)
      case '\r':
        b.WriteString(`\r`)
      case '\t':
        b.WriteString(`\t`)
      default:
        b.WriteString(fmt.Sprintf(`\u%04x`, r))
      }
      continue
    }
    b.WriteRune(r)
  }
  return b.String()
}

func countUnescapedQuotes(s string) int {
  count := 0
  escaped := false
  for _, r := range s {
    if escaped {
      escaped = false
      continue
    }
    if r == '\\' {
      escaped = true
      continue
    }
    if r == '"' {
      count++
    }
  }
  return count
}

// closeSequence returns the closers needed to balance the text, innermost
// first, so interleaved objects and arrays close in the right order.
func closeSequence(s string) string {
  var stack []byte
  inString := false
  escaped := false
  for i := 0; i < len(s); i++ {
    c := s[i]
    if escaped {
      escaped = false
      continue
    }
    switch c {
    case '\\':
      escaped = true
    case '"':
      inString = !inString
    case '{', '[':
      if !inString {
        stack = append(stack, c)
      }
    case '}':
      if !inString && len(stack) > 0 && stack[len(stack)-1] == '{' {
        stack = stack[:len(stack)-1]
      }
    case ']':
      if !inString && len(stack) > 0 && stack[len(stack)-1] == '[' {
        stack = stack[:len(stack)-1]
      }
    }
  }

  closers := make([]byte, 0, len(stack))
  for i := len(stack) - 1; i >= 0; i-- {
    if stack[i] == '{' {
      closers = append(closers, '}')
    } else {
      closers = append(closers, ']')
    }
  }
  return string(closers)
}

// extractBalancedObject returns the first brace-balanced object substring, or
// the text from the first opening brace onward when the object never closes.
// The latter gives RepairJSON a second chance at a truncated tail.
func extractBalancedObject(s string) string {
  start := strings.IndexByte(s, '{')
  if start < 0 {
    return ""
  }
  depth := 0
  inString := false
  escaped := false
  for i := start; i < len(s); i++ {
    c := s[i]
    if escaped {
      escaped = false
      continue
    }
    switch c {
    case '\\':
      escaped = true
    case '"':
      inString = !inString
    case '{':
      if !inString {
        depth++
      }
    case '}':
      if !inString {
        depth--
        if depth == 0 {
          return s[start : i+1]
        }
      }
    }
  }
  return s[start:]
}

func truncate(s string, max int) string {
  if len(s) <= max {
    return s
  }
  return s[:max] + "..."
}
