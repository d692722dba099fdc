package arkgen

import (
  "errors"
  "testing"
)

func TestNormalizeValidJSON(t *testing.T) {
  payload, tier, err := Normalize(`{"title": "Learn Go", "milestones": []}`)
  if err != nil {
    t.Fatalf("expected success, got %v", err)
  }
  if tier != TierStrict {
    t.Fatalf("expected strict tier, got %q", tier)
  }
  if payload["title"] != "Learn Go" {
    t.Fatalf("expected title preserved, got %v", payload["title"])
  }
}

func TestNormalizeFencedBlock(t *testing.T) {
  raw := "Here is your roadmap:\n```json\n{\"title\": \"Learn Go\"}\n```\nGood luck!"
  payload, tier, err := Normalize(raw)
  if err != nil {
    t.Fatalf("expected success, got %v", err)
  }
  if tier != TierFenced {
    t.Fatalf("expected fenced tier, got %q", tier)
  }
  if payload["title"] != "Learn Go" {
    t.Fatalf("fenced extraction lost title: %v", payload)
  }
}

func TestNormalizeFencedMatchesUnwrapped(t *testing.T) {
  inner := `{"title": "Ace Algebra", "milestones": [{"title": "Linear Equations"}]}`
  direct, _, err := Normalize(inner)
  if err != nil {
    t.Fatalf("direct parse failed: %v", err)
  }
  wrapped, _, err := Normalize("```json\n" + inner + "\n```")
  if err != nil {
    t.Fatalf("fenced parse failed: %v", err)
  }
  if direct["title"] != wrapped["title"] {
    t.Fatalf("fenced result diverged: %v vs %v", direct, wrapped)
  }
}

func TestNormalizeRepairsTrailingComma(t *testing.T) {
  payload, tier, err := Normalize(`{"title": "Learn Go", "milestones": [{"title": "Basics"},],}`)
  if err != nil {
    t.Fatalf("expected repair to succeed, got %v", err)
  }
  if tier != TierRepaired {
    t.Fatalf("expected repaired tier, got %q", tier)
  }
  if payload["title"] != "Learn Go" {
    t.Fatalf("repair lost title: %v", payload)
  }
}

func TestNormalizeTruncatedPayload(t *testing.T) {
  raw := `{"title": "Learn Go", "milestones": [{"title": "Basics"`
  payload, _, err := Normalize(raw)
  if err != nil {
    t.Fatalf("expected truncation recovery, got %v", err)
  }
  if payload["title"] != "Learn Go" {
    t.Fatalf("recovery lost title: %v", payload)
  }
}

func TestNormalizeRefusal(t *testing.T) {
  cases := []string{
    "I'm sorry, I cannot assist with that request.",
    "I'm not able to create that roadmap for you.",
    "I cannot help with this topic.",
    "I can't assist with that.",
  }
  for _, raw := range cases {
    t.Run(raw, func(t *testing.T) {
      _, _, err := Normalize(raw)
      if !errors.Is(err, ErrRefusalDetected) {
        t.Fatalf("expected refusal, got %v", err)
      }
    })
  }
}

func TestNormalizeGarbage(t *testing.T) {
  _, _, err := Normalize("here is some plain prose with no structure at all")
  if !errors.Is(err, ErrMalformedPayload) {
    t.Fatalf("expected malformed payload, got %v", err)
  }
}

func TestRepairJSONIdempotent(t *testing.T) {
  cases := []string{
    `{"title": "Learn Go"}`,
    `{"title": "Learn Go", "milestones": [{"title": "Basics"},]}`,
    `{"title": "Learn`,
  }
  for _, raw := range cases {
    once := RepairJSON(raw)
    twice := RepairJSON(once)
    if once != twice {
      t.Fatalf("repair not idempotent for %q: %q vs %q", raw, once, twice)
    }
  }
}

func TestRepairJSONControlChars(t *testing.T) {
  raw := "{\"title\": \"Learn\nGo\"}"
  payload, _, err := Normalize(raw)
  if err != nil {
    t.Fatalf("expected control char repair, got %v", err)
  }
  if payload["title"] != "Learn\nGo" {
    t.Fatalf("expected newline preserved in value, got %q", payload["title"])
  }
}
