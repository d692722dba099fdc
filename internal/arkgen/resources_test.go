package arkgen

import (
  "fmt"
  "testing"
)

func TestMergeResourcesDedupesAndRanks(t *testing.T) {
  ai := []ResourceCandidate{
    {Title: "Official Tour", URL: "https://go.dev/tour", QualityScore: 0.8},
    {Title: "Effective Go", URL: "https://go.dev/doc/effective_go", QualityScore: 0.8},
  }
  api := []ResourceCandidate{
    {Title: "Tour (search hit)", URL: "https://go.dev/tour", QualityScore: 0.95},
    {Title: "Go by Example", URL: "https://gobyexample.com", QualityScore: 0.9},
  }

  merged := MergeResources(ai, api)

  seen := map[string]bool{}
  for _, r := range merged {
    if seen[r.URL] {
      t.Fatalf("duplicate URL in output: %s", r.URL)
    }
    seen[r.URL] = true
  }
  for i := 1; i < len(merged); i++ {
    if merged[i].QualityScore > merged[i-1].QualityScore {
      t.Fatalf("output not sorted by quality at index %d", i)
    }
  }
  for _, r := range merged {
    if r.URL == "https://go.dev/tour" {
      if r.Origin != OriginAIGenerated || r.Title != "Official Tour" {
        t.Fatalf("expected ai entry to win URL tie, got %+v", r)
      }
    }
  }
}

func TestMergeResourcesCap(t *testing.T) {
  var api []ResourceCandidate
  for i := 0; i < 20; i++ {
    api = append(api, ResourceCandidate{
      Title:        fmt.Sprintf("Result %d", i),
      URL:          fmt.Sprintf("https://example.com/%d", i),
      QualityScore: 0.5,
    })
  }
  merged := MergeResources(nil, api)
  if len(merged) != ResourceCap {
    t.Fatalf("expected cap of %d, got %d", ResourceCap, len(merged))
  }
}

func TestMergeResourcesFallsBackToAIList(t *testing.T) {
  ai := []ResourceCandidate{
    {Title: "Official Tour", URL: "https://go.dev/tour", QualityScore: 0.8},
  }
  merged := MergeResources(ai, nil)
  if len(merged) != 1 || merged[0].URL != "https://go.dev/tour" {
    t.Fatalf("expected ai list passthrough, got %+v", merged)
  }
}

func TestMergeResourcesTagsOrigins(t *testing.T) {
  ai := []ResourceCandidate{{URL: "https://a.example"}}
  api := []ResourceCandidate{{URL: "https://b.example"}}
  merged := MergeResources(ai, api)
  for _, r := range merged {
    switch r.URL {
    case "https://a.example":
      if r.Origin != OriginAIGenerated {
        t.Fatalf("expected ai origin, got %q", r.Origin)
      }
    case "https://b.example":
      if r.Origin != OriginAPIGathered {
        t.Fatalf("expected api origin, got %q", r.Origin)
      }
    }
  }
}
