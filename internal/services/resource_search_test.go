package services

import (
  "encoding/json"
  "fmt"
  "strings"
  "testing"

  "github.com/mentark/mentark-backend/internal/arkgen"
)

func TestWantsCommunityPosts(t *testing.T) {
  cases := []struct {
    name     string
    keywords []string
    want     bool
  }{
    {"programming keyword", []string{"react", "programming"}, true},
    {"coding keyword", []string{"coding"}, true},
    {"unrelated keywords", []string{"algebra", "geometry"}, false},
    {"no keywords", nil, false},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      if got := wantsCommunityPosts(tc.keywords); got != tc.want {
        t.Fatalf("want=%v got=%v", tc.want, got)
      }
    })
  }
}

func TestRedditCandidates(t *testing.T) {
  longSelftext := strings.Repeat("x", 300)
  raw := fmt.Sprintf(`{"data":{"children":[
    {"data":{"title":"How I learned Go in 3 months","permalink":"/r/golang/comments/abc","subreddit":"golang","score":2500,"selftext":%q}},
    {"data":{"title":"no permalink, dropped"}},
    {"data":{"title":"Modest thread","permalink":"/r/learnprogramming/comments/def","subreddit":"learnprogramming","score":400}}
  ]}}`, longSelftext)

  var resp redditSearchResponse
  if err := json.Unmarshal([]byte(raw), &resp); err != nil {
    t.Fatalf("unmarshal fixture: %v", err)
  }

  out := redditCandidates(resp)
  if len(out) != 2 {
    t.Fatalf("candidates: want=2 got=%d", len(out))
  }
  if out[0].QualityScore != 1.0 {
    t.Fatalf("quality clamp: want=1.0 got=%v", out[0].QualityScore)
  }
  if len(out[0].Description) != 200 {
    t.Fatalf("description truncation: want=200 got=%d", len(out[0].Description))
  }
  if out[0].URL != "https://reddit.com/r/golang/comments/abc" {
    t.Fatalf("url: got=%q", out[0].URL)
  }
  if out[0].Provider != "r/golang" {
    t.Fatalf("provider: got=%q", out[0].Provider)
  }
  if out[1].QualityScore != 0.4 {
    t.Fatalf("quality: want=0.4 got=%v", out[1].QualityScore)
  }
  for _, c := range out {
    if c.Origin != arkgen.OriginAPIGathered {
      t.Fatalf("origin: want=%q got=%q", arkgen.OriginAPIGathered, c.Origin)
    }
  }
}
