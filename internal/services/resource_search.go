package services

import (
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "net/url"
  "os"
  "strings"
  "time"

  "github.com/mentark/mentark-backend/internal/arkgen"
  "github.com/mentark/mentark-backend/internal/clients/redis"
  "github.com/mentark/mentark-backend/internal/logger"
)

// ResourceSearchService queries external content sources for learning
// resources matching a milestone. Every candidate it returns is tagged
// api-gathered. It is an enrichment collaborator: callers fall back to the
// AI-suggested list when a search fails or times out.
type ResourceSearchService interface {
  Search(ctx context.Context, query string, kc arkgen.KeywordContext) ([]arkgen.ResourceCandidate, error)
}

type resourceSearchService struct {
  log        *logger.Logger
  httpClient *http.Client
  cache      redis.Cache

  youtubeKey   string
  githubToken  string
  redditID     string
  redditSecret string
  redditAgent  string
}

const searchCacheTTL = 24 * time.Hour

// NewResourceSearchService builds the search collaborator. The cache may be
// nil; searches then always hit the upstream APIs.
func NewResourceSearchService(baseLog *logger.Logger, cache redis.Cache) ResourceSearchService {
  agent := strings.TrimSpace(os.Getenv("REDDIT_USER_AGENT"))
  if agent == "" {
    agent = "mentark-backend/1.0"
  }
  return &resourceSearchService{
    log:          baseLog.With("service", "ResourceSearchService"),
    httpClient:   &http.Client{Timeout: 10 * time.Second},
    cache:        cache,
    youtubeKey:   strings.TrimSpace(os.Getenv("YOUTUBE_API_KEY")),
    githubToken:  strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
    redditID:     strings.TrimSpace(os.Getenv("REDDIT_CLIENT_ID")),
    redditSecret: strings.TrimSpace(os.Getenv("REDDIT_CLIENT_SECRET")),
    redditAgent:  agent,
  }
}

func (s *resourceSearchService) Search(ctx context.Context, query string, kc arkgen.KeywordContext) ([]arkgen.ResourceCandidate, error) {
  query = strings.TrimSpace(query)
  if query == "" {
    return nil, nil
  }

  cacheKey := "resource_search:" + query
  if s.cache != nil {
    var cached []arkgen.ResourceCandidate
    hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
    if err != nil {
      s.log.Warn("Search cache read failed", "error", err)
    } else if hit {
      return cached, nil
    }
  }

  var results []arkgen.ResourceCandidate
  var firstErr error

  if s.youtubeKey != "" && (kc.RequiresVideo || kc.Domain == "") {
    videos, err := s.searchYouTube(ctx, query)
    if err != nil {
      s.log.Warn("YouTube search failed", "query", query, "error", err)
      firstErr = err
    } else {
      results = append(results, videos...)
    }
  }

  if kc.RequiresCode {
    repositories, err := s.searchGitHub(ctx, query)
    if err != nil {
      s.log.Warn("GitHub search failed", "query", query, "error", err)
      if firstErr == nil {
        firstErr = err
      }
    } else {
      results = append(results, repositories...)
    }
  }

  if s.redditID != "" && s.redditSecret != "" && wantsCommunityPosts(kc.Keywords) {
    posts, err := s.searchReddit(ctx, query)
    if err != nil {
      s.log.Warn("Reddit search failed", "query", query, "error", err)
      if firstErr == nil {
        firstErr = err
      }
    } else {
      results = append(results, posts...)
    }
  }

  if len(results) == 0 && firstErr != nil {
    return nil, firstErr
  }

  if s.cache != nil && len(results) > 0 {
    if err := s.cache.SetJSON(ctx, cacheKey, results, searchCacheTTL); err != nil {
      s.log.Warn("Search cache write failed", "error", err)
    }
  }
  return results, nil
}

type youtubeSearchResponse struct {
  Items []struct {
    ID struct {
      VideoID string `json:"videoId"`
    } `json:"id"`
    Snippet struct {
      Title        string `json:"title"`
      Description  string `json:"description"`
      ChannelTitle string `json:"channelTitle"`
      Thumbnails   struct {
        Medium struct {
          URL string `json:"url"`
        } `json:"medium"`
      } `json:"thumbnails"`
    } `json:"snippet"`
  } `json:"items"`
}

func (s *resourceSearchService) searchYouTube(ctx context.Context, query string) ([]arkgen.ResourceCandidate, error) {
  params := url.Values{}
  params.Set("part", "snippet")
  params.Set("q", query+" tutorial")
  params.Set("type", "video")
  params.Set("maxResults", "5")
  params.Set("key", s.youtubeKey)

  var resp youtubeSearchResponse
  if err := s.getJSON(ctx, "https://www.googleapis.com/youtube/v3/search?"+params.Encode(), nil, &resp); err != nil {
    return nil, err
  }

  var out []arkgen.ResourceCandidate
  for _, item := range resp.Items {
    if item.ID.VideoID == "" {
      continue
    }
    out = append(out, arkgen.ResourceCandidate{
      Type:         "video",
      Title:        item.Snippet.Title,
      URL:          "https://www.youtube.com/watch?v=" + item.ID.VideoID,
      Provider:     item.Snippet.ChannelTitle,
      Description:  item.Snippet.Description,
      IsFree:       true,
      QualityScore: 0.7,
      Origin:       arkgen.OriginAPIGathered,
    })
  }
  return out, nil
}

type githubSearchResponse struct {
  Items []struct {
    FullName    string  `json:"full_name"`
    HTMLURL     string  `json:"html_url"`
    Description string  `json:"description"`
    Stars       float64 `json:"stargazers_count"`
  } `json:"items"`
}

func (s *resourceSearchService) searchGitHub(ctx context.Context, query string) ([]arkgen.ResourceCandidate, error) {
  params := url.Values{}
  params.Set("q", query)
  params.Set("sort", "stars")
  params.Set("per_page", "5")

  headers := map[string]string{"Accept": "application/vnd.github+json"}
  if s.githubToken != "" {
    headers["Authorization"] = "Bearer " + s.githubToken
  }

  var resp githubSearchResponse
  if err := s.getJSON(ctx, "https://api.github.com/search/repositories?"+params.Encode(), headers, &resp); err != nil {
    return nil, err
  }

  var out []arkgen.ResourceCandidate
  for _, item := range resp.Items {
    if item.HTMLURL == "" {
      continue
    }
    quality := 0.6
    if item.Stars > 1000 {
      quality = 0.85
    } else if item.Stars > 100 {
      quality = 0.75
    }
    out = append(out, arkgen.ResourceCandidate{
      Type:         "tool",
      Title:        item.FullName,
      URL:          item.HTMLURL,
      Provider:     "GitHub",
      Description:  item.Description,
      IsFree:       true,
      QualityScore: quality,
      Origin:       arkgen.OriginAPIGathered,
    })
  }
  return out, nil
}

// wantsCommunityPosts gates the Reddit source: discussion threads only help
// for broad learning topics, not for every milestone.
func wantsCommunityPosts(keywords []string) bool {
  for _, k := range keywords {
    switch k {
    case "programming", "coding", "learning":
      return true
    }
  }
  return false
}

type redditTokenResponse struct {
  AccessToken string `json:"access_token"`
}

type redditSearchResponse struct {
  Data struct {
    Children []struct {
      Data struct {
        Title     string  `json:"title"`
        Permalink string  `json:"permalink"`
        Selftext  string  `json:"selftext"`
        Subreddit string  `json:"subreddit"`
        Score     float64 `json:"score"`
      } `json:"data"`
    } `json:"children"`
  } `json:"data"`
}

func (s *resourceSearchService) searchReddit(ctx context.Context, query string) ([]arkgen.ResourceCandidate, error) {
  form := url.Values{}
  form.Set("grant_type", "client_credentials")
  req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://www.reddit.com/api/v1/access_token", strings.NewReader(form.Encode()))
  if err != nil {
    return nil, err
  }
  req.SetBasicAuth(s.redditID, s.redditSecret)
  req.Header.Set("User-Agent", s.redditAgent)
  req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

  resp, err := s.httpClient.Do(req)
  if err != nil {
    return nil, err
  }
  defer resp.Body.Close()
  if resp.StatusCode < 200 || resp.StatusCode >= 300 {
    raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
    return nil, fmt.Errorf("reddit auth http %d: %s", resp.StatusCode, string(raw))
  }
  var token redditTokenResponse
  if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
    return nil, err
  }
  if token.AccessToken == "" {
    return nil, fmt.Errorf("reddit auth returned no token")
  }

  params := url.Values{}
  params.Set("q", query)
  params.Set("sort", "relevance")
  params.Set("limit", "3")
  params.Set("type", "link")
  headers := map[string]string{
    "Authorization": "Bearer " + token.AccessToken,
    "User-Agent":    s.redditAgent,
  }

  var searchResp redditSearchResponse
  if err := s.getJSON(ctx, "https://oauth.reddit.com/search.json?"+params.Encode(), headers, &searchResp); err != nil {
    return nil, err
  }
  return redditCandidates(searchResp), nil
}

// redditCandidates maps search hits to candidates, rating quality by upvotes
// (1000 upvotes saturates the score).
func redditCandidates(resp redditSearchResponse) []arkgen.ResourceCandidate {
  var out []arkgen.ResourceCandidate
  for _, child := range resp.Data.Children {
    post := child.Data
    if post.Permalink == "" {
      continue
    }
    quality := post.Score / 1000
    if quality > 1 {
      quality = 1
    }
    desc := post.Selftext
    if len(desc) > 200 {
      desc = desc[:200]
    }
    out = append(out, arkgen.ResourceCandidate{
      Type:         "article",
      Title:        post.Title,
      URL:          "https://reddit.com" + post.Permalink,
      Provider:     "r/" + post.Subreddit,
      Description:  desc,
      IsFree:       true,
      QualityScore: quality,
      Origin:       arkgen.OriginAPIGathered,
    })
  }
  return out
}

func (s *resourceSearchService) getJSON(ctx context.Context, endpoint string, headers map[string]string, out any) error {
  req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
  if err != nil {
    return err
  }
  for k, v := range headers {
    req.Header.Set(k, v)
  }

  resp, err := s.httpClient.Do(req)
  if err != nil {
    return err
  }
  defer resp.Body.Close()

  if resp.StatusCode < 200 || resp.StatusCode >= 300 {
    raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
    return fmt.Errorf("search http %d: %s", resp.StatusCode, string(raw))
  }
  return json.NewDecoder(resp.Body).Decode(out)
}
