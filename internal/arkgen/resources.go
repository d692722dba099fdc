package arkgen

import "sort"

// MergeResources combines a milestone's AI-suggested resources with
// independently fetched candidates. AI entries are tagged and placed first so
// they win URL ties, duplicates are dropped on exact URL match, and the
// result is sorted by quality score and capped. Enrichment is additive: an
// empty fetched list just means the AI list passes through.
func MergeResources(aiSuggested, apiGathered []ResourceCandidate) []ResourceCandidate {
  combined := make([]ResourceCandidate, 0, len(aiSuggested)+len(apiGathered))
  for _, r := range aiSuggested {
    r.Origin = OriginAIGenerated
    combined = append(combined, r)
  }
  for _, r := range apiGathered {
    r.Origin = OriginAPIGathered
    combined = append(combined, r)
  }

  seen := make(map[string]bool, len(combined))
  deduped := combined[:0]
  for _, r := range combined {
    if r.URL == "" || seen[r.URL] {
      continue
    }
    seen[r.URL] = true
    deduped = append(deduped, r)
  }

  sort.SliceStable(deduped, func(i, j int) bool {
    return deduped[i].QualityScore > deduped[j].QualityScore
  })

  if len(deduped) > ResourceCap {
    deduped = deduped[:ResourceCap]
  }
  return deduped
}
