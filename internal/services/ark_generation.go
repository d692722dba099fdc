package services

import (
  "context"
  "errors"
  "fmt"
  "sort"
  "time"

  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"
  "gorm.io/gorm"

  "github.com/mentark/mentark-backend/internal/arkgen"
  "github.com/mentark/mentark-backend/internal/logger"
  "github.com/mentark/mentark-backend/internal/repos"
  "github.com/mentark/mentark-backend/internal/types"
)

var ErrNoProviderConfigured = errors.New("no ai provider configured")

// PersistenceError marks a fatal failure in one of the load-bearing write
// stages (roadmap or milestones).
type PersistenceError struct {
  Stage string
  Err   error
}

func (e *PersistenceError) Error() string {
  return fmt.Sprintf("persistence failed at %s: %v", e.Stage, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

type GenerateArkRequest struct {
  StudentID         uuid.UUID
  Category          string
  Goal              string
  DurationHint      string
  StudentProfile    string
  PsychologyProfile string
  TemplateID        *uuid.UUID
  StartDate         *time.Time
}

// ArkSummary is the caller-facing result of a generation run. Warnings carry
// everything that degraded without blocking the roadmap itself.
type ArkSummary struct {
  ArkID             uuid.UUID `json:"ark_id"`
  Title             string    `json:"title"`
  DurationBucket    string    `json:"duration_bucket"`
  MilestoneCount    int       `json:"milestone_count"`
  ResourceCount     int       `json:"resource_count"`
  TimelineTaskCount int       `json:"timeline_task_count"`
  ReminderCount     int       `json:"reminder_count"`
  Warnings          []string  `json:"warnings,omitempty"`
}

type ArkGenerationService interface {
  GenerateAndPersist(ctx context.Context, req GenerateArkRequest) (*ArkSummary, error)
}

type arkGenerationService struct {
  db  *gorm.DB
  log *logger.Logger

  arkRepo       repos.ArkRepo
  milestoneRepo repos.ArkMilestoneRepo
  resourceRepo  repos.ArkResourceRepo
  linkRepo      repos.MilestoneResourceRepo
  taskRepo      repos.ArkTimelineTaskRepo
  templateRepo  repos.ArkTemplateRepo
  studentRepo   repos.StudentRepo
  aiLogRepo     repos.AICallLogRepo

  ai        OpenAIClient
  search    ResourceSearchService
  reminders ReminderService
}

const (
  searchConcurrency = 4
  searchTimeout     = 15 * time.Second
  reminderCap       = 10
)

func NewArkGenerationService(
  db *gorm.DB,
  baseLog *logger.Logger,
  arkRepo repos.ArkRepo,
  milestoneRepo repos.ArkMilestoneRepo,
  resourceRepo repos.ArkResourceRepo,
  linkRepo repos.MilestoneResourceRepo,
  taskRepo repos.ArkTimelineTaskRepo,
  templateRepo repos.ArkTemplateRepo,
  studentRepo repos.StudentRepo,
  aiLogRepo repos.AICallLogRepo,
  ai OpenAIClient,
  search ResourceSearchService,
  reminders ReminderService,
) ArkGenerationService {
  return &arkGenerationService{
    db:            db,
    log:           baseLog.With("service", "ArkGenerationService"),
    arkRepo:       arkRepo,
    milestoneRepo: milestoneRepo,
    resourceRepo:  resourceRepo,
    linkRepo:      linkRepo,
    taskRepo:      taskRepo,
    templateRepo:  templateRepo,
    studentRepo:   studentRepo,
    aiLogRepo:     aiLogRepo,
    ai:            ai,
    search:        search,
    reminders:     reminders,
  }
}

func (s *arkGenerationService) GenerateAndPersist(ctx context.Context, req GenerateArkRequest) (*ArkSummary, error) {
  if s.ai == nil {
    return nil, ErrNoProviderConfigured
  }

  student, err := s.studentRepo.GetByID(ctx, nil, req.StudentID)
  if err != nil {
    return nil, fmt.Errorf("load student: %w", err)
  }

  totalWeeks := arkgen.ParseDurationWeeks(req.DurationHint)
  if totalWeeks <= 0 {
    totalWeeks = arkgen.DefaultTotalWeeks
  }
  expectedMilestones := arkgen.RecommendedMilestoneCount(totalWeeks)

  var warnings []string
  system, user := s.buildPrompt(ctx, req, expectedMilestones, totalWeeks, &warnings)

  raw, err := s.ai.GenerateText(ctx, system, user)
  s.auditAICall(ctx, req.StudentID, user, raw, err)
  if err != nil {
    return nil, fmt.Errorf("ai generation: %w", err)
  }

  payload, tier, err := arkgen.Normalize(raw)
  if err != nil {
    return nil, err
  }
  if tier != arkgen.TierStrict {
    s.log.Info("Roadmap payload recovered", "tier", tier, "student_id", req.StudentID)
  }

  draft, err := arkgen.BuildDraft(payload, expectedMilestones)
  if err != nil {
    return nil, err
  }
  if draft.EstimatedCompletionWeeks > 0 {
    totalWeeks = draft.EstimatedCompletionWeeks
  }

  if draft.MilestoneShortfall {
    warnings = append(warnings, fmt.Sprintf("milestones: generated %d of %d expected", len(draft.Milestones), expectedMilestones))
  }

  startDate := time.Now().Truncate(24 * time.Hour)
  if req.StartDate != nil {
    startDate = *req.StartDate
  }

  ark, milestones, err := s.persistCore(ctx, req, draft, tier, totalWeeks, startDate)
  if err != nil {
    return nil, err
  }

  milestoneIDByOrder := make(map[int]uuid.UUID, len(milestones))
  for _, m := range milestones {
    milestoneIDByOrder[m.OrderIndex] = m.ID
  }

  resourceCount := s.persistResources(ctx, req, ark, draft, milestoneIDByOrder, &warnings)

  var tasks []*types.ArkTimelineTask
  s.runDegradable("timeline", &warnings, func() error {
    var err error
    tasks, err = s.persistTimeline(ctx, ark, draft, milestoneIDByOrder, startDate, totalWeeks)
    return err
  })

  milestoneOrderByID := make(map[uuid.UUID]int, len(milestones))
  for _, m := range milestones {
    milestoneOrderByID[m.ID] = m.OrderIndex
  }
  reminderCount := s.scheduleReminders(ctx, student, tasks, milestoneOrderByID, &warnings)

  summary := &ArkSummary{
    ArkID:             ark.ID,
    Title:             ark.Title,
    DurationBucket:    ark.Duration,
    MilestoneCount:    len(milestones),
    ResourceCount:     resourceCount,
    TimelineTaskCount: len(tasks),
    ReminderCount:     reminderCount,
    Warnings:          warnings,
  }
  s.log.Info("Roadmap generated",
    "ark_id", ark.ID,
    "student_id", req.StudentID,
    "milestones", summary.MilestoneCount,
    "resources", summary.ResourceCount,
    "tasks", summary.TimelineTaskCount,
    "warnings", len(warnings),
  )
  return summary, nil
}

// buildPrompt prefers template customization when a template was requested,
// but a template that cannot be loaded only degrades to custom generation.
func (s *arkGenerationService) buildPrompt(ctx context.Context, req GenerateArkRequest, expectedMilestones, totalWeeks int, warnings *[]string) (string, string) {
  if req.TemplateID != nil {
    template, err := s.templateRepo.GetByID(ctx, nil, *req.TemplateID)
    if err == nil {
      return BuildTemplateCustomizationPrompt(string(template.TemplateJSON), req)
    }
    s.log.Warn("Template load failed, generating from scratch", "template_id", *req.TemplateID, "error", err)
    *warnings = append(*warnings, fmt.Sprintf("template %s: %v, generated from scratch", *req.TemplateID, err))
  }
  return BuildArkPrompt(req, expectedMilestones, totalWeeks)
}

func (s *arkGenerationService) auditAICall(ctx context.Context, studentID uuid.UUID, prompt, response string, callErr error) {
  if s.aiLogRepo == nil {
    return
  }
  now := time.Now()
  entry := &types.AICallLog{
    ID:        uuid.New(),
    StudentID: &studentID,
    CallType:  "ark_generation",
    Model:     s.ai.Model(),
    Prompt:    truncateForLog(prompt, 8000),
    Response:  truncateForLog(response, 16000),
    Success:   callErr == nil,
    CreatedAt: now,
    UpdatedAt: now,
  }
  if callErr != nil {
    entry.Error = callErr.Error()
  }
  if _, err := s.aiLogRepo.Create(ctx, nil, []*types.AICallLog{entry}); err != nil {
    s.log.Warn("AI call audit failed", "error", err)
  }
}

// persistCore writes the roadmap root and its milestones in one transaction.
// Both are load-bearing: a milestone failure rolls the root back so no
// orphaned roadmap is left behind.
func (s *arkGenerationService) persistCore(ctx context.Context, req GenerateArkRequest, draft *arkgen.RoadmapDraft, tier string, totalWeeks int, startDate time.Time) (*types.Ark, []*types.ArkMilestone, error) {
  now := time.Now()

  metadata, err := jsonValue(map[string]interface{}{
    "recovery_tier": tier,
    "total_weeks":   totalWeeks,
    "goal":          req.Goal,
  })
  if err != nil {
    return nil, nil, &PersistenceError{Stage: "roadmap", Err: err}
  }

  ark := &types.Ark{
    ID:          uuid.New(),
    StudentID:   req.StudentID,
    Title:       draft.Title,
    Description: draft.Description,
    Category:    req.Category,
    Duration:    arkgen.DurationBucket(req.DurationHint),
    Status:      "active",
    Progress:    0,
    StartDate:   &startDate,
    Metadata:    metadata,
    CreatedAt:   now,
    UpdatedAt:   now,
  }

  var milestones []*types.ArkMilestone
  cumWeeks := 0
  for _, md := range draft.Milestones {
    span := md.EstimatedWeeks
    if span <= 0 {
      span = 1
    }
    cumWeeks += span
    targetDate := startDate.AddDate(0, 0, cumWeeks*7)

    skills, err := jsonValue(md.SkillsGained)
    if err != nil {
      return nil, nil, &PersistenceError{Stage: "milestones", Err: err}
    }
    questions, err := jsonValue(md.CheckpointQuestions)
    if err != nil {
      return nil, nil, &PersistenceError{Stage: "milestones", Err: err}
    }

    milestones = append(milestones, &types.ArkMilestone{
      ID:                  uuid.New(),
      ArkID:               ark.ID,
      Title:               md.Title,
      Description:         md.Description,
      OrderIndex:          md.Order,
      EstimatedDuration:   fmt.Sprintf("%d weeks", span),
      Status:              "pending",
      TargetDate:          &targetDate,
      Difficulty:          md.Difficulty,
      SkillsToGain:        skills,
      CheckpointQuestions: questions,
      CelebrationMessage:  md.CelebrationMessage,
      CreatedAt:           now,
      UpdatedAt:           now,
    })
  }

  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, err := s.arkRepo.Create(ctx, tx, []*types.Ark{ark}); err != nil {
      return &PersistenceError{Stage: "roadmap", Err: err}
    }
    if _, err := s.milestoneRepo.Create(ctx, tx, milestones); err != nil {
      return &PersistenceError{Stage: "milestones", Err: err}
    }
    return nil
  })
  if txErr != nil {
    var pErr *PersistenceError
    if errors.As(txErr, &pErr) {
      return nil, nil, pErr
    }
    return nil, nil, &PersistenceError{Stage: "roadmap", Err: txErr}
  }
  return ark, milestones, nil
}

// persistResources fans out the external searches with bounded concurrency,
// then writes each milestone's merged list sequentially so link ordering
// stays simple. Failures degrade per milestone.
func (s *arkGenerationService) persistResources(ctx context.Context, req GenerateArkRequest, ark *types.Ark, draft *arkgen.RoadmapDraft, milestoneIDByOrder map[int]uuid.UUID, warnings *[]string) int {
  gathered := make([][]arkgen.ResourceCandidate, len(draft.Milestones))
  searchErrs := make([]error, len(draft.Milestones))

  if s.search != nil {
    g, gctx := errgroup.WithContext(ctx)
    g.SetLimit(searchConcurrency)
    for i := range draft.Milestones {
      i := i
      md := draft.Milestones[i]
      g.Go(func() error {
        callCtx, cancel := context.WithTimeout(gctx, searchTimeout)
        defer cancel()
        kc := arkgen.ExtractKeywordContext(md.Title+" "+md.Description, req.Category, req.Goal)
        results, err := s.search.Search(callCtx, kc.SearchQuery(md.Title), kc)
        if err != nil {
          searchErrs[i] = err
          return nil
        }
        gathered[i] = results
        return nil
      })
    }
    _ = g.Wait()
  }

  total := 0
  for i, md := range draft.Milestones {
    if searchErrs[i] != nil {
      s.log.Warn("Resource search degraded", "milestone_order", md.Order, "error", searchErrs[i])
      *warnings = append(*warnings, fmt.Sprintf("resources milestone %d: search failed, using ai suggestions", md.Order))
    }

    merged := arkgen.MergeResources(md.Resources, gathered[i])
    if len(merged) == 0 {
      continue
    }

    milestoneID, ok := milestoneIDByOrder[md.Order]
    if !ok {
      continue
    }

    count := 0
    s.runDegradable(fmt.Sprintf("resources milestone %d", md.Order), warnings, func() error {
      var err error
      count, err = s.persistMilestoneResources(ctx, ark.ID, milestoneID, merged)
      return err
    })
    total += count
  }
  return total
}

func (s *arkGenerationService) persistMilestoneResources(ctx context.Context, arkID, milestoneID uuid.UUID, merged []arkgen.ResourceCandidate) (int, error) {
  now := time.Now()

  var resources []*types.ArkResource
  var links []*types.MilestoneResource
  for i, candidate := range merged {
    metadata, err := jsonValue(map[string]interface{}{
      "origin":           candidate.Origin,
      "quality_score":    candidate.QualityScore,
      "is_free":          candidate.IsFree,
      "duration_minutes": candidate.DurationMinutes,
      "description":      candidate.Description,
    })
    if err != nil {
      return 0, err
    }

    resource := &types.ArkResource{
      ID:        uuid.New(),
      ArkID:     arkID,
      Type:      candidate.Type,
      Title:     candidate.Title,
      URL:       candidate.URL,
      Provider:  candidate.Provider,
      Metadata:  metadata,
      CreatedAt: now,
      UpdatedAt: now,
    }
    resources = append(resources, resource)
    links = append(links, &types.MilestoneResource{
      ID:          uuid.New(),
      MilestoneID: milestoneID,
      ResourceID:  resource.ID,
      IsRequired:  !candidate.Optional,
      OrderIndex:  i,
      CreatedAt:   now,
    })
  }

  if _, err := s.resourceRepo.Create(ctx, nil, resources); err != nil {
    return 0, fmt.Errorf("create resources: %w", err)
  }
  if _, err := s.linkRepo.Create(ctx, nil, links); err != nil {
    return 0, fmt.Errorf("create resource links: %w", err)
  }
  return len(resources), nil
}

func (s *arkGenerationService) persistTimeline(ctx context.Context, ark *types.Ark, draft *arkgen.RoadmapDraft, milestoneIDByOrder map[int]uuid.UUID, startDate time.Time, totalWeeks int) ([]*types.ArkTimelineTask, error) {
  var drafts []arkgen.TimelineTaskDraft
  if len(draft.DailyTimeline) > 0 {
    drafts = arkgen.ReshapeTimeline(draft.DailyTimeline, startDate)
  }
  if len(drafts) == 0 {
    drafts = arkgen.SynthesizeTimeline(draft.Milestones, startDate, totalWeeks)
  }
  if len(drafts) == 0 {
    return nil, nil
  }

  now := time.Now()
  tasks := make([]*types.ArkTimelineTask, 0, len(drafts))
  for _, td := range drafts {
    task := &types.ArkTimelineTask{
      ID:              uuid.New(),
      ArkID:           ark.ID,
      TaskDate:        td.Date,
      TaskTitle:       td.Title,
      TaskDescription: td.Description,
      TaskType:        td.TaskType,
      EstimatedHours:  td.EstimatedHours,
      Priority:        td.Priority,
      AutoGenerated:   true,
      CreatedAt:       now,
      UpdatedAt:       now,
    }
    if td.HasMilestone {
      if id, ok := milestoneIDByOrder[td.MilestoneOrder]; ok {
        milestoneID := id
        task.MilestoneID = &milestoneID
      }
    }
    tasks = append(tasks, task)
  }

  if _, err := s.taskRepo.Create(ctx, nil, tasks); err != nil {
    return nil, fmt.Errorf("create timeline tasks: %w", err)
  }
  return tasks, nil
}

// scheduleReminders requests reminders for the most urgent tasks. Entirely
// best-effort: a missing collaborator or individual failure only produces a
// warning.
func (s *arkGenerationService) scheduleReminders(ctx context.Context, student *types.Student, tasks []*types.ArkTimelineTask, milestoneOrderByID map[uuid.UUID]int, warnings *[]string) int {
  if s.reminders == nil || len(tasks) == 0 {
    return 0
  }
  totalMilestones := len(milestoneOrderByID)

  urgent := make([]*types.ArkTimelineTask, 0, reminderCap)
  for _, task := range tasks {
    if task.Priority == "critical" || task.Priority == "high" {
      urgent = append(urgent, task)
    }
  }
  sort.SliceStable(urgent, func(i, j int) bool {
    return urgent[i].TaskDate.Before(urgent[j].TaskDate)
  })
  if len(urgent) > reminderCap {
    urgent = urgent[:reminderCap]
  }

  scheduled := 0
  for _, task := range urgent {
    if ctx.Err() != nil {
      break
    }
    position := 0
    if task.MilestoneID != nil {
      position = milestoneOrderByID[*task.MilestoneID]
    }
    n, err := s.reminders.ScheduleForTask(ctx, task, student, position, totalMilestones)
    if err != nil {
      s.log.Warn("Reminder scheduling failed", "task_id", task.ID, "error", err)
      *warnings = append(*warnings, fmt.Sprintf("reminder for %q: %v", task.TaskTitle, err))
      continue
    }
    scheduled += n
  }
  return scheduled
}

func (s *arkGenerationService) runDegradable(stage string, warnings *[]string, fn func() error) {
  if err := fn(); err != nil {
    s.log.Warn("Degradable stage failed", "stage", stage, "error", err)
    *warnings = append(*warnings, fmt.Sprintf("%s: %v", stage, err))
  }
}

func truncateForLog(s string, max int) string {
  if len(s) <= max {
    return s
  }
  return s[:max]
}
