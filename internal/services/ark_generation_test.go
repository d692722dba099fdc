package services

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "strings"
  "sync"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"

  "github.com/mentark/mentark-backend/internal/arkgen"
  "github.com/mentark/mentark-backend/internal/logger"
  "github.com/mentark/mentark-backend/internal/repos"
  "github.com/mentark/mentark-backend/internal/types"
)

type fakeAIClient struct {
  response   string
  err        error
  lastSystem string
  lastUser   string
}

func (f *fakeAIClient) GenerateText(ctx context.Context, system string, user string) (string, error) {
  f.lastSystem = system
  f.lastUser = user
  if f.err != nil {
    return "", f.err
  }
  return f.response, nil
}

func (f *fakeAIClient) Model() string { return "fake-model" }

type fakeSearchService struct {
  mu      sync.Mutex
  results []arkgen.ResourceCandidate
  err     error
  calls   int
}

func (f *fakeSearchService) Search(ctx context.Context, query string, kc arkgen.KeywordContext) ([]arkgen.ResourceCandidate, error) {
  f.mu.Lock()
  f.calls++
  f.mu.Unlock()
  if f.err != nil {
    return nil, f.err
  }
  return f.results, nil
}

type testEnv struct {
  db      *gorm.DB
  log     *logger.Logger
  student *types.Student
}

func newTestEnv(t *testing.T) *testEnv {
  t.Helper()

  log, err := logger.New("test")
  if err != nil {
    t.Fatalf("logger.New: %v", err)
  }

  dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
  db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
    Logger: gormlogger.Default.LogMode(gormlogger.Silent),
  })
  if err != nil {
    t.Fatalf("open sqlite: %v", err)
  }

  if err := db.AutoMigrate(
    &types.Student{},
    &types.Ark{},
    &types.ArkMilestone{},
    &types.ArkResource{},
    &types.MilestoneResource{},
    &types.ArkTimelineTask{},
    &types.ArkReminder{},
    &types.ArkTemplate{},
    &types.AICallLog{},
  ); err != nil {
    t.Fatalf("migrate: %v", err)
  }

  now := time.Now()
  student := &types.Student{
    ID:        uuid.New(),
    Email:     fmt.Sprintf("%s@example.com", t.Name()),
    FirstName: "Test",
    CreatedAt: now,
    UpdatedAt: now,
  }
  if err := db.Create(student).Error; err != nil {
    t.Fatalf("create student: %v", err)
  }

  return &testEnv{db: db, log: log, student: student}
}

func (e *testEnv) newService(t *testing.T, ai OpenAIClient, search ResourceSearchService) ArkGenerationService {
  t.Helper()
  reminderRepo := repos.NewArkReminderRepo(e.db, e.log)
  studentRepo := repos.NewStudentRepo(e.db, e.log)
  reminders := NewReminderService(e.log, reminderRepo, studentRepo, nil)
  return NewArkGenerationService(
    e.db,
    e.log,
    repos.NewArkRepo(e.db, e.log),
    repos.NewArkMilestoneRepo(e.db, e.log),
    repos.NewArkResourceRepo(e.db, e.log),
    repos.NewMilestoneResourceRepo(e.db, e.log),
    repos.NewArkTimelineTaskRepo(e.db, e.log),
    repos.NewArkTemplateRepo(e.db, e.log),
    studentRepo,
    repos.NewAICallLogRepo(e.db, e.log),
    ai,
    search,
    reminders,
  )
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
  t.Helper()
  var n int64
  if err := e.db.Model(model).Count(&n).Error; err != nil {
    t.Fatalf("count: %v", err)
  }
  return n
}

func roadmapJSON(t *testing.T, payload map[string]interface{}) string {
  t.Helper()
  raw, err := json.Marshal(payload)
  if err != nil {
    t.Fatalf("marshal payload: %v", err)
  }
  return string(raw)
}

func TestGenerateAndPersistEndToEnd(t *testing.T) {
  env := newTestEnv(t)
  ai := &fakeAIClient{response: roadmapJSON(t, map[string]interface{}{
    "title": "Ace Algebra",
    "milestones": []interface{}{
      map[string]interface{}{"title": "Linear Equations", "order": 0},
    },
  })}
  svc := env.newService(t, ai, nil)

  start := time.Now().Truncate(24 * time.Hour)
  summary, err := svc.GenerateAndPersist(context.Background(), GenerateArkRequest{
    StudentID:    env.student.ID,
    Category:     "academics",
    Goal:         "pass the algebra final",
    DurationHint: "4 weeks",
    StartDate:    &start,
  })
  if err != nil {
    t.Fatalf("GenerateAndPersist: %v", err)
  }

  if summary.Title != "Ace Algebra" {
    t.Fatalf("title: want=%q got=%q", "Ace Algebra", summary.Title)
  }
  if summary.MilestoneCount != 1 {
    t.Fatalf("milestone count: want=1 got=%d", summary.MilestoneCount)
  }
  if summary.TimelineTaskCount < 1 {
    t.Fatalf("expected at least one timeline task, got %d", summary.TimelineTaskCount)
  }

  var tasks []*types.ArkTimelineTask
  if err := env.db.Find(&tasks).Error; err != nil {
    t.Fatalf("load tasks: %v", err)
  }
  end := start.AddDate(0, 0, 28)
  for _, task := range tasks {
    if task.TaskDate.Before(start) || !task.TaskDate.Before(end) {
      t.Fatalf("task %q dated %s outside 28-day window", task.TaskTitle, task.TaskDate)
    }
    if task.MilestoneID == nil && task.TaskType != "rest" {
      t.Fatalf("task %q not linked to milestone", task.TaskTitle)
    }
  }

  if n := env.count(t, &types.AICallLog{}); n != 1 {
    t.Fatalf("ai call log count: want=1 got=%d", n)
  }
}

func TestGenerateAndPersistRefusal(t *testing.T) {
  env := newTestEnv(t)
  ai := &fakeAIClient{response: "I'm sorry, I cannot assist with that request."}
  svc := env.newService(t, ai, nil)

  _, err := svc.GenerateAndPersist(context.Background(), GenerateArkRequest{
    StudentID: env.student.ID,
    Category:  "academics",
    Goal:      "anything",
  })
  if !errors.Is(err, arkgen.ErrRefusalDetected) {
    t.Fatalf("expected refusal, got %v", err)
  }
  if n := env.count(t, &types.Ark{}); n != 0 {
    t.Fatalf("expected no roadmap persisted, got %d", n)
  }
}

func TestGenerateAndPersistMalformed(t *testing.T) {
  env := newTestEnv(t)
  ai := &fakeAIClient{response: "here are some thoughts about your goal, in plain prose"}
  svc := env.newService(t, ai, nil)

  _, err := svc.GenerateAndPersist(context.Background(), GenerateArkRequest{
    StudentID: env.student.ID,
    Category:  "academics",
    Goal:      "anything",
  })
  if !errors.Is(err, arkgen.ErrMalformedPayload) {
    t.Fatalf("expected malformed payload, got %v", err)
  }
  if n := env.count(t, &types.Ark{}); n != 0 {
    t.Fatalf("expected no roadmap persisted, got %d", n)
  }
}

func TestGenerateAndPersistEmptyMilestones(t *testing.T) {
  env := newTestEnv(t)
  ai := &fakeAIClient{response: roadmapJSON(t, map[string]interface{}{
    "title":      "Empty Plan",
    "milestones": []interface{}{},
  })}
  svc := env.newService(t, ai, nil)

  _, err := svc.GenerateAndPersist(context.Background(), GenerateArkRequest{
    StudentID: env.student.ID,
    Category:  "academics",
    Goal:      "anything",
  })
  if !errors.Is(err, arkgen.ErrEmptyMilestones) {
    t.Fatalf("expected empty milestones, got %v", err)
  }
}

func TestGenerateAndPersistNoProvider(t *testing.T) {
  env := newTestEnv(t)
  svc := env.newService(t, nil, nil)

  _, err := svc.GenerateAndPersist(context.Background(), GenerateArkRequest{
    StudentID: env.student.ID,
    Category:  "academics",
    Goal:      "anything",
  })
  if !errors.Is(err, ErrNoProviderConfigured) {
    t.Fatalf("expected no provider error, got %v", err)
  }
}

func tenMilestonePayload(t *testing.T) string {
  var milestones []interface{}
  for i := 0; i < 10; i++ {
    milestones = append(milestones, map[string]interface{}{
      "title": fmt.Sprintf("Phase %d", i+1),
      "resources": []interface{}{
        map[string]interface{}{
          "title": fmt.Sprintf("Reading %d", i+1),
          "url":   fmt.Sprintf("https://example.com/reading/%d", i+1),
          "type":  "article",
        },
      },
    })
  }
  return roadmapJSON(t, map[string]interface{}{
    "title":      "Full Stack in a Year",
    "milestones": milestones,
  })
}

func TestGenerateAndPersistSearchFailureDegrades(t *testing.T) {
  env := newTestEnv(t)
  ai := &fakeAIClient{response: tenMilestonePayload(t)}
  search := &fakeSearchService{err: context.DeadlineExceeded}
  svc := env.newService(t, ai, search)

  summary, err := svc.GenerateAndPersist(context.Background(), GenerateArkRequest{
    StudentID:    env.student.ID,
    Category:     "career",
    Goal:         "become a web development intern",
    DurationHint: "40 weeks",
  })
  if err != nil {
    t.Fatalf("GenerateAndPersist: %v", err)
  }

  if summary.MilestoneCount != 10 {
    t.Fatalf("milestone count: want=10 got=%d", summary.MilestoneCount)
  }
  if n := env.count(t, &types.ArkMilestone{}); n != 10 {
    t.Fatalf("persisted milestones: want=10 got=%d", n)
  }
  // every milestone falls back to its single AI-suggested resource
  if n := env.count(t, &types.ArkResource{}); n != 10 {
    t.Fatalf("persisted resources: want=10 got=%d", n)
  }
  if n := env.count(t, &types.MilestoneResource{}); n != 10 {
    t.Fatalf("persisted links: want=10 got=%d", n)
  }

  degraded := 0
  for _, w := range summary.Warnings {
    if strings.HasPrefix(w, "resources") {
      degraded++
    }
  }
  if degraded != 10 {
    t.Fatalf("degraded fetch warnings: want=10 got=%d (%v)", degraded, summary.Warnings)
  }
}

func TestGenerateAndPersistMergesSearchResults(t *testing.T) {
  env := newTestEnv(t)
  ai := &fakeAIClient{response: roadmapJSON(t, map[string]interface{}{
    "title": "Learn Go",
    "milestones": []interface{}{
      map[string]interface{}{
        "title": "Basics",
        "resources": []interface{}{
          map[string]interface{}{"title": "Official Tour", "url": "https://go.dev/tour"},
        },
      },
    },
  })}
  search := &fakeSearchService{results: []arkgen.ResourceCandidate{
    {Type: "video", Title: "Go Crash Course", URL: "https://youtube.com/watch?v=abc", QualityScore: 0.7},
    {Type: "article", Title: "Tour (dupe)", URL: "https://go.dev/tour", QualityScore: 0.95},
  }}
  svc := env.newService(t, ai, search)

  summary, err := svc.GenerateAndPersist(context.Background(), GenerateArkRequest{
    StudentID: env.student.ID,
    Category:  "academics",
    Goal:      "learn go",
  })
  if err != nil {
    t.Fatalf("GenerateAndPersist: %v", err)
  }
  if summary.ResourceCount != 2 {
    t.Fatalf("resource count: want=2 got=%d", summary.ResourceCount)
  }

  var resources []*types.ArkResource
  if err := env.db.Find(&resources).Error; err != nil {
    t.Fatalf("load resources: %v", err)
  }
  for _, r := range resources {
    if r.URL == "https://go.dev/tour" && r.Title != "Official Tour" {
      t.Fatalf("expected ai entry to win URL tie, got %q", r.Title)
    }
  }
}

func TestGenerateAndPersistMilestoneWriteFailureRollsBack(t *testing.T) {
  env := newTestEnv(t)
  ai := &fakeAIClient{response: roadmapJSON(t, map[string]interface{}{
    "title": "Doomed Plan",
    "milestones": []interface{}{
      map[string]interface{}{"title": "Phase 1"},
    },
  })}
  svc := env.newService(t, ai, nil)

  if err := env.db.Migrator().DropTable(&types.ArkMilestone{}); err != nil {
    t.Fatalf("drop table: %v", err)
  }

  _, err := svc.GenerateAndPersist(context.Background(), GenerateArkRequest{
    StudentID: env.student.ID,
    Category:  "academics",
    Goal:      "anything",
  })
  var pErr *PersistenceError
  if !errors.As(err, &pErr) {
    t.Fatalf("expected persistence error, got %v", err)
  }
  if pErr.Stage != "milestones" {
    t.Fatalf("stage: want=milestones got=%s", pErr.Stage)
  }
  if n := env.count(t, &types.Ark{}); n != 0 {
    t.Fatalf("expected roadmap rolled back, got %d", n)
  }
  if n := env.count(t, &types.ArkResource{}); n != 0 {
    t.Fatalf("expected no resources, got %d", n)
  }
  if n := env.count(t, &types.ArkTimelineTask{}); n != 0 {
    t.Fatalf("expected no timeline tasks, got %d", n)
  }
}

func TestGenerateAndPersistResourceWriteFailureKeepsTimeline(t *testing.T) {
  env := newTestEnv(t)
  ai := &fakeAIClient{response: roadmapJSON(t, map[string]interface{}{
    "title": "Resilient Plan",
    "milestones": []interface{}{
      map[string]interface{}{
        "title": "Phase 1",
        "resources": []interface{}{
          map[string]interface{}{"title": "Reading", "url": "https://example.com/reading"},
        },
      },
    },
  })}
  svc := env.newService(t, ai, nil)

  if err := env.db.Migrator().DropTable(&types.ArkResource{}); err != nil {
    t.Fatalf("drop table: %v", err)
  }

  summary, err := svc.GenerateAndPersist(context.Background(), GenerateArkRequest{
    StudentID: env.student.ID,
    Category:  "academics",
    Goal:      "anything",
  })
  if err != nil {
    t.Fatalf("resource failure must not abort pipeline: %v", err)
  }
  if summary.ResourceCount != 0 {
    t.Fatalf("resource count: want=0 got=%d", summary.ResourceCount)
  }
  if summary.TimelineTaskCount < 1 {
    t.Fatalf("expected timeline despite resource failure, got %d tasks", summary.TimelineTaskCount)
  }
  if len(summary.Warnings) == 0 {
    t.Fatal("expected a resource warning")
  }
  if n := env.count(t, &types.ArkTimelineTask{}); n == 0 {
    t.Fatal("expected timeline tasks persisted")
  }
}

func TestGenerateAndPersistSchedulesReminders(t *testing.T) {
  env := newTestEnv(t)
  ai := &fakeAIClient{response: tenMilestonePayload(t)}
  svc := env.newService(t, ai, nil)

  summary, err := svc.GenerateAndPersist(context.Background(), GenerateArkRequest{
    StudentID:    env.student.ID,
    Category:     "career",
    Goal:         "become a web development intern",
    DurationHint: "40 weeks",
  })
  if err != nil {
    t.Fatalf("GenerateAndPersist: %v", err)
  }

  if summary.ReminderCount == 0 {
    t.Fatal("expected reminders for high priority tasks")
  }
  if n := env.count(t, &types.ArkReminder{}); n != int64(summary.ReminderCount) {
    t.Fatalf("reminder rows: want=%d got=%d", summary.ReminderCount, n)
  }

  // at most 10 tasks get reminders, each with up to three lead offsets
  var distinctTasks int64
  if err := env.db.Model(&types.ArkReminder{}).Distinct("task_id").Count(&distinctTasks).Error; err != nil {
    t.Fatalf("count distinct tasks: %v", err)
  }
  if distinctTasks > 10 {
    t.Fatalf("reminder task cap exceeded: %d tasks", distinctTasks)
  }
  if int64(summary.ReminderCount) > distinctTasks*3 {
    t.Fatalf("reminder count %d exceeds %d tasks at three offsets each", summary.ReminderCount, distinctTasks)
  }
}

func TestGenerateAndPersistShortfallWarning(t *testing.T) {
  env := newTestEnv(t)
  ai := &fakeAIClient{response: roadmapJSON(t, map[string]interface{}{
    "title": "Thin Plan",
    "milestones": []interface{}{
      map[string]interface{}{"title": "Only Phase"},
    },
  })}
  svc := env.newService(t, ai, nil)

  summary, err := svc.GenerateAndPersist(context.Background(), GenerateArkRequest{
    StudentID:    env.student.ID,
    Category:     "academics",
    Goal:         "big ambitions",
    DurationHint: "24 weeks",
  })
  if err != nil {
    t.Fatalf("shortfall must not fail: %v", err)
  }
  found := false
  for _, w := range summary.Warnings {
    if strings.HasPrefix(w, "milestones") {
      found = true
    }
  }
  if !found {
    t.Fatalf("expected shortfall warning, got %v", summary.Warnings)
  }
}

func TestGenerateAndPersistTemplateLoadFallback(t *testing.T) {
  env := newTestEnv(t)
  ai := &fakeAIClient{response: roadmapJSON(t, map[string]interface{}{
    "title": "Custom Plan",
    "milestones": []interface{}{
      map[string]interface{}{"title": "Only Phase"},
    },
  })}
  svc := env.newService(t, ai, nil)

  missing := uuid.New()
  summary, err := svc.GenerateAndPersist(context.Background(), GenerateArkRequest{
    StudentID:    env.student.ID,
    Category:     "academics",
    Goal:         "pass the algebra final",
    DurationHint: "4 weeks",
    TemplateID:   &missing,
  })
  if err != nil {
    t.Fatalf("missing template must not fail generation: %v", err)
  }
  if summary.MilestoneCount != 1 {
    t.Fatalf("milestone count: want=1 got=%d", summary.MilestoneCount)
  }
  if !strings.Contains(ai.lastUser, "Create a learning roadmap") {
    t.Fatalf("expected custom generation prompt, got %q", ai.lastUser)
  }
  found := false
  for _, w := range summary.Warnings {
    if strings.HasPrefix(w, "template") {
      found = true
    }
  }
  if !found {
    t.Fatalf("expected template warning, got %v", summary.Warnings)
  }
}

func TestGenerateAndPersistFromTemplate(t *testing.T) {
  env := newTestEnv(t)

  templateBody := roadmapJSON(t, map[string]interface{}{
    "title": "SAT Prep Template",
    "milestones": []interface{}{
      map[string]interface{}{"title": "Diagnostic"},
      map[string]interface{}{"title": "Math Drills"},
    },
  })
  now := time.Now()
  template := &types.ArkTemplate{
    ID:            uuid.New(),
    Title:         "SAT Prep",
    Category:      "academics",
    DurationWeeks: 8,
    TemplateJSON:  []byte(templateBody),
    CreatedAt:     now,
    UpdatedAt:     now,
  }
  if err := env.db.Create(template).Error; err != nil {
    t.Fatalf("create template: %v", err)
  }

  ai := &fakeAIClient{response: templateBody}
  svc := env.newService(t, ai, nil)

  summary, err := svc.GenerateAndPersist(context.Background(), GenerateArkRequest{
    StudentID:  env.student.ID,
    Category:   "academics",
    Goal:       "raise my SAT score",
    TemplateID: &template.ID,
  })
  if err != nil {
    t.Fatalf("GenerateAndPersist: %v", err)
  }
  if summary.MilestoneCount != 2 {
    t.Fatalf("milestone count: want=2 got=%d", summary.MilestoneCount)
  }
  if !strings.Contains(ai.lastUser, "SAT Prep Template") {
    t.Fatalf("expected template body in prompt, got %q", ai.lastUser)
  }
}
