package services

import (
  "context"
  "encoding/json"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/mentark/mentark-backend/internal/clients/twilio"
  "github.com/mentark/mentark-backend/internal/logger"
  "github.com/mentark/mentark-backend/internal/repos"
  "github.com/mentark/mentark-backend/internal/types"
)

// ReminderService schedules reminders for upcoming roadmap tasks. It is an
// optional collaborator: when SMS is not configured reminders are stored for
// in-app delivery only.
type ReminderService interface {
  ScheduleForTask(ctx context.Context, task *types.ArkTimelineTask, student *types.Student, milestonePosition int, totalMilestones int) (int, error)
  ProcessDue(ctx context.Context) (int, error)
  StartWorker(ctx context.Context, interval time.Duration)
}

type reminderService struct {
  log          *logger.Logger
  reminderRepo repos.ArkReminderRepo
  studentRepo  repos.StudentRepo
  sms          twilio.Client
}

func NewReminderService(baseLog *logger.Logger, reminderRepo repos.ArkReminderRepo, studentRepo repos.StudentRepo, sms twilio.Client) ReminderService {
  return &reminderService{
    log:          baseLog.With("service", "ReminderService"),
    reminderRepo: reminderRepo,
    studentRepo:  studentRepo,
    sms:          sms,
  }
}

var priorityWeights = map[string]float64{
  "critical": 1.0,
  "high":     0.8,
  "medium":   0.5,
  "low":      0.3,
}

// taskValueScore rates how much a task deserves a reminder. Priority carries
// most of the weight; early milestones get a small boost since momentum in
// the first phases predicts completion.
func taskValueScore(priority string, milestonePosition, totalMilestones int) float64 {
  score, ok := priorityWeights[priority]
  if !ok {
    score = 0.5
  }
  if totalMilestones > 0 && milestonePosition >= 0 {
    progress := float64(milestonePosition) / float64(totalMilestones)
    if progress < 0.34 {
      score += 0.1
    }
  }
  if score > 1 {
    score = 1
  }
  return score
}

const (
  smsValueThreshold = 0.6
  topValueThreshold = 0.8
)

// reminderOffsets picks how far ahead of the task each reminder fires. Every
// task gets a day-before and an hour-before nudge; top-value tasks get an
// extra three-day heads-up.
func reminderOffsets(score float64) []time.Duration {
  offsets := []time.Duration{24 * time.Hour, time.Hour}
  if score >= topValueThreshold {
    offsets = append([]time.Duration{72 * time.Hour}, offsets...)
  }
  return offsets
}

func reminderMessage(task *types.ArkTimelineTask, offset time.Duration) string {
  switch {
  case offset <= time.Hour:
    return fmt.Sprintf("%s is due in %d minutes", task.TaskTitle, int(offset.Minutes()))
  case offset <= 24*time.Hour:
    return fmt.Sprintf("%s is due in %d hours", task.TaskTitle, int(offset.Hours()))
  default:
    return fmt.Sprintf("%s is scheduled for %s", task.TaskTitle, task.TaskDate.Format("Jan 2"))
  }
}

// ScheduleForTask creates one reminder per lead offset and reports how many
// were stored. Offsets that already lie in the past are skipped, so a task
// due within the hour gets no reminders at all.
func (s *reminderService) ScheduleForTask(ctx context.Context, task *types.ArkTimelineTask, student *types.Student, milestonePosition int, totalMilestones int) (int, error) {
  score := taskValueScore(task.Priority, milestonePosition, totalMilestones)

  channels := []string{"in_app"}
  if s.sms != nil && student.PhoneNumber != "" && score >= smsValueThreshold {
    channels = append(channels, "sms")
  }
  channelsJSON, err := jsonValue(channels)
  if err != nil {
    return 0, err
  }

  now := time.Now()
  taskID := task.ID
  var batch []*types.ArkReminder
  for _, offset := range reminderOffsets(score) {
    scheduledFor := task.TaskDate.Add(-offset)
    if scheduledFor.Before(now) {
      continue
    }
    batch = append(batch, &types.ArkReminder{
      ID:           uuid.New(),
      ArkID:        task.ArkID,
      MilestoneID:  task.MilestoneID,
      TaskID:       &taskID,
      StudentID:    student.ID,
      ReminderType: "task_due",
      Title:        task.TaskTitle,
      Message:      reminderMessage(task, offset),
      ScheduledFor: scheduledFor,
      Channels:     channelsJSON,
      Priority:     task.Priority,
      ValueScore:   score,
      Status:       "pending",
      CreatedAt:    now,
      UpdatedAt:    now,
    })
  }
  if len(batch) == 0 {
    return 0, nil
  }

  if _, err := s.reminderRepo.Create(ctx, nil, batch); err != nil {
    return 0, fmt.Errorf("create reminders: %w", err)
  }
  return len(batch), nil
}

// ProcessDue delivers pending reminders whose scheduled time has passed.
// Intended to run from a periodic worker.
func (s *reminderService) ProcessDue(ctx context.Context) (int, error) {
  due, err := s.reminderRepo.GetDueBefore(ctx, nil, time.Now())
  if err != nil {
    return 0, err
  }

  sent := 0
  for _, reminder := range due {
    status := "sent"
    if s.sms != nil && reminder.ValueScore >= smsValueThreshold {
      student, err := s.studentRepo.GetByID(ctx, nil, reminder.StudentID)
      if err == nil && student.PhoneNumber != "" {
        msg := fmt.Sprintf("Mentark reminder: %s\n%s", reminder.Title, reminder.Message)
        if err := s.sms.SendSMS(ctx, student.PhoneNumber, msg); err != nil {
          s.log.Warn("Reminder SMS failed", "reminder_id", reminder.ID, "error", err)
          status = "failed"
        }
      }
    }
    if err := s.reminderRepo.UpdateStatus(ctx, nil, reminder.ID, status); err != nil {
      s.log.Warn("Reminder status update failed", "reminder_id", reminder.ID, "error", err)
      continue
    }
    if status == "sent" {
      sent++
    }
  }
  return sent, nil
}

// StartWorker delivers due reminders on a fixed interval until the context
// is cancelled.
func (s *reminderService) StartWorker(ctx context.Context, interval time.Duration) {
  go func() {
    ticker := time.NewTicker(interval)
    defer ticker.Stop()
    for {
      select {
      case <-ctx.Done():
        return
      case <-ticker.C:
        sent, err := s.ProcessDue(ctx)
        if err != nil {
          s.log.Warn("Reminder delivery pass failed", "error", err)
          continue
        }
        if sent > 0 {
          s.log.Info("Reminders delivered", "count", sent)
        }
      }
    }
  }()
}

func jsonValue(v any) (datatypes.JSON, error) {
  raw, err := json.Marshal(v)
  if err != nil {
    return nil, err
  }
  return datatypes.JSON(raw), nil
}
