package services

import (
  "fmt"
  "strings"
)

const arkSystemPrompt = `You are Mentark, a mentorship planning assistant for students.
You produce learning roadmaps as a single JSON object with this shape:
{
  "title": string,
  "description": string,
  "estimatedCompletionWeeks": number,
  "milestones": [
    {
      "title": string,
      "description": string,
      "estimatedWeeks": number,
      "difficulty": "easy" | "medium" | "hard",
      "skillsGained": [string],
      "checkpointQuestions": [string],
      "celebrationMessage": string,
      "resources": [
        {"type": "video" | "article" | "course" | "book" | "podcast" | "tool", "title": string, "url": string, "provider": string}
      ]
    }
  ]
}
Respond with JSON only. Do not wrap the JSON in markdown fences or add commentary.`

// BuildArkPrompt assembles the system and user prompts for a roadmap
// generation call from the request's category, goal, and optional profile.
func BuildArkPrompt(req GenerateArkRequest, expectedMilestones int, totalWeeks int) (string, string) {
  var b strings.Builder
  fmt.Fprintf(&b, "Create a learning roadmap in the %q category.\n", req.Category)
  fmt.Fprintf(&b, "The student's goal: %s\n", req.Goal)
  fmt.Fprintf(&b, "Target duration: %d weeks. Aim for %d milestones.\n", totalWeeks, expectedMilestones)
  if req.DurationHint != "" {
    fmt.Fprintf(&b, "The student described their timeframe as: %s\n", req.DurationHint)
  }
  if req.StudentProfile != "" {
    fmt.Fprintf(&b, "Student profile: %s\n", req.StudentProfile)
  }
  if req.PsychologyProfile != "" {
    fmt.Fprintf(&b, "Learning style notes: %s\n", req.PsychologyProfile)
  }
  b.WriteString("Each milestone needs concrete skills, checkpoint questions, and real resource URLs where possible.")
  return arkSystemPrompt, b.String()
}

// BuildTemplateCustomizationPrompt asks the model to adapt a stored roadmap
// template to one student instead of generating from scratch.
func BuildTemplateCustomizationPrompt(templateJSON string, req GenerateArkRequest) (string, string) {
  var b strings.Builder
  b.WriteString("Customize the following roadmap template for this student.\n")
  b.WriteString("Keep the milestone structure but adjust descriptions, pacing, and resources to fit.\n")
  fmt.Fprintf(&b, "Category: %s\nGoal: %s\n", req.Category, req.Goal)
  if req.StudentProfile != "" {
    fmt.Fprintf(&b, "Student profile: %s\n", req.StudentProfile)
  }
  b.WriteString("Template:\n")
  b.WriteString(templateJSON)
  return arkSystemPrompt, b.String()
}
