// File path: internal/score/types.go

// Package score normalizes raw questionnaire answers onto a 0-100 scale and
// aggregates them into category, chapter, and overall scores. Its output is
// the phase 0 record every later pipeline phase builds on.
package score

import "time"

// BusinessOverview carries the company facts submitted alongside the
// questionnaire. Immutable once submitted.
type BusinessOverview struct {
	CompanyName     string   `json:"company_name"`
	Industry        string   `json:"industry"`
	YearsInBusiness int      `json:"years_in_business"`
	Employees       int      `json:"employees"`
	AnnualRevenue   float64  `json:"annual_revenue"`
	Products        []string `json:"products,omitempty"`
	Challenges      []string `json:"challenges,omitempty"`
	Competitors     []string `json:"competitors,omitempty"`
}

// Answer is one raw questionnaire response tuple.
type Answer struct {
	QuestionID string  `json:"question_id"`
	Value      float64 `json:"value"`
	IsEstimate bool    `json:"is_estimate,omitempty"`
	FollowUp   string  `json:"follow_up,omitempty"`
}

// QuestionnaireInput is the submitted assessment payload.
type QuestionnaireInput struct {
	SubmissionID string           `json:"submission_id"`
	Business     BusinessOverview `json:"business"`
	Answers      []Answer         `json:"answers"`
}

// NormalizedResponse is the derived per-question record. Never mutated after
// creation.
type NormalizedResponse struct {
	QuestionID string  `json:"question_id"`
	Category   string  `json:"category"`
	Chapter    string  `json:"chapter"`
	RawValue   float64 `json:"raw_value"`
	Score      float64 `json:"score"`
	Weight     float64 `json:"weight"`
	IsEstimate bool    `json:"is_estimate,omitempty"`
	FollowUp   string  `json:"follow_up,omitempty"`
}

// Metadata stamps a phase 0 output.
type Metadata struct {
	ProcessedAt time.Time `json:"processed_at"`
	Version     string    `json:"version"`
}

// Phase0Output is the immutable score-normalization record keyed by
// submission id.
type Phase0Output struct {
	SubmissionID   string               `json:"submission_id"`
	Business       BusinessOverview     `json:"business"`
	Responses      []NormalizedResponse `json:"responses"`
	CategoryScores map[string]float64   `json:"category_scores"`
	ChapterScores  map[string]float64   `json:"chapter_scores"`
	OverallScore   float64              `json:"overall_score"`
	Metadata       Metadata             `json:"metadata"`
}
