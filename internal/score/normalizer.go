// File path: internal/score/normalizer.go
package score

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/riventa/pulsecheck/internal/common"
	"github.com/riventa/pulsecheck/internal/taxonomy"
)

const normalizerVersion = "1.0"

var ErrNoAnswers = errors.New("questionnaire has no answers")

// Normalizer maps raw questionnaire answers onto the 0-100 scale defined by
// its question catalog.
type Normalizer struct {
	questions map[string]Question
}

// NewNormalizer builds a normalizer over the provided question catalog; the
// built-in catalog is used when questions is empty.
func NewNormalizer(questions []Question) *Normalizer {
	if len(questions) == 0 {
		questions = DefaultQuestions()
	}
	index := make(map[string]Question, len(questions))
	for _, q := range questions {
		index[strings.ToUpper(strings.TrimSpace(q.ID))] = q
	}
	return &Normalizer{questions: index}
}

// Normalize produces the phase 0 output for a submission. Answers referencing
// unknown question ids are skipped with a warning; they degrade coverage, not
// the run.
func (n *Normalizer) Normalize(input QuestionnaireInput) (Phase0Output, error) {
	logger := common.Logger()
	if len(input.Answers) == 0 {
		return Phase0Output{}, ErrNoAnswers
	}
	if strings.TrimSpace(input.SubmissionID) == "" {
		return Phase0Output{}, fmt.Errorf("submission id required")
	}

	responses := make([]NormalizedResponse, 0, len(input.Answers))
	for _, answer := range input.Answers {
		question, ok := n.questions[strings.ToUpper(strings.TrimSpace(answer.QuestionID))]
		if !ok {
			logger.Warn("score: unknown question id skipped", "question", answer.QuestionID, "submission", input.SubmissionID)
			continue
		}
		category, ok := taxonomy.CategoryByCode(question.Category)
		if !ok {
			logger.Warn("score: question references unknown category", "question", question.ID, "category", question.Category)
			continue
		}
		responses = append(responses, NormalizedResponse{
			QuestionID: question.ID,
			Category:   category.Code,
			Chapter:    category.Chapter,
			RawValue:   answer.Value,
			Score:      normalizeValue(answer.Value, question),
			Weight:     question.Weight,
			IsEstimate: answer.IsEstimate,
			FollowUp:   strings.TrimSpace(answer.FollowUp),
		})
	}
	if len(responses) == 0 {
		return Phase0Output{}, fmt.Errorf("no answers matched the question catalog")
	}

	categoryScores := AggregateCategories(responses)
	chapterScores := aggregateChapters(responses, categoryScores)
	overall := weightedOverall(responses, categoryScores)

	logger.Info("score: normalization complete",
		"submission", input.SubmissionID,
		"responses", len(responses),
		"categories", len(categoryScores),
		"overall", overall)

	return Phase0Output{
		SubmissionID:   input.SubmissionID,
		Business:       input.Business,
		Responses:      responses,
		CategoryScores: categoryScores,
		ChapterScores:  chapterScores,
		OverallScore:   overall,
		Metadata:       Metadata{ProcessedAt: time.Now().UTC(), Version: normalizerVersion},
	}, nil
}

func normalizeValue(value float64, q Question) float64 {
	span := q.MaxValue - q.MinValue
	if span <= 0 {
		return 0
	}
	scaled := (value - q.MinValue) / span * 100
	scaled = math.Max(0, math.Min(100, scaled))
	if q.Invert {
		scaled = 100 - scaled
	}
	return round1(scaled)
}

// AggregateCategories computes the weighted mean score per category.
func AggregateCategories(responses []NormalizedResponse) map[string]float64 {
	sums := make(map[string]float64)
	weights := make(map[string]float64)
	for _, r := range responses {
		if r.Weight <= 0 {
			continue
		}
		sums[r.Category] += r.Score * r.Weight
		weights[r.Category] += r.Weight
	}
	scores := make(map[string]float64, len(sums))
	for code, sum := range sums {
		scores[code] = round1(sum / weights[code])
	}
	return scores
}

// aggregateChapters rolls category scores up into chapters, weighting each
// category by the total answer weight it accumulated.
func aggregateChapters(responses []NormalizedResponse, categoryScores map[string]float64) map[string]float64 {
	categoryWeight := make(map[string]float64)
	for _, r := range responses {
		categoryWeight[r.Category] += r.Weight
	}
	sums := make(map[string]float64)
	weights := make(map[string]float64)
	for _, chapter := range taxonomy.Chapters() {
		for _, code := range chapter.Categories {
			score, ok := categoryScores[code]
			if !ok {
				continue
			}
			w := categoryWeight[code]
			if w <= 0 {
				continue
			}
			sums[chapter.Code] += score * w
			weights[chapter.Code] += w
		}
	}
	scores := make(map[string]float64, len(sums))
	for code, sum := range sums {
		scores[code] = round1(sum / weights[code])
	}
	return scores
}

func weightedOverall(responses []NormalizedResponse, categoryScores map[string]float64) float64 {
	categoryWeight := make(map[string]float64)
	for _, r := range responses {
		categoryWeight[r.Category] += r.Weight
	}
	codes := make([]string, 0, len(categoryScores))
	for code := range categoryScores {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	var sum, weight float64
	for _, code := range codes {
		w := categoryWeight[code]
		if w <= 0 {
			continue
		}
		sum += categoryScores[code] * w
		weight += w
	}
	if weight <= 0 {
		return 0
	}
	return round1(sum / weight)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
