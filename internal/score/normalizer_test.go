// File path: internal/score/normalizer_test.go
package score

import (
	"testing"

	"github.com/riventa/pulsecheck/internal/taxonomy"
)

func TestDefaultQuestionsCoverEveryCategory(t *testing.T) {
	perCategory := make(map[string]int)
	seen := make(map[string]bool)
	for _, q := range DefaultQuestions() {
		if seen[q.ID] {
			t.Fatalf("duplicate question id %s", q.ID)
		}
		seen[q.ID] = true
		if !taxonomy.ValidCategory(q.Category) {
			t.Fatalf("question %s references unknown category %s", q.ID, q.Category)
		}
		if q.MaxValue <= q.MinValue {
			t.Fatalf("question %s has empty value range", q.ID)
		}
		perCategory[q.Category]++
	}
	for _, cat := range taxonomy.Categories() {
		if perCategory[cat.Code] == 0 {
			t.Fatalf("category %s has no questions", cat.Code)
		}
	}
}

func TestNormalizeScoresStayInRange(t *testing.T) {
	questions := DefaultQuestions()
	answers := make([]Answer, 0, len(questions))
	for i, q := range questions {
		value := q.MinValue
		if i%2 == 0 {
			value = q.MaxValue
		}
		answers = append(answers, Answer{QuestionID: q.ID, Value: value})
	}
	input := QuestionnaireInput{
		SubmissionID: "sub-1",
		Business:     BusinessOverview{CompanyName: "Acme Tooling"},
		Answers:      answers,
	}
	out, err := NewNormalizer(nil).Normalize(input)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(out.Responses) != len(questions) {
		t.Fatalf("expected %d responses, got %d", len(questions), len(out.Responses))
	}
	for _, r := range out.Responses {
		if r.Score < 0 || r.Score > 100 {
			t.Fatalf("response %s score %.1f out of range", r.QuestionID, r.Score)
		}
	}
	for code, score := range out.CategoryScores {
		if score < 0 || score > 100 {
			t.Fatalf("category %s score %.1f out of range", code, score)
		}
	}
	if out.OverallScore < 0 || out.OverallScore > 100 {
		t.Fatalf("overall score %.1f out of range", out.OverallScore)
	}
	if len(out.ChapterScores) == 0 {
		t.Fatal("expected chapter scores")
	}
}

func TestNormalizeInvertedQuestion(t *testing.T) {
	questions := []Question{
		{ID: "Q1", Category: "RSK", Weight: 1, MinValue: 0, MaxValue: 10, Invert: true},
	}
	input := QuestionnaireInput{
		SubmissionID: "sub-2",
		Answers:      []Answer{{QuestionID: "Q1", Value: 10}},
	}
	out, err := NewNormalizer(questions).Normalize(input)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got := out.Responses[0].Score; got != 0 {
		t.Fatalf("inverted max answer should score 0, got %.1f", got)
	}
}

func TestNormalizeSkipsUnknownQuestions(t *testing.T) {
	input := QuestionnaireInput{
		SubmissionID: "sub-3",
		Answers: []Answer{
			{QuestionID: "STR-01", Value: 4},
			{QuestionID: "BOGUS-99", Value: 2},
		},
	}
	out, err := NewNormalizer(nil).Normalize(input)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(out.Responses) != 1 {
		t.Fatalf("expected unknown question to be skipped, got %d responses", len(out.Responses))
	}
}

func TestNormalizeRejectsEmptyInput(t *testing.T) {
	if _, err := NewNormalizer(nil).Normalize(QuestionnaireInput{SubmissionID: "sub-4"}); err == nil {
		t.Fatal("expected error for empty answers")
	}
	input := QuestionnaireInput{Answers: []Answer{{QuestionID: "STR-01", Value: 3}}}
	if _, err := NewNormalizer(nil).Normalize(input); err == nil {
		t.Fatal("expected error for missing submission id")
	}
}

func TestAggregateCategoriesWeightedMean(t *testing.T) {
	responses := []NormalizedResponse{
		{Category: "STR", Score: 100, Weight: 3},
		{Category: "STR", Score: 0, Weight: 1},
	}
	scores := AggregateCategories(responses)
	if got := scores["STR"]; got != 75 {
		t.Fatalf("expected weighted mean 75, got %.1f", got)
	}
}
