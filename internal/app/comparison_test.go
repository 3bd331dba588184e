package app_test

import (
	"context"
	"math"
	"testing"

	"compare-quiz-service/internal/domain"
)

const tolerance = 1e-9

func TestScalarPercentileMidRank(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	// Population 10, 20, 20, 30. For the user who answered 20: one of the
	// other three is strictly below and one is tied, so the mid-rank
	// percentile is (1 + 0.5*1)/3 = 0.5.
	values := map[string]string{"u1": "10", "u2": "20", "u3": "20", "u4": "30"}
	for userID, value := range values {
		if _, err := service.Submit(ctx, userID, "scale-q1", value); err != nil {
			t.Fatalf("submit %s: %v", userID, err)
		}
	}

	report, err := service.Compare(ctx, "u2", "scale")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	entry := report.Questions[0]
	if entry.Style != domain.StyleScalar || entry.Scalar == nil {
		t.Fatalf("expected scalar entry, got %+v", entry)
	}
	if entry.Respondents != 4 {
		t.Fatalf("expected 4 respondents, got %d", entry.Respondents)
	}
	if math.Abs(entry.Scalar.Percentile-0.5) > tolerance {
		t.Fatalf("expected percentile 0.5, got %v", entry.Scalar.Percentile)
	}
	if math.Abs(entry.Scalar.Mean-20.0) > tolerance {
		t.Fatalf("expected mean 20, got %v", entry.Scalar.Mean)
	}
	if entry.Scalar.UserValue != 20 {
		t.Fatalf("expected raw value 20, got %d", entry.Scalar.UserValue)
	}

	// The extremes bracket the population: 10 sits below everyone else,
	// 30 above.
	low, err := service.Compare(ctx, "u1", "scale")
	if err != nil {
		t.Fatalf("compare u1: %v", err)
	}
	if p := low.Questions[0].Scalar.Percentile; math.Abs(p) > tolerance {
		t.Fatalf("expected percentile 0 for lowest value, got %v", p)
	}
	high, err := service.Compare(ctx, "u4", "scale")
	if err != nil {
		t.Fatalf("compare u4: %v", err)
	}
	if p := high.Questions[0].Scalar.Percentile; math.Abs(p-1.0) > tolerance {
		t.Fatalf("expected percentile 1 for highest value, got %v", p)
	}
}

func TestScalarSingleRespondent(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.Submit(ctx, "solo", "scale-q1", "42"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	report, err := service.Compare(ctx, "solo", "scale")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	entry := report.Questions[0]
	if entry.Respondents != 1 {
		t.Fatalf("expected 1 respondent, got %d", entry.Respondents)
	}
	if math.Abs(entry.Scalar.Percentile-0.5) > tolerance {
		t.Fatalf("expected defined percentile 0.5 with no peers, got %v", entry.Scalar.Percentile)
	}
	if math.Abs(entry.Scalar.Mean-42.0) > tolerance {
		t.Fatalf("expected mean 42, got %v", entry.Scalar.Mean)
	}
}

func TestCategoricalDistribution(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	// Three users finish the categorical quiz: q1 gets a,a,b and q2 gets x,y,y.
	answers := []struct{ user, q1, q2 string }{
		{"u1", "a", "x"},
		{"u2", "a", "y"},
		{"u3", "b", "y"},
	}
	for _, row := range answers {
		if _, err := service.Submit(ctx, row.user, "pair-q1", row.q1); err != nil {
			t.Fatalf("submit q1 %s: %v", row.user, err)
		}
		if _, err := service.Submit(ctx, row.user, "pair-q2", row.q2); err != nil {
			t.Fatalf("submit q2 %s: %v", row.user, err)
		}
	}

	report, err := service.Compare(ctx, "u2", "pair")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	q1 := report.Questions[0]
	if q1.Style != domain.StyleCategorical || q1.Categorical == nil {
		t.Fatalf("expected categorical entry, got %+v", q1)
	}
	if q1.Respondents != 3 {
		t.Fatalf("expected 3 respondents, got %d", q1.Respondents)
	}
	if q1.Categorical.UserChoiceID != "a" {
		t.Fatalf("expected user pick a, got %q", q1.Categorical.UserChoiceID)
	}
	if math.Abs(q1.Categorical.UserShare-2.0/3.0) > tolerance {
		t.Fatalf("expected user share 2/3, got %v", q1.Categorical.UserShare)
	}
	assertSharesSumToOne(t, q1.Categorical.Distribution)

	q2 := report.Questions[1]
	shares := shareByChoice(q2.Categorical.Distribution)
	if shares["x"].Count != 1 || shares["y"].Count != 2 || shares["z"].Count != 0 {
		t.Fatalf("unexpected counts: %+v", q2.Categorical.Distribution)
	}
	if math.Abs(shares["z"].Share) > tolerance {
		t.Fatalf("expected unpicked choice share 0, got %v", shares["z"].Share)
	}
	assertSharesSumToOne(t, q2.Categorical.Distribution)
}

func TestCategoricalSingleRespondent(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.Submit(ctx, "solo", "pair-q1", "b"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := service.Submit(ctx, "solo", "pair-q2", "z"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	report, err := service.Compare(ctx, "solo", "pair")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	entry := report.Questions[0]
	if entry.Respondents != 1 {
		t.Fatalf("expected single respondent, got %d", entry.Respondents)
	}
	if math.Abs(entry.Categorical.UserShare-1.0) > tolerance {
		t.Fatalf("expected a 100%% entry, got %v", entry.Categorical.UserShare)
	}
	assertSharesSumToOne(t, entry.Categorical.Distribution)
}

// TestCompareExcludesPartialRespondents checks that a user who abandoned the
// quiz after the first question counts for that question only.
func TestCompareExcludesPartialRespondents(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.Submit(ctx, "quitter", "pair-q1", "a"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := service.Submit(ctx, "finisher", "pair-q1", "b"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := service.Submit(ctx, "finisher", "pair-q2", "x"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	report, err := service.Compare(ctx, "finisher", "pair")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if report.Questions[0].Respondents != 2 {
		t.Fatalf("expected 2 respondents on q1, got %d", report.Questions[0].Respondents)
	}
	if report.Questions[1].Respondents != 1 {
		t.Fatalf("expected abandoner excluded from q2, got %d", report.Questions[1].Respondents)
	}
}

func assertSharesSumToOne(t *testing.T, distribution []domain.ChoiceShare) {
	t.Helper()
	sum := 0.0
	for _, share := range distribution {
		sum += share.Share
	}
	if math.Abs(sum-1.0) > tolerance {
		t.Fatalf("expected shares to sum to 1, got %v", sum)
	}
}

func shareByChoice(distribution []domain.ChoiceShare) map[string]domain.ChoiceShare {
	out := make(map[string]domain.ChoiceShare, len(distribution))
	for _, share := range distribution {
		out[share.ChoiceID] = share
	}
	return out
}
