package engine

import "testing"

func TestScore_EmptyFactors(t *testing.T) {
	got := Score(nil)
	if got.Score != 0 || got.Level != RiskLevelLow {
		t.Fatalf("got=%+v want score=0 level=LOW", got)
	}
}

func TestScore_ClampsToBounds(t *testing.T) {
	got := Score([]RiskFactor{{Name: "a", Weight: 80}, {Name: "b", Weight: 60}})
	if got.Score != 100 {
		t.Fatalf("score=%d want=100", got.Score)
	}
	got = Score([]RiskFactor{{Name: "a", Weight: -20}})
	if got.Score != 0 {
		t.Fatalf("score=%d want=0", got.Score)
	}
}

func TestLevelFor_Thresholds(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, RiskLevelLow},
		{39, RiskLevelLow},
		{40, RiskLevelMedium},
		{69, RiskLevelMedium},
		{70, RiskLevelHigh},
		{100, RiskLevelHigh},
	}
	for _, tc := range cases {
		if got := LevelFor(tc.score); got != tc.want {
			t.Fatalf("LevelFor(%d)=%s want=%s", tc.score, got, tc.want)
		}
	}
}

func TestFulfillmentProbability_ClampAndMonotone(t *testing.T) {
	if got := FulfillmentProbability(0); got != 95 {
		t.Fatalf("prob(0)=%d want=95", got)
	}
	if got := FulfillmentProbability(100); got != 5 {
		t.Fatalf("prob(100)=%d want=5", got)
	}
	prev := 101
	for score := 0; score <= 100; score++ {
		p := FulfillmentProbability(score)
		if p < 5 || p > 95 {
			t.Fatalf("prob(%d)=%d out of [5,95]", score, p)
		}
		if p > prev {
			t.Fatalf("probability increased with score: prob(%d)=%d prev=%d", score, p, prev)
		}
		prev = p
	}
}
