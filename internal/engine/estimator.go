package engine

// Probability clamp avoids presenting an order as 100% certain or 0% certain
// to complete at either extreme.
const (
	minFulfillmentProbability = 5
	maxFulfillmentProbability = 95
)

// FulfillmentProbability maps a finalized risk score to a delivery-completion
// probability. Monotonically non-increasing in score. Call only after factor
// aggregation; the score must be final.
func FulfillmentProbability(score int) int {
	p := 100 - score
	if p < minFulfillmentProbability {
		return minFulfillmentProbability
	}
	if p > maxFulfillmentProbability {
		return maxFulfillmentProbability
	}
	return p
}
