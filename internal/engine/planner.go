package engine

import (
	"fmt"

	"dealerops/internal/models"
)

// Planner selects exactly one next-best-action per order from an ordered rule
// table. Rules are evaluated top to bottom and the first match wins: several
// factors are often simultaneously true, but only one action is surfaced.
type Planner struct {
	rules []actionRule
}

type ruleInput struct {
	Order      models.Order
	Assessment RiskAssessment
	factors    map[string]RiskFactor
}

func (in ruleInput) factor(name string) (RiskFactor, bool) {
	f, ok := in.factors[name]
	return f, ok
}

type actionRule struct {
	Name  string
	When  func(ruleInput) bool
	Build func(ruleInput) NextBestAction
}

func NewPlanner() *Planner {
	return &Planner{rules: defaultRules()}
}

// Plan is pure and total: it always returns exactly one action, with the
// neutral "no action required" value as the floor.
func (p *Planner) Plan(order models.Order, assessment RiskAssessment) NextBestAction {
	in := ruleInput{
		Order:      order,
		Assessment: assessment,
		factors:    map[string]RiskFactor{},
	}
	for _, f := range assessment.Factors {
		in.factors[f.Name] = f
	}
	for _, rule := range p.rules {
		if rule.When(in) {
			return rule.Build(in)
		}
	}
	return noActionRequired()
}

func defaultRules() []actionRule {
	return []actionRule{
		{
			Name: "financing_follow_up",
			When: func(in ruleInput) bool {
				_, ok := in.factor(FactorFinancingStall)
				return ok
			},
			Build: func(in ruleInput) NextBestAction {
				f, _ := in.factor(FactorFinancingStall)
				msg := fmt.Sprintf(
					"Hi %s, I wanted to check in on your financing application for the %s %s. Can I help move it along?",
					in.Order.Customer.Name, in.Order.Vehicle.Make, in.Order.Vehicle.Model,
				)
				return NextBestAction{
					Action:           "Follow up on financing",
					Channel:          models.ChannelCall,
					Urgency:          UrgencyNow,
					SuggestedMessage: &msg,
					ExpectedImpact:   "Unblocks the deal before approval probability drops further",
					Reasoning:        fmt.Sprintf("%s; approval probability drops sharply after day 3", f.Description),
				}
			},
		},
		{
			Name: "re_engage",
			When: func(in ruleInput) bool {
				_, ok := in.factor(FactorContactRecency)
				return ok && in.Assessment.Level == RiskLevelHigh
			},
			Build: func(in ruleInput) NextBestAction {
				f, _ := in.factor(FactorContactRecency)
				msg := fmt.Sprintf(
					"Hi %s, it has been a while since we last spoke about your %s %s. Is there anything holding you back that I can help with?",
					in.Order.Customer.Name, in.Order.Vehicle.Make, in.Order.Vehicle.Model,
				)
				return NextBestAction{
					Action:           "Reach out to re-engage",
					Channel:          models.ChannelCall,
					Urgency:          UrgencyToday,
					SuggestedMessage: &msg,
					ExpectedImpact:   "Restores contact before the customer disengages for good",
					Reasoning:        f.Description,
				}
			},
		},
		{
			Name: "address_concern",
			When: func(in ruleInput) bool {
				_, ok := in.factor(FactorNegativeSentiment)
				return ok
			},
			Build: func(in ruleInput) NextBestAction {
				f, _ := in.factor(FactorNegativeSentiment)
				channel := preferredOrCall(in.Order, models.ChannelCall, models.ChannelWhatsApp)
				msg := fmt.Sprintf(
					"Hi %s, I understand our last interaction did not go as well as it should have. I would like to make it right - when is a good time to talk?",
					in.Order.Customer.Name,
				)
				return NextBestAction{
					Action:           "Address customer concern",
					Channel:          channel,
					Urgency:          UrgencyToday,
					SuggestedMessage: &msg,
					ExpectedImpact:   "Defuses dissatisfaction before it turns into a cancellation",
					Reasoning:        f.Description,
				}
			},
		},
		{
			Name: "move_forward",
			When: func(in ruleInput) bool {
				_, ok := in.factor(FactorStageDwell)
				return ok && in.Assessment.Level != RiskLevelLow
			},
			Build: func(in ruleInput) NextBestAction {
				f, _ := in.factor(FactorStageDwell)
				channel := preferredOrCall(in.Order, models.ChannelCall, models.ChannelWhatsApp, models.ChannelEmail)
				msg := fmt.Sprintf(
					"Hi %s, your %s %s order is waiting on the next step. Shall we schedule a time this week to move it forward?",
					in.Order.Customer.Name, in.Order.Vehicle.Make, in.Order.Vehicle.Model,
				)
				return NextBestAction{
					Action:           "Move order forward",
					Channel:          channel,
					Urgency:          UrgencyThisWeek,
					SuggestedMessage: &msg,
					ExpectedImpact:   "Clears the stalled pipeline stage",
					Reasoning:        f.Description,
				}
			},
		},
		{
			Name: "on_track",
			When: func(in ruleInput) bool {
				return len(in.Assessment.Factors) == 0
			},
			Build: func(ruleInput) NextBestAction {
				return noActionRequired()
			},
		},
		{
			// Factors fired but none of the actionable rules matched
			// (e.g. only high_value, or contact silence at MEDIUM risk).
			Name: "monitor",
			When: func(ruleInput) bool { return true },
			Build: func(in ruleInput) NextBestAction {
				reasoning := "Order carries risk factors below action thresholds"
				if len(in.Assessment.Factors) > 0 {
					reasoning = in.Assessment.Factors[0].Description
				}
				return NextBestAction{
					Action:         "Monitor order",
					Channel:        models.ChannelSystem,
					Urgency:        UrgencyThisWeek,
					ExpectedImpact: "Keeps the order on the radar without interrupting the customer",
					Reasoning:      reasoning,
				}
			},
		},
	}
}

func noActionRequired() NextBestAction {
	return NextBestAction{
		Action:         "No action required",
		Channel:        models.ChannelSystem,
		Urgency:        UrgencyThisWeek,
		ExpectedImpact: "Order is on track",
		Reasoning:      "No risk factors fired for this order",
	}
}

// preferredOrCall returns the customer's preferred channel when it is one of
// the allowed channels for the rule, else CALL.
func preferredOrCall(order models.Order, allowed ...string) string {
	pref := order.Customer.PreferredChannel
	if pref == nil {
		return models.ChannelCall
	}
	for _, ch := range allowed {
		if *pref == ch {
			return ch
		}
	}
	return models.ChannelCall
}
