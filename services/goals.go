package services

import (
	"math"

	"eclipse-tracker/interfaces"
)

// CalcGoalProgress measures total P&L against a goal's target amount.
// Negative P&L never produces negative progress figures: remaining is capped
// at the full target and percent complete at [0, 100].
func CalcGoalProgress(totalPnL, goalAmount float64) interfaces.GoalProgress {
	progress := interfaces.GoalProgress{
		Remaining: math.Max(0, goalAmount-totalPnL),
	}
	if goalAmount > 0 {
		progress.PercentComplete = math.Min(100, math.Max(0, totalPnL)/goalAmount*100)
	}
	return progress
}

// CalcContractsNeeded sizes the contracts and capital needed to close a goal
// gap, assuming each contract returns avgReturnPercent on a premium of
// avgPremium per share. Non-positive assumptions yield the unachievable
// sentinel rather than an error; that is a normal steady state when the user
// has not entered projection inputs yet.
func CalcContractsNeeded(goalRemaining, avgReturnPercent, avgPremium float64) interfaces.GoalProjection {
	if avgReturnPercent <= 0 || avgPremium <= 0 {
		return interfaces.GoalProjection{Achievable: false}
	}

	profitPerContract := avgPremium * interfaces.ContractMultiplier * (avgReturnPercent / 100)
	contracts := int(math.Ceil(goalRemaining / profitPerContract))

	return interfaces.GoalProjection{
		Achievable:           true,
		ContractsNeeded:      contracts,
		TotalCapitalRequired: float64(contracts) * avgPremium * interfaces.ContractMultiplier,
		ProfitPerContract:    profitPerContract,
	}
}
