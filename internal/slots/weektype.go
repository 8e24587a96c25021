package slots

import (
	"math"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

const (
	greatProfitChange       = 50.0
	challengingRevenueDrop  = -30.0
	quietRevenueChangeLimit = 10.0
)

// DetermineWeekType classifies a period. The ladder is ordered and the
// first matching rung wins.
func DetermineWeekType(profit, profitChange, revenue, revenueChange float64, isPersonalBest bool) domain.WeekType {
	switch {
	case isPersonalBest:
		return domain.WeekGreat
	case profit > 0 && profitChange > greatProfitChange:
		return domain.WeekGreat
	case profit < 0, revenue == 0, revenueChange < challengingRevenueDrop:
		return domain.WeekChallenging
	case revenue > 0 && math.Abs(revenueChange) < quietRevenueChangeLimit && profit >= 0:
		return domain.WeekQuiet
	default:
		return domain.WeekGood
	}
}
