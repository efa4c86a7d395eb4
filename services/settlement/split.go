package settlement

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Split divides price into the platform commission and the instructor share.
// The commission is rounded to cents and the share takes the remainder, so
// commission + share == price always holds.
func Split(price decimal.Decimal, commissionPercent int64) (commission, share decimal.Decimal) {
	commission = price.Mul(decimal.NewFromInt(commissionPercent)).Div(hundred).Round(2)
	share = price.Sub(commission)
	return commission, share
}
