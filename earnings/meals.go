package earnings

import (
	"github.com/shopspring/decimal"
)

// MealSource says where a slot's amount came from.
type MealSource string

const (
	MealNone    MealSource = ""
	MealCash    MealSource = "cash"
	MealVoucher MealSource = "voucher"
)

// MealSlot is one resolved meal.
type MealSlot struct {
	Amount decimal.Decimal
	Source MealSource
}

// MealBreakdown is the day's non-taxable meal reimbursement.
type MealBreakdown struct {
	Lunch  MealSlot
	Dinner MealSlot
	Total  decimal.Decimal
	Cash    decimal.Decimal
	Voucher decimal.Decimal
}

// ResolveMeal applies the priority chain for one slot: entry cash, then the
// voucher default when the voucher flag is set, then the cash default.
// Cash and voucher never combine.
func ResolveMeal(claim MealClaim, def MealDefaults) MealSlot {
	if claim.Cash != nil && claim.Cash.IsPositive() {
		return MealSlot{Amount: *claim.Cash, Source: MealCash}
	}
	if claim.Voucher && def.Voucher.IsPositive() {
		return MealSlot{Amount: def.Voucher, Source: MealVoucher}
	}
	if def.Cash.IsPositive() {
		return MealSlot{Amount: def.Cash, Source: MealCash}
	}
	return MealSlot{Amount: decimal.Zero}
}

// AggregateMeals resolves lunch and dinner independently and sums them.
func AggregateMeals(lunch, dinner MealClaim, cfg MealConfig) MealBreakdown {
	out := MealBreakdown{
		Lunch:  ResolveMeal(lunch, cfg.Lunch),
		Dinner: ResolveMeal(dinner, cfg.Dinner),
	}
	out.Cash, out.Voucher = decimal.Zero, decimal.Zero
	for _, slot := range []MealSlot{out.Lunch, out.Dinner} {
		switch slot.Source {
		case MealCash:
			out.Cash = out.Cash.Add(slot.Amount)
		case MealVoucher:
			out.Voucher = out.Voucher.Add(slot.Amount)
		}
	}
	out.Total = out.Cash.Add(out.Voucher)
	return out
}
