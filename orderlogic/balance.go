package orderlogic

// Balance keeps the three-way relationship between order total, amount
// paid, pending-cheque balance and credit balance. Credit is always the
// derived field: editing cheque or paid recomputes it so that
// paid + cheque + credit == total whenever the entries are consistent.
type Balance struct {
	Total      float64
	AmountPaid float64
	Cheque     float64
	Credit     float64
}

// NewBalance derives the credit balance from total, paid and cheque.
func NewBalance(total, paid, cheque float64) Balance {
	b := Balance{Total: total, AmountPaid: clampAmount(paid), Cheque: clampAmount(cheque)}
	return b.derive()
}

// SetCheque updates the pending-cheque balance and recomputes credit.
func (b Balance) SetCheque(v float64) Balance {
	b.Cheque = clampAmount(v)
	return b.derive()
}

// SetPaid updates the amount paid and recomputes credit.
func (b Balance) SetPaid(v float64) Balance {
	b.AmountPaid = clampAmount(v)
	return b.derive()
}

func (b Balance) derive() Balance {
	credit := b.Total - b.AmountPaid - b.Cheque
	if credit < 0 {
		credit = 0
	}
	b.Credit = credit
	return b
}

// NeedsConfirmation reports an inconsistent manual entry where the
// unpaid balances exceed the order total. The save is not blocked, only
// gated on an explicit confirmation.
func (b Balance) NeedsConfirmation() bool {
	return b.Cheque+b.Credit > b.Total
}

// Outstanding is the unpaid remainder tracked on the order row.
func (b Balance) Outstanding() float64 {
	return b.Cheque + b.Credit
}

func clampAmount(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
