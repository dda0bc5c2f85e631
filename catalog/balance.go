package catalog

// Balance holds the user's currency balance.
// It changes only on a fresh fetch or a confirmed purchase.
type Balance struct {
	amount int64
}

// Set overwrites the balance with a freshly fetched value
func (b *Balance) Set(amount int64) {
	if amount < 0 {
		amount = 0
	}
	b.amount = amount
}

// Debit subtracts amount, never going below zero
func (b *Balance) Debit(amount int64) {
	if amount <= 0 {
		return
	}
	if amount > b.amount {
		b.amount = 0
		return
	}
	b.amount -= amount
}

// Amount returns the current balance
func (b *Balance) Amount() int64 {
	return b.amount
}

// CanAfford reports whether price fits in the current balance
func (b *Balance) CanAfford(price int64) bool {
	return price <= b.amount
}
