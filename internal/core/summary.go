package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Summary aggregates a list of transactions.
type Summary struct {
	Count        int
	TotalIncome  Money
	TotalExpense Money
	Net          Money
	ByCategory   []CategoryAmount // expense totals, largest first
}
