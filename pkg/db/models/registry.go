package models

// All lists every persisted model, in dependency order, for schema bootstrapping
// on SQLite where goose migrations are not used.
func All() []any {
	return []any{
		&Client{},
		&Product{},
		&Order{},
		&OrderLine{},
		&RevenueEntry{},
		&StockMovement{},
	}
}
