package models

// AllModels lists every persisted entity in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&RefreshToken{},
		&BusinessInfo{},
		&Category{},
		&MenuItem{},
		&Customer{},
		&CustomerAddress{},
		&Rider{},
		&Order{},
		&OrderItem{},
		&OrderEditHistory{},
		&Expense{},
	}
}
