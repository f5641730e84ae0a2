package models

// All lists every model for AutoMigrate, parents before children.
func All() []any {
	return []any{
		&Role{},
		&User{},
		&RefreshToken{},
		&Author{},
		&Genre{},
		&Book{},
		&Request{},
		&Loan{},
		&Fine{},
	}
}
