package entity

type Hospital struct {
	Base
	Name     string  `db:"name"`
	Location string  `db:"location"`
	Phone    *string `db:"phone"`
	Email    *string `db:"email"`
	IsActive bool    `db:"is_active"`
}
