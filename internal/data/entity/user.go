package entity

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	Base
	FirstName    string   `db:"first_name"`
	LastName     string   `db:"last_name"`
	Phone        string   `db:"phone"` // normalized, 7XXXXXXXXXX
	PasswordHash string   `db:"password"`
	Role         UserRole `db:"role"`
	IsActive     bool     `db:"is_active"`
}
