package domain

// Roles
const (
	RoleCustomer = "customer"
	RoleGymOwner = "gym_owner"
	RoleAdmin    = "admin"
)
