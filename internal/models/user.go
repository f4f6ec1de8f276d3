package models

// Role is a staff role within the console.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "receptionist"
)

// User is the authenticated staff identity held by the session store.
// Receptionists are bound to a single hotel; admins are not.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	HotelID int64  `json:"hotel_id,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsReceptionist() bool {
	return u != nil && u.Role == RoleReceptionist
}
