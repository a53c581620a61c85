package user

// Roles recognised by the access-control checks. New accounts default to
// RoleCustomer; admin accounts are promoted directly in the store.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID        int    `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Summary is the reduced user shape embedded in order responses.
type Summary struct {
	ID    int    `json:"userId"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Email: u.Email}
}
