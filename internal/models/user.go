package models

// User represents a registered member.
//
// The balance engine only needs users for display-name and email resolution;
// authentication is handled outside this server.
type User struct {
	// UID is the unique identifier for the user.
	UID string `json:"uid"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address. Reminder emails are sent here.
	Email string `json:"email"`

	// Phone is optional.
	Phone string `json:"phone,omitempty"`
}

// DisplayName resolves the name shown for a user: name, then email, then UID.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.UID
}
