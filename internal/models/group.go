package models

// Group represents a set of members who split expenses together.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group.
	Name string `json:"name"`

	// Description is optional.
	Description string `json:"description,omitempty"`

	// AdminUID is the user who created the group. Admin-only operations
	// (member removal, settlement reset) check against this.
	AdminUID string `json:"admin_uid"`

	// Currency is the group's standard currency. All expense amounts are
	// converted into it when cached on the expense record.
	Currency string `json:"currency"`

	// InviteCode is a short shared secret members use to join.
	// This is the payload an invite QR code would carry.
	InviteCode string `json:"invite_code"`

	// Members is the list of user UIDs that belong to this group.
	// Maintained with set semantics: adding an existing member is a no-op.
	Members []string `json:"members"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}

// HasMember reports whether uid belongs to the group.
func (g *Group) HasMember(uid string) bool {
	for _, m := range g.Members {
		if m == uid {
			return true
		}
	}
	return false
}
