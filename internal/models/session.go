package models

// Session is the snapshot of who is logged in. It is written at signup and
// login and is not re-validated against the account collections afterwards.
type Session struct {
	LoggedIn bool          `json:"loggedIn"`
	Role     Role          `json:"role,omitempty"`
	User     *Account      `json:"user,omitempty"`
	Coach    *CoachAccount `json:"coach,omitempty"`
}

func (s Session) AccountID() string {
	switch {
	case s.Role == RoleCoach && s.Coach != nil:
		return s.Coach.ID
	case s.Role == RoleUser && s.User != nil:
		return s.User.ID
	}
	return ""
}

func (s Session) DisplayName() string {
	switch {
	case s.Role == RoleCoach && s.Coach != nil:
		return s.Coach.Name
	case s.Role == RoleUser && s.User != nil:
		return s.User.Name
	}
	return ""
}
