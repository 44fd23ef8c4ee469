package models

type Role string

const (
	RoleUser  Role = "user"
	RoleCoach Role = "coach"
)

// Account is a reviewer account. Password holds a bcrypt hash.
type Account struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ProfileImage string `json:"profileImage"`
}

type CoachAccount struct {
	Account
	LinkedCoachProfileID *string `json:"linkedCoachProfileId"`
}

func (a Account) WithoutPassword() Account {
	a.Password = ""
	return a
}

func (c CoachAccount) WithoutPassword() CoachAccount {
	c.Account = c.Account.WithoutPassword()
	if c.LinkedCoachProfileID != nil {
		id := *c.LinkedCoachProfileID
		c.LinkedCoachProfileID = &id
	}
	return c
}

func (c CoachAccount) LinkedProfile() string {
	if c.LinkedCoachProfileID == nil {
		return ""
	}
	return *c.LinkedCoachProfileID
}
