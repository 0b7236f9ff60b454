package entities

// User is an account that can apply to campaigns.
type User struct {
	ID       int64
	Username string
	Email    string
	Password string
}

type NewUser struct {
	Username string
	Email    string
	Password string
}

type UserPatch struct {
	Username Optional[string]
	Email    Optional[string]
	Password Optional[string]
}

func (p UserPatch) IsEmpty() bool {
	return !p.Username.Set && !p.Email.Set && !p.Password.Set
}
