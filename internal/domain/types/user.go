package types

// User is an account managed through the users endpoints.
type User struct {
	ID       UserID `json:"id"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// UserDraft is the body of the create user request.
type UserDraft struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// UserPatch is a partial user update; nil fields are left untouched.
type UserPatch struct {
	Name     *string `json:"name,omitempty"`
	Surname  *string `json:"surname,omitempty"`
	Email    *string `json:"email,omitempty"`
	Address  *string `json:"address,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Surname == nil && p.Email == nil &&
		p.Address == nil && p.Password == nil
}
