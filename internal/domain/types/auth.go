package types

// Profile is the authenticated user as returned by the login endpoint and
// persisted alongside the access token.
type Profile struct {
	ID       UserID `json:"id"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// DisplayName returns "Name Surname", falling back to the username.
func (p Profile) DisplayName() string {
	switch {
	case p.Name != "" && p.Surname != "":
		return p.Name + " " + p.Surname
	case p.Name != "":
		return p.Name
	default:
		return p.Username
	}
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the login response body.
type LoginResult struct {
	Message     string  `json:"message"`
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   int64   `json:"expires_in"`
	User        Profile `json:"user"`
}
