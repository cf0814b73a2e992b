package types

// Sign is a registered trademark-like record.
type Sign struct {
	ID       SignID `json:"id"`
	SignName string `json:"sign_name"`
	Status   bool   `json:"status"`
}

// Owner is the backend user a sign belongs to.
type Owner struct {
	ID      UserID `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Status  bool   `json:"status"`
}

// SignRecord pairs a sign with its owner, as listed by the backend.
type SignRecord struct {
	Sign Sign  `json:"sign"`
	User Owner `json:"user"`
}

// SignDraft is the in-progress state of the creation form and the body of
// the create request.
type SignDraft struct {
	SignName string `json:"sign_name"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

// DraftOf returns the editable fields of a record.
func DraftOf(r SignRecord) SignDraft {
	return SignDraft{
		SignName: r.Sign.SignName,
		Name:     r.User.Name,
		Surname:  r.User.Surname,
		Email:    r.User.Email,
		Address:  r.User.Address,
	}
}

// SignPatch is a partial update; nil fields are left untouched.
type SignPatch struct {
	SignName *string `json:"sign_name,omitempty"`
	Name     *string `json:"name,omitempty"`
	Surname  *string `json:"surname,omitempty"`
	Email    *string `json:"email,omitempty"`
	Address  *string `json:"address,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p SignPatch) Empty() bool {
	return p.SignName == nil && p.Name == nil && p.Surname == nil &&
		p.Email == nil && p.Address == nil && p.Password == nil
}

// SignResult is the body returned by create, get and update.
type SignResult struct {
	Message            string `json:"message"`
	Sign               Sign   `json:"sign"`
	User               Owner  `json:"user"`
	UserCreated        *bool  `json:"user_created,omitempty"`
	CredentialsCreated *bool  `json:"credentials_created,omitempty"`
	Note               string `json:"note,omitempty"`
}

// Record drops the response metadata.
func (r SignResult) Record() SignRecord {
	return SignRecord{Sign: r.Sign, User: r.User}
}

// SignList is the envelope of the list endpoint. Older backends send the
// records under "signs" with a "total" count instead of "data".
type SignList struct {
	Success    bool         `json:"success"`
	Data       []SignRecord `json:"data"`
	StatusCode int          `json:"status_code"`

	Message string       `json:"message,omitempty"`
	Total   int          `json:"total,omitempty"`
	Signs   []SignRecord `json:"signs,omitempty"`
}

// Records returns whichever record list the envelope carries.
func (l SignList) Records() []SignRecord {
	if l.Data != nil {
		return l.Data
	}
	return l.Signs
}
