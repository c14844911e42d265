package user

type (
	// CreateRequest is the createUser payload. Role and presence are
	// not accepted here; the server assigns them.
	CreateRequest struct {
		Username      string `json:"username"`
		Email         string `json:"email"`
		RecoveryEmail string `json:"email_recuperacion,omitempty"`
		Password      string `json:"password"`
	}

	// UpdateRequest is the updateUser payload; absent fields stay
	// untouched. The target id comes from the URL.
	UpdateRequest struct {
		Username      *string `json:"username,omitempty"`
		Email         *string `json:"email,omitempty"`
		RecoveryEmail *string `json:"email_recuperacion,omitempty"`
		Password      *string `json:"password,omitempty"`
		Role          *string `json:"rol,omitempty"`
		Online        *bool   `json:"online,omitempty"`
	}
)
