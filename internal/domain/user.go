package domain

// User is the profile snapshot held by a session.
type User struct {
	ID          string   `json:"id" yaml:"id"`
	Email       string   `json:"email" yaml:"email"`
	UserType    UserType `json:"user_type" yaml:"user_type"`
	IsApproved  bool     `json:"is_approved" yaml:"is_approved"`
	CompanyName string   `json:"company_name,omitempty" yaml:"company_name,omitempty"`
}

// Profile is the signup payload.
type Profile struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	UserType    UserType `json:"user_type"`
	CompanyName string   `json:"company_name,omitempty"`
	Username    string   `json:"username,omitempty"`
	CRNumber    string   `json:"cr_number,omitempty"`
	Country     string   `json:"country,omitempty"`
}

// AuthResult is the body returned by the login and signup endpoints.
type AuthResult struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}
