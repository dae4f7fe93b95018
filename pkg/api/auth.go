package api

// User is the public view of an account.
type User struct {
	ID             string          `json:"id"`
	Email          string          `json:"email,omitempty"`
	Username       string          `json:"username"`
	DisplayName    string          `json:"displayName"`
	PaymentDetails *PaymentAccount `json:"paymentDetails,omitempty"`
	CreatedAt      int64           `json:"createdAt,omitempty"`
}

// PaymentAccount holds the bank details clients render into a payment QR code.
type PaymentAccount struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// LoginRequest identifies the account by email or username.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type UpdatePaymentDetailsRequest struct {
	PaymentDetails PaymentAccount `json:"paymentDetails"`
}

type UpdatePaymentDetailsResponse struct {
	User *User `json:"user"`
}

// GetUsersRequest resolves user IDs to their public profiles.
type GetUsersRequest struct {
	UserIDs []string `json:"userIds"`
}

type GetUsersResponse struct {
	Users []*User `json:"users"`
}
