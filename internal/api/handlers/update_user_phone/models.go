package update_user_phone

// UpdatePhoneRequest HTTP request model
type UpdatePhoneRequest struct {
	Phone string `json:"phone"`
}

// UpdatePhoneResponse HTTP response model
type UpdatePhoneResponse struct {
	PhoneNumber string `json:"phone_number"`
}
