package dto

// AdminCreateRequest payload for admin creation and bootstrap.
type AdminCreateRequest struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Phone       string   `json:"phone"`
	Department  string   `json:"department"`
	Permissions []string `json:"permissions"`
}

// ListResponse is a paginated account listing.
type ListResponse struct {
	Items []UserResponse `json:"items"`
	Total int64          `json:"total"`
	Page  int64          `json:"page"`
	Limit int64          `json:"limit"`
}
