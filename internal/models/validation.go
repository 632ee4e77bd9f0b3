package models

// ValidationField identifies which input failed validation on insert
type ValidationField string

const (
	FieldNameFormat  ValidationField = "name-format"
	FieldEmailFormat ValidationField = "email-format"
)

// ValidationMessages are the user-facing hints shown next to each failed field
var ValidationMessages = map[ValidationField]string{
	FieldNameFormat:  "Enter your name and surname separated by a space.",
	FieldEmailFormat: "Enter a valid e-mail address.",
}

// NewUserRequest is the body of an insert request
type NewUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SearchResponse is the API response for a directory search
type SearchResponse struct {
	Users   []User `json:"users"`
	Matches int    `json:"matches"`
	Total   int    `json:"total"`
}

// InsertResponse is the API response for a successful insert
type InsertResponse struct {
	User  User `json:"user"`
	Count int  `json:"count"`
}
