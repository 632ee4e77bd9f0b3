package models

import "strings"

// User is one directory entry. Identity is positional: a record has no ID
// and is addressed by its row index in the directory.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Field names a searchable User column
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
)

// SearchableFields lists every column in display order
var SearchableFields = []Field{FieldName, FieldEmail}

// ValidFields defines the accepted search column names
var ValidFields = map[Field]bool{
	FieldName:  true,
	FieldEmail: true,
}

// Value returns the column value of u for field f, or "" for an unknown field
func (u User) Value(f Field) string {
	switch f {
	case FieldName:
		return u.Name
	case FieldEmail:
		return u.Email
	default:
		return ""
	}
}

// ParseFields splits a comma separated column list. An empty string yields
// an empty (non-nil) slice. Unknown names are returned in the second value.
func ParseFields(raw string) ([]Field, []string) {
	fields := make([]Field, 0, len(SearchableFields))
	var unknown []string
	seen := make(map[Field]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		f := Field(part)
		if !ValidFields[f] {
			unknown = append(unknown, part)
			continue
		}
		if !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}
	return fields, unknown
}

// SeedUser is one element of the remote seed payload. Only name and email
// are read; everything else the source sends is ignored.
type SeedUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToUser converts a seed payload element into a directory record
func (s SeedUser) ToUser() User {
	return User{Name: s.Name, Email: s.Email}
}
