package types

// User represents a person whose trainings are tracked.
type User struct {
	// ID is the unique identifier of the user. It is assigned by storage on
	// creation; zero means the user has not been persisted yet.
	ID int64 `json:"id" db:"id"`

	// FirstName is the user's given name.
	FirstName string `json:"firstName" db:"first_name"`

	// LastName is the user's family name.
	LastName string `json:"lastName" db:"last_name"`

	// Birthdate is the user's calendar date of birth.
	Birthdate Date `json:"birthdate" db:"birthdate"`

	// Email is the user's email address. It is unique across all users;
	// uniqueness is enforced by storage.
	Email string `json:"email" db:"email"`
}

// UserTransfer is the wire representation of a User.
type UserTransfer struct {
	// ID is present for persisted users and may be supplied by clients.
	ID *int64 `json:"id,omitempty"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Birthdate Date   `json:"birthdate"`
	Email     string `json:"email"`
}
