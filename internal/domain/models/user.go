// internal/domain/models/user.go
package models

// Roles a user can register with. Role is stored as given; these are the
// values the clients send.
const (
	RolePatient   = "patient"
	RoleCaretaker = "caretaker"
)

// User is a registered account.
//
// NOTE:
//   - Password holds a bcrypt hash. Documents written by older versions
//     may still carry a plaintext value; login accepts both.
type User struct {
	ID        string `bson:"id" json:"id"`
	Role      string `bson:"role" json:"role"`
	Name      string `bson:"name" json:"name"`
	Email     string `bson:"email" json:"email"`
	Password  string `bson:"password" json:"password"`
	CreatedAt int64  `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// Caretaker is the roster row appended when a user registers as a caretaker.
type Caretaker struct {
	ID        string `bson:"id" json:"id"`
	UserID    string `bson:"userId" json:"userId"`
	Name      string `bson:"name" json:"name"`
	Email     string `bson:"email" json:"email"`
	CreatedAt int64  `bson:"createdAt" json:"createdAt"`
}
