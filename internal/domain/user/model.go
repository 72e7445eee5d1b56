package user

// Principal is the authenticated caller attached to a request after token
// introspection.
type Principal struct {
	UserID      string
	DisplayName string
	Email       string
	Admin       bool
}
