package auth

// Policy says who may call a route
type Policy uint8

const (
	// PolicyOpen routes run for anyone, the bearer token is not looked at
	PolicyOpen Policy = iota
	// PolicyAuthenticated routes need a valid token for an active user
	PolicyAuthenticated
	// PolicySelfScoped routes additionally require the :user_id path parameter to be the caller
	PolicySelfScoped
)

// UserIDParam is the path parameter self-scoped routes are checked against
const UserIDParam = "user_id"

func (p Policy) String() string {
	switch p {
	case PolicyOpen:
		return "open"
	case PolicyAuthenticated:
		return "authenticated"
	case PolicySelfScoped:
		return "self-scoped"
	}
	return "unknown"
}
