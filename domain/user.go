package domain

// User is the acting, signed-in user.
type User struct {
	ID   string
	Name string
}

// Authenticated reports whether the user has an identity.
func (u User) Authenticated() bool {
	return u.ID != ""
}

// Profile is a user's public profile.
type Profile struct {
	ID        string
	Name      string
	Email     string
	Bio       string
	Skills    []string
	Followers []string
	Following []string
}

// IsFollowedBy reports whether userID follows this profile.
func (p Profile) IsFollowedBy(userID string) bool {
	for _, id := range p.Followers {
		if id == userID {
			return true
		}
	}
	return false
}
