package user

// SetUsername returns an UpdateSetter that sets the user's username.
func SetUsername(username string) UpdateSetter {
	return func(u *User) error {
		if userValidator.Var(username, "notblank,max=255") != nil {
			return ErrInvalidUsername
		}
		u.Username = username
		return nil
	}
}

// SetPassword returns an UpdateSetter that re-hashes the user's password.
func SetPassword(password string) UpdateSetter {
	return func(u *User) error {
		return u.SetPassword(password)
	}
}

// SetRole returns an UpdateSetter that changes the user's role.
func SetRole(role Role) UpdateSetter {
	return func(u *User) error {
		if !role.IsValid() {
			return ErrInvalidRole
		}
		u.Role = role
		return nil
	}
}

// SetActive returns an UpdateSetter that sets the user's active status.
func SetActive(active bool) UpdateSetter {
	return func(u *User) error {
		u.IsActive = active
		return nil
	}
}
