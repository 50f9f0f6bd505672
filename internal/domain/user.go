package domain

// User is the profile shown on /profile.
type User struct {
	ID        string
	Name      string
	Position  string
	Phone     string
	Email     *string
	BirthDate *string
	City      *string
	Education *string
	Avatar    *string
}

// ProfileField is a labelled optional profile value.
type ProfileField struct {
	Label string
	Value string
}

// ProfileFields returns the optional fields that are set, in display order.
func (u *User) ProfileFields() []ProfileField {
	var out []ProfileField
	add := func(label string, v *string) {
		if v != nil && *v != "" {
			out = append(out, ProfileField{Label: label, Value: *v})
		}
	}
	add("Email", u.Email)
	add("Birth date", u.BirthDate)
	add("City", u.City)
	add("Education", u.Education)
	return out
}
