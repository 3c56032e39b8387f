package checkin

// Actor identifies who owns a countdown or raised an alert.
type Actor struct {
	// Hostname is the machine name where the action was performed.
	Hostname string `json:"hostname"`
	// Username is the system user who triggered the action.
	Username string `json:"username"`
}

// Key returns the session key of the actor in the username@hostname form.
func (a *Actor) Key() string {
	if a == nil {
		return ""
	}

	return a.Username + "@" + a.Hostname
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}
