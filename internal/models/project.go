package models

// Project identifies the GitLab project the dashboard is watching.
// It is resolved once per session.
type Project struct {
	ID                int
	Name              string
	PathWithNamespace string
	WebURL            string
	DefaultBranch     string
}

// User is optional author metadata used for avatars
type User struct {
	ID        int
	Username  string
	Name      string
	State     string
	AvatarURL string
	WebURL    string
}
