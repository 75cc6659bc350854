package goSessionClient

// User is the profile record owned by the [Store] while authenticated. It is
// mutated only through store actions, never directly by callers; accessors hand
// out copies.
type User struct {
	ID                  string   `json:"id"`
	FullName            string   `json:"fullName"`
	Email               string   `json:"email"`
	CurrentRole         string   `json:"currentRole"`
	Location            string   `json:"location"`
	Bio                 string   `json:"bio"`
	ExperienceLevel     string   `json:"experienceLevel,omitempty"`
	AvatarURL           string   `json:"avatarUrl,omitempty"`
	Role                string   `json:"role,omitempty"`
	Permissions         []string `json:"permissions,omitempty"`
	OnboardingCompleted bool     `json:"onboardingCompleted"`
}

func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.Permissions != nil {
		out.Permissions = append([]string(nil), u.Permissions...)
	}
	return &out
}

// CredentialPair is the access/refresh bearer token combination identifying a
// session to the backend. Both values are opaque; RefreshToken may be empty when
// the backend did not issue one.
type CredentialPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

func (c *CredentialPair) clone() *CredentialPair {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// SessionState is a point-in-time copy of the store's state cell, returned by
// [Store.State]. Mutating it has no effect on the store.
type SessionState struct {
	IsAuthenticated bool
	User            *User
	Credentials     *CredentialPair
	IsLoading       bool
	Error           string
	IsInitialized   bool
}

// LoginCredentials is the input for [Store.Login].
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupInput is the input for [Store.Signup]. Signup never authenticates; a
// successful signup is followed by an explicit login.
type SignupInput struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	Location        string `json:"location,omitempty"`
	CurrentRole     string `json:"currentRole,omitempty"`
	ExperienceLevel string `json:"experienceLevel,omitempty"`
}

// UserUpdate is the input for [Store.UpdateUser]. Nil fields are left untouched;
// non-nil fields are merged into the current user and persisted. The merge is
// local only and performs no network call.
type UserUpdate struct {
	FullName            *string
	Email               *string
	CurrentRole         *string
	Location            *string
	Bio                 *string
	ExperienceLevel     *string
	AvatarURL           *string
	OnboardingCompleted *bool
}

// UserStatus classifies the current user for routing decisions, evaluated by
// [Orchestrator.UserStatus] in priority order: guest, onboarding,
// incomplete_profile, active.
type UserStatus string

const (
	// StatusGuest is an exported constant or variable used by the session client.
	StatusGuest UserStatus = "guest"
	// StatusOnboarding is an exported constant or variable used by the session client.
	StatusOnboarding UserStatus = "onboarding"
	// StatusIncompleteProfile is an exported constant or variable used by the session client.
	StatusIncompleteProfile UserStatus = "incomplete_profile"
	// StatusActive is an exported constant or variable used by the session client.
	StatusActive UserStatus = "active"
)

// NavigationOptions carries routing metadata alongside a [Navigator.Navigate]
// call: whether to replace the history entry, a one-shot message for the target
// screen, and the origin route that triggered a guard redirect.
type NavigationOptions struct {
	Replace bool
	Message string
	Email   string
	From    string
}

// Navigator is the port through which the [Orchestrator] performs navigation.
// UI integrations implement it over their router; tests record calls.
type Navigator interface {
	Navigate(route string, opts NavigationOptions)
}
