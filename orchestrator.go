package goSessionClient

import (
	"context"
	"sync"
	"time"
)

const (
	signupFollowupMessage  = "Account created successfully! Please log in."
	completeProfileMessage = "Please complete your profile to get started."
)

// Orchestrator is the navigation-aware facade over the [Store]. It owns the
// routing policy: where a fresh login lands, where a guarded route bounces an
// unauthenticated visitor, and when a recorded error is cleared. It holds no
// session state of its own; every predicate is derived from the store on call.
type Orchestrator struct {
	store *Store
	nav   Navigator

	mu         sync.Mutex
	clearTimer *time.Timer
	intended   string
}

// NewOrchestrator describes the neworchestrator operation and its observable behavior.
//
// NewOrchestrator may return an error when input validation, dependency calls, or security checks fail.
// NewOrchestrator does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewOrchestrator(store *Store, nav Navigator) *Orchestrator {
	return &Orchestrator{
		store: store,
		nav:   nav,
	}
}

// Store describes the store operation and its observable behavior.
//
// Store may return an error when input validation, dependency calls, or security checks fail.
// Store does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (o *Orchestrator) Store() *Store {
	return o.store
}

// EnsureInitialized describes the ensureinitialized operation and its observable behavior.
//
// EnsureInitialized may return an error when input validation, dependency calls, or security checks fail.
// EnsureInitialized does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (o *Orchestrator) EnsureInitialized(ctx context.Context) error {
	return o.store.InitializeSession(ctx)
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.clearTimer != nil {
		o.clearTimer.Stop()
		o.clearTimer = nil
	}
	o.mu.Unlock()
	o.store.Close()
}

/*
====================================
LIFECYCLE ACTIONS
====================================
*/

// Login authenticates through the store and routes the user onward. The
// destination a route guard captured before bouncing them to login wins
// outright; only when none is pending does the profile state decide:
// onboarding first, then profile completion, then the dashboard. On failure
// the error is scheduled to clear after the configured interval and no
// navigation happens.
func (o *Orchestrator) Login(ctx context.Context, creds LoginCredentials) (*User, error) {
	user, err := o.store.Login(ctx, creds)
	if err != nil {
		o.scheduleErrorClear()
		return nil, err
	}

	if intended := o.takeIntended(""); intended != "" {
		o.navigate(intended, NavigationOptions{Replace: true})
		return user, nil
	}

	routes := o.store.cfg.Routes
	switch {
	case !user.OnboardingCompleted:
		o.navigate(routes.Onboarding, NavigationOptions{Replace: true})
	case !IsProfileComplete(user):
		o.navigate(routes.Profile, NavigationOptions{Replace: true, Message: completeProfileMessage})
	default:
		o.navigate(routes.Dashboard, NavigationOptions{Replace: true})
	}
	return user, nil
}

// Signup registers the account and, on success, routes to the login screen
// carrying a confirmation message and the email just used, so the login form
// can prefill it. Signup never authenticates.
func (o *Orchestrator) Signup(ctx context.Context, input SignupInput) error {
	if err := o.store.Signup(ctx, input); err != nil {
		o.scheduleErrorClear()
		return err
	}
	o.navigate(o.store.cfg.Routes.Login, NavigationOptions{
		Message: signupFollowupMessage,
		Email:   input.Email,
	})
	return nil
}

// Logout clears the session and routes to the landing page. The navigation is
// unconditional: a failing backend notification still lands the user on the
// landing page signed out.
func (o *Orchestrator) Logout(ctx context.Context) {
	o.store.Logout(ctx)
	o.mu.Lock()
	o.intended = ""
	o.mu.Unlock()
	o.navigate(o.store.cfg.Routes.Landing, NavigationOptions{Replace: true})
}

/*
====================================
DERIVED PREDICATES
====================================
*/

// IsProfileComplete reports whether the profile fields the product considers
// mandatory are all filled in: full name, email, current role, location, bio.
func IsProfileComplete(u *User) bool {
	if u == nil {
		return false
	}
	return u.FullName != "" &&
		u.Email != "" &&
		u.CurrentRole != "" &&
		u.Location != "" &&
		u.Bio != ""
}

// HasCompletedOnboarding describes the hascompletedonboarding operation and its observable behavior.
//
// HasCompletedOnboarding may return an error when input validation, dependency calls, or security checks fail.
// HasCompletedOnboarding does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (o *Orchestrator) HasCompletedOnboarding() bool {
	u := o.store.CurrentUser()
	return u != nil && u.OnboardingCompleted
}

// UserStatus classifies the current user in strict priority order: guest when
// unauthenticated, onboarding until onboarding completes, incomplete_profile
// until the mandatory fields are filled, active otherwise.
func (o *Orchestrator) UserStatus() UserStatus {
	state := o.store.State()
	switch {
	case !state.IsAuthenticated || state.User == nil:
		return StatusGuest
	case !state.User.OnboardingCompleted:
		return StatusOnboarding
	case !IsProfileComplete(state.User):
		return StatusIncompleteProfile
	default:
		return StatusActive
	}
}

// ShouldRedirectToOnboarding describes the shouldredirecttoonboarding operation and its observable behavior.
//
// ShouldRedirectToOnboarding may return an error when input validation, dependency calls, or security checks fail.
// ShouldRedirectToOnboarding does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (o *Orchestrator) ShouldRedirectToOnboarding() bool {
	return o.UserStatus() == StatusOnboarding
}

// ShouldCompleteProfile describes the shouldcompleteprofile operation and its observable behavior.
//
// ShouldCompleteProfile may return an error when input validation, dependency calls, or security checks fail.
// ShouldCompleteProfile does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (o *Orchestrator) ShouldCompleteProfile() bool {
	return o.UserStatus() == StatusIncompleteProfile
}

// HasRole describes the hasrole operation and its observable behavior.
//
// HasRole may return an error when input validation, dependency calls, or security checks fail.
// HasRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (o *Orchestrator) HasRole(role string) bool {
	u := o.store.CurrentUser()
	return u != nil && u.Role == role
}

// HasPermission describes the haspermission operation and its observable behavior.
//
// HasPermission may return an error when input validation, dependency calls, or security checks fail.
// HasPermission does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (o *Orchestrator) HasPermission(permission string) bool {
	u := o.store.CurrentUser()
	return u != nil && o.hasPermission(u, permission)
}

// CanAccessRoute reports whether the current user may enter a route that
// requires any of the given permissions. It is false outright when no user is
// present; an empty requirement list admits any authenticated user. Membership
// is a flat any-of check, never hierarchical.
func (o *Orchestrator) CanAccessRoute(requiredPermissions ...string) bool {
	u := o.store.CurrentUser()
	if u == nil {
		return false
	}
	if len(requiredPermissions) == 0 {
		return true
	}
	for _, p := range requiredPermissions {
		if o.hasPermission(u, p) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) hasPermission(u *User, permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

/*
====================================
ROUTE GUARDS
====================================
*/

// RequireAuth guards a protected route. Before initialization completes it
// denies without navigating, so the caller can render a loading state instead
// of bouncing a user whose session is still rehydrating. Once initialized, an
// unauthenticated visitor is routed to login with the origin route recorded.
func (o *Orchestrator) RequireAuth(currentRoute string) bool {
	if !o.store.IsInitialized() {
		return false
	}
	if o.store.IsAuthenticated() {
		return true
	}
	o.mu.Lock()
	o.intended = currentRoute
	o.mu.Unlock()
	o.navigate(o.store.cfg.Routes.Login, NavigationOptions{
		Replace: true,
		From:    currentRoute,
	})
	return false
}

// RequireGuest guards a guest-only route such as login or signup. An already
// authenticated user is routed to the dashboard.
func (o *Orchestrator) RequireGuest(currentRoute string) bool {
	if !o.store.IsInitialized() {
		return false
	}
	if !o.store.IsAuthenticated() {
		return true
	}
	o.navigate(o.store.cfg.Routes.Dashboard, NavigationOptions{
		Replace: true,
		From:    currentRoute,
	})
	return false
}

/*
====================================
ERROR LIFECYCLE
====================================
*/

// scheduleErrorClear arms a one-shot timer that clears the store error after
// the configured interval. A newer failure re-arms the timer; only the latest
// schedule fires.
func (o *Orchestrator) scheduleErrorClear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.clearTimer != nil {
		o.clearTimer.Stop()
	}
	o.clearTimer = time.AfterFunc(o.store.cfg.Errors.ClearAfter, o.store.ClearError)
}

// takeIntended consumes the destination captured by the last [RequireAuth]
// bounce, falling back to fallback when none is pending.
func (o *Orchestrator) takeIntended(fallback string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.intended == "" {
		return fallback
	}
	route := o.intended
	o.intended = ""
	return route
}

func (o *Orchestrator) navigate(route string, opts NavigationOptions) {
	if o.nav == nil {
		return
	}
	o.nav.Navigate(route, opts)
}
