// Package nav is the boundary to the navigation layer. The engine never
// navigates on its own; it asks a Coordinator to, which keeps the pipeline
// and managers testable in isolation.
package nav

// Coordinator redirects the reader to the login entry point, remembering
// which path to come back to afterward.
type Coordinator interface {
	RedirectToLogin(requestedPath string)
}

// CoordinatorFunc adapts a function to Coordinator.
type CoordinatorFunc func(requestedPath string)

func (f CoordinatorFunc) RedirectToLogin(requestedPath string) { f(requestedPath) }

// Gate sends unauthenticated readers to login before a protected view and
// reports whether the view may proceed.
func Gate(isAuthenticated bool, requestedPath string, c Coordinator) bool {
	if isAuthenticated {
		return true
	}
	c.RedirectToLogin(requestedPath)
	return false
}
