package ports

// AgentSurface defines the interface for user-facing agent frontends
type AgentSurface interface {
	// Start starts the surface
	Start() error

	// Stop stops the surface
	Stop() error

	// Done is closed when the surface finishes on its own, for example
	// when the user ends an interactive session
	Done() <-chan struct{}
}
