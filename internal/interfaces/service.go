package interfaces

// Service is implemented by every transport exposing the launcher services.
// Start must not block, Stop releases everything Start acquired.
type Service interface {
	Start() error
	Stop()
}
