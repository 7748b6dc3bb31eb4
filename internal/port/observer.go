package port

import "time"

// GatewayObserver records the outcome of each remote call.
type GatewayObserver interface {
	ObserveGatewayCall(operation, outcome string, elapsed time.Duration)
}

// SessionObserver records session transitions and preview lifecycle events.
type SessionObserver interface {
	ObserveTransition(event string)
	ObservePreviewReleased()
}

// SessionRegistryObserver additionally tracks how many sessions are open.
type SessionRegistryObserver interface {
	SessionObserver
	SessionOpened()
	SessionClosed()
}
