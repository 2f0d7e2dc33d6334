/*
Package observability exports Prometheus metrics for session locking, row
store operations and lifecycle transitions.

Lockers and row stores are instrumented by wrapping them; lifecycle transitions
are recorded through session.WithObserver(metrics.ObserveTransition).
*/
package observability
