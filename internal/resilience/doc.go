// Package resilience provides reliability and fault tolerance patterns for the application.
// It includes circuit breaker implementations that keep a failing dependency
// from dragging down every request that touches it.
//
// The package supports:
//   - Circuit breakers for external API calls (Hugging Face, Claude, OpenAI)
//   - Circuit breaker protection for database access
//
// Summarization failures are terminal for the request that hit them; nothing
// here retries. The breakers only decide whether the next request is allowed
// to try at all.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.DefaultConfig("my-service"))
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callExternalService()
//	})
package resilience
