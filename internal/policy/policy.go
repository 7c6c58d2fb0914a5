// Package policy implements the composable rule tree that decides whether a
// data transfer is permitted.
//
// A Policy is a pure function from an immutable Context to a Result. Atomic
// policies encode one business rule each; composite policies combine children
// with AND / OR / NOT semantics. Trees are built bottom-up at configuration
// time and are immutable afterwards, so a single tree instance can be shared
// and evaluated concurrently by many callers with no coordination.
package policy

import "time"

// Policy is the single capability implemented by every rule variant.
type Policy interface {
	Evaluate(ctx Context) Result
}

// Context is an immutable snapshot of the facts a transfer request is judged
// against. It is created once per evaluation via NewContext; no policy may
// mutate it.
type Context struct {
	ConsumerID         string
	ProviderID         string
	DataType           string
	ConsumerRegion     string
	UsagePurpose       string
	RequestTime        time.Time
	TimeZone           *time.Location
	RequestsInLastHour int64

	certifications map[string]struct{}
}

// NewContext builds an evaluation context. The certifications slice is copied
// so later mutation by the caller cannot leak into an evaluation.
func NewContext(consumerID, providerID, dataType, region string, certifications []string, purpose string, requestTime time.Time, zone *time.Location, requestsInLastHour int64) Context {
	certs := make(map[string]struct{}, len(certifications))
	for _, c := range certifications {
		certs[c] = struct{}{}
	}
	if zone == nil {
		zone = time.UTC
	}
	return Context{
		ConsumerID:         consumerID,
		ProviderID:         providerID,
		DataType:           dataType,
		ConsumerRegion:     region,
		UsagePurpose:       purpose,
		RequestTime:        requestTime,
		TimeZone:           zone,
		RequestsInLastHour: requestsInLastHour,
		certifications:     certs,
	}
}

// HasCertification reports whether the consumer holds the certification
// (exact match). An empty certification set simply reports false; it is never
// an error.
func (c Context) HasCertification(cert string) bool {
	_, ok := c.certifications[cert]
	return ok
}

// Result is the outcome of one evaluation. Exactly one of the two shapes
// holds: allowed with no reason, or denied with a violation reason.
type Result struct {
	Allowed         bool
	ViolationReason string
}

// Allow returns an allowing result.
func Allow() Result {
	return Result{Allowed: true}
}

// Deny returns a denying result carrying a human-readable reason.
func Deny(reason string) Result {
	return Result{Allowed: false, ViolationReason: reason}
}
