package resilience

import "time"

// Policy bounds how hard the executor leans on a struggling upstream.
// One policy is shared by every operation; breakers are still tracked
// per operation name.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	DelayFactor  float64

	BreakerEnabled    bool
	BreakerMinSamples uint32
	BreakerTripRatio  float64
	BreakerCooldown   time.Duration
	BreakerProbes     uint32
}

// DefaultPolicy is tuned for the upstreams this backend talks to: the
// LLM and vector store answer in hundreds of milliseconds to seconds,
// so delays start at 200ms, and a tripped breaker cools down for 20s
// before probing.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		DelayFactor:  2.0,

		BreakerEnabled:    true,
		BreakerMinSamples: 8,
		BreakerTripRatio:  0.6,
		BreakerCooldown:   20 * time.Second,
		BreakerProbes:     2,
	}
}

func (p Policy) normalize() Policy {
	def := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = def.InitialDelay
	}
	if p.MaxDelay < p.InitialDelay {
		p.MaxDelay = p.InitialDelay
	}
	if p.DelayFactor < 1.0 {
		p.DelayFactor = def.DelayFactor
	}
	if p.BreakerMinSamples == 0 {
		p.BreakerMinSamples = def.BreakerMinSamples
	}
	if p.BreakerTripRatio <= 0 || p.BreakerTripRatio > 1 {
		p.BreakerTripRatio = def.BreakerTripRatio
	}
	if p.BreakerCooldown <= 0 {
		p.BreakerCooldown = def.BreakerCooldown
	}
	if p.BreakerProbes == 0 {
		p.BreakerProbes = def.BreakerProbes
	}
	return p
}
