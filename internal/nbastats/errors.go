package nbastats

import (
	"errors"
	"fmt"
)

// Upstream failure classes. Rate limiting is a kind of transient failure.
var (
	ErrUpstreamTransient   = errors.New("upstream transient failure")
	ErrUpstreamRateLimited = fmt.Errorf("%w: rate limited", ErrUpstreamTransient)
	ErrUpstreamSchema      = errors.New("unexpected upstream response shape")
	ErrUpstreamStatus      = errors.New("upstream error status")
)

// ErrNoVideo means the event has no published video asset.
var ErrNoVideo = errors.New("no video for event")
