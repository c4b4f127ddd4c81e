// SPDX-License-Identifier: Apache-2.0

package client

import "sync/atomic"

// SubscriptionGate implements service.EntitlementGate as a switch flipped by
// the host when the user's subscription state changes. A lapsed subscription
// pauses syncing without losing queued operations; local editing continues.
type SubscriptionGate struct {
	allowed atomic.Bool
}

func NewSubscriptionGate(allowed bool) *SubscriptionGate {
	g := &SubscriptionGate{}
	g.allowed.Store(allowed)
	return g
}

func (g *SubscriptionGate) IsSyncAllowed() bool {
	return g.allowed.Load()
}

// SetAllowed flips the gate. Reactivation does not trigger a sync by itself;
// the host signals the coordinator via NotifySubscriptionActivated.
func (g *SubscriptionGate) SetAllowed(allowed bool) {
	g.allowed.Store(allowed)
}
