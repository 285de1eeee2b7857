// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the persisted account snapshot.
type User struct {
	ID                  uuid.UUID      `json:"id"`
	Username            string         `json:"username"`
	Email               string         `json:"email,omitempty"`
	Provider            string         `json:"provider"` // "email" or a social provider
	JoinDate            time.Time      `json:"join_date"`
	AddedContent        []Content      `json:"added_content"`
	WatchHistory        []Content      `json:"watch_history"`
	ActiveSubscriptions []Subscription `json:"active_subscriptions"`
	Comments            []Comment      `json:"comments"`
}

// SubscriptionStatus is the billing state of a Subscription.
type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "Active"
	SubscriptionExpired SubscriptionStatus = "Expired"
	SubscriptionPending SubscriptionStatus = "Pending"
)

// Subscription is one streaming-service plan held by a user.
type Subscription struct {
	ID          uuid.UUID          `json:"id"`
	Service     StreamingService   `json:"service"`
	Status      SubscriptionStatus `json:"status"`
	RenewalDate time.Time          `json:"renewal_date"`
	MonthlyCost float64            `json:"monthly_cost"`
}

const day = 24 * time.Hour

// DefaultSubscriptions returns the sample plan set granted to users who
// sign in with email, with renewal dates relative to now.
func DefaultSubscriptions(now time.Time) []Subscription {
	sub := func(s StreamingService, st SubscriptionStatus, renewIn time.Duration, cost float64) Subscription {
		return Subscription{ID: uuid.New(), Service: s, Status: st, RenewalDate: now.Add(renewIn), MonthlyCost: cost}
	}
	return []Subscription{
		sub(ServiceHulu, SubscriptionActive, 30*day, 14.99),
		sub(ServiceDisney, SubscriptionActive, 15*day, 9.99),
		sub(ServiceParamount, SubscriptionActive, 10*day, 11.99),
		sub(ServiceNetflix, SubscriptionActive, 30*day, 15.99),
		sub(ServicePrime, SubscriptionActive, 30*day, 14.99),
		sub(ServiceMax, SubscriptionPending, 30*day, 16.99),
		sub(ServiceAppleTV, SubscriptionExpired, -10*day, 9.99),
		sub(ServicePeacock, SubscriptionPending, 30*day, 11.99),
	}
}

// MonthlyTotal sums the cost of active subscriptions.
func MonthlyTotal(subs []Subscription) float64 {
	var total float64
	for _, s := range subs {
		if s.Status == SubscriptionActive {
			total += s.MonthlyCost
		}
	}
	return total
}
