// Package leaderboard turns raw donations into the ranked top-donor snapshot.
package leaderboard

import (
	"math"
	"sort"
	"time"

	"donationhub/pkg/types"
)

// Rank groups donations by donor, sums their amounts and returns the top
// limit donors by total, highest first. Ties are broken by donor id ascending.
// Donations without a donor are skipped and non-numeric amounts count as 0.
// Donor ids are compared exactly. Totals saturate at ±math.MaxFloat64.
// Every entry is stamped with computedAt.
func Rank(donations []*types.DonorAmount, limit int, computedAt time.Time) []*types.TopDonor {
	if limit <= 0 {
		return []*types.TopDonor{}
	}

	totals := make(map[string]float64)
	for _, donation := range donations {
		if donation == nil || donation.UserID == nil || *donation.UserID == "" {
			continue
		}

		userID := *donation.UserID
		totals[userID] = saturatingAdd(totals[userID], types.AmountValue(donation.Amount))
	}

	ranked := make([]*types.TopDonor, 0, len(totals))
	for userID, total := range totals {
		ranked = append(ranked, &types.TopDonor{
			UserID:      userID,
			TotalAmount: total,
			ComputedAt:  computedAt,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalAmount != ranked[j].TotalAmount {
			return ranked[i].TotalAmount > ranked[j].TotalAmount
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	for i, donor := range ranked {
		donor.Rank = i + 1
	}

	return ranked
}

// saturatingAdd keeps a running total finite so it can be stored and
// encoded as JSON.
func saturatingAdd(a, b float64) float64 {
	sum := a + b
	switch {
	case math.IsInf(sum, 1):
		return math.MaxFloat64
	case math.IsInf(sum, -1):
		return -math.MaxFloat64
	}
	return sum
}
