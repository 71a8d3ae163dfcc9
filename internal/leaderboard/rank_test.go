package leaderboard

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"donationhub/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func donation(userID string, amount string) *types.DonorAmount {
	d := &types.DonorAmount{Amount: json.RawMessage(amount)}
	if userID != "" {
		d.UserID = &userID
	}
	return d
}

type entry struct {
	UserID string
	Total  float64
}

func entries(donors []*types.TopDonor) []entry {
	out := make([]entry, 0, len(donors))
	for _, d := range donors {
		out = append(out, entry{UserID: d.UserID, Total: d.TotalAmount})
	}
	return out
}

func TestRankScenario(t *testing.T) {
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	donations := []*types.DonorAmount{
		donation("userA", "50"),
		donation("userB", "30"),
		donation("userA", "20"),
	}

	ranked := Rank(donations, 10, at)

	assert.Equal(t, []entry{{"userA", 70}, {"userB", 30}}, entries(ranked))
	for i, d := range ranked {
		assert.Equal(t, i+1, d.Rank)
		assert.Equal(t, at, d.ComputedAt)
	}
}

func TestRankTieBreaksByUserID(t *testing.T) {
	donations := []*types.DonorAmount{
		donation("carol", "10"),
		donation("alice", "10"),
		donation("bob", "25"),
		donation("dave", "10"),
	}

	ranked := Rank(donations, 10, time.Now())

	assert.Equal(t, []entry{{"bob", 25}, {"alice", 10}, {"carol", 10}, {"dave", 10}}, entries(ranked))
}

func TestRankTruncatesToLimit(t *testing.T) {
	var donations []*types.DonorAmount
	for i := range 15 {
		donations = append(donations, donation(fmt.Sprintf("user%02d", i), fmt.Sprintf("%d", i+1)))
	}

	ranked := Rank(donations, 10, time.Now())
	require.Len(t, ranked, 10)
	assert.Equal(t, "user14", ranked[0].UserID)
	assert.Equal(t, "user05", ranked[9].UserID)

	assert.Len(t, Rank(donations, 3, time.Now()), 3)
	assert.Len(t, Rank(donations, 100, time.Now()), 15)
	assert.Empty(t, Rank(donations, 0, time.Now()))
	assert.Empty(t, Rank(donations, -1, time.Now()))
}

func TestRankNonNumericAmountsCountAsZero(t *testing.T) {
	donations := []*types.DonorAmount{
		donation("userA", `"50"`),
		donation("userA", `5`),
		donation("userB", `null`),
		donation("userB", ``),
		donation("userC", `{"amount":100}`),
		donation("userD", `1.5`),
	}

	ranked := Rank(donations, 10, time.Now())

	assert.Equal(t, []entry{{"userA", 5}, {"userD", 1.5}, {"userB", 0}, {"userC", 0}}, entries(ranked))
}

func TestRankExcludesAnonymousDonations(t *testing.T) {
	empty := ""
	donations := []*types.DonorAmount{
		donation("", "1000"),
		{UserID: &empty, Amount: json.RawMessage("500")},
		nil,
		donation("userA", "1"),
	}

	ranked := Rank(donations, 10, time.Now())

	assert.Equal(t, []entry{{"userA", 1}}, entries(ranked))
}

func TestRankGroupsByExactDonorID(t *testing.T) {
	donations := []*types.DonorAmount{
		donation("a", "5"),
		donation("a ", "3"),
		donation("a", "1"),
	}

	ranked := Rank(donations, 10, time.Now())

	assert.Equal(t, []entry{{"a", 6}, {"a ", 3}}, entries(ranked))
}

func TestRankSaturatesOverflowingTotals(t *testing.T) {
	donations := []*types.DonorAmount{
		donation("big", "1.7e308"),
		donation("big", "1.7e308"),
		donation("debt", "-1.7e308"),
		donation("debt", "-1.7e308"),
		donation("debt", "1"),
		donation("small", "2"),
	}

	ranked := Rank(donations, 10, time.Now())

	require.Len(t, ranked, 3)
	assert.Equal(t, entry{"big", math.MaxFloat64}, entries(ranked)[0])
	assert.Equal(t, entry{"small", 2}, entries(ranked)[1])
	assert.Equal(t, "debt", ranked[2].UserID)
	assert.False(t, math.IsInf(ranked[2].TotalAmount, 0))
	assert.False(t, math.IsNaN(ranked[2].TotalAmount))

	_, err := json.Marshal(ranked)
	assert.NoError(t, err)
}

func TestRankEmpty(t *testing.T) {
	ranked := Rank(nil, 10, time.Now())
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRankIsDeterministic(t *testing.T) {
	donations := []*types.DonorAmount{
		donation("b", "10"), donation("a", "10"), donation("c", "10"),
		donation("e", "3"), donation("d", "3"), donation("a", "0"),
	}
	at := time.Now()

	first := entries(Rank(donations, 4, at))
	for range 20 {
		assert.Equal(t, first, entries(Rank(donations, 4, at)))
	}
}
