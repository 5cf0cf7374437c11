package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAppend(t *testing.T) {
	l := New()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	e := l.Append(NewExpense{
		Description:  "Dinner",
		TotalAmount:  d("300"),
		PaidBy:       "U1",
		Participants: []string{"U1", "U2", "U3"},
	})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "Dinner", e.Description)
	assert.True(t, d("100").Equal(e.ShareAmount))
	assert.Equal(t, SplitTypeEqual, e.SplitType)
	assert.Equal(t, fixed, e.Date)
	assert.Equal(t, 1, l.Len())
}

func TestAppendCopiesParticipants(t *testing.T) {
	l := New()
	participants := []string{"U1", "U2"}
	l.Append(NewExpense{Description: "x", TotalAmount: d("10"), PaidBy: "U1", Participants: participants})

	participants[0] = "U9"
	assert.Equal(t, []string{"U1", "U2"}, l.Snapshot()[0].Participants)
}

func TestAppendUniqueIDs(t *testing.T) {
	l := New()
	seen := make(map[string]bool)
	for range 50 {
		e := l.Append(NewExpense{Description: "x", TotalAmount: d("1"), PaidBy: "U1", Participants: []string{"U1"}})
		require.False(t, seen[e.ID.String()])
		seen[e.ID.String()] = true
	}
}

func TestSnapshotUnaffectedByLaterAppends(t *testing.T) {
	l := New()
	l.Append(NewExpense{Description: "first", TotalAmount: d("10"), PaidBy: "U1", Participants: []string{"U1"}})

	snap := l.Snapshot()
	require.Len(t, snap, 1)

	l.Append(NewExpense{Description: "second", TotalAmount: d("20"), PaidBy: "U2", Participants: []string{"U2"}})
	l.Append(NewExpense{Description: "third", TotalAmount: d("30"), PaidBy: "U2", Participants: []string{"U2"}})

	assert.Len(t, snap, 1)
	assert.Equal(t, "first", snap[0].Description)

	all := l.Snapshot()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{all[0].Description, all[1].Description, all[2].Description})
}

func TestEqualShareTimesCountIsTotal(t *testing.T) {
	tests := []struct {
		total string
		n     int
	}{
		{"300", 3},
		{"1000000", 3},
		{"500000", 2},
		{"100", 7},
		{"0.01", 9},
	}
	tolerance := d("0.000001")
	for _, tt := range tests {
		share := EqualShare(d(tt.total), tt.n)
		back := share.Mul(decimal.NewFromInt(int64(tt.n)))
		assert.True(t, back.Sub(d(tt.total)).Abs().LessThan(tolerance), "%s / %d", tt.total, tt.n)
	}

	assert.True(t, EqualShare(d("10"), 0).IsZero())
}
