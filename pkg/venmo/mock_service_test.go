package venmo

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockService(t *testing.T) {
	ctx := context.Background()
	m := NewMockService(Profile{ID: "0", Username: "me"}, Profile{ID: "1", Username: "alice"})

	me, err := m.GetProfile(ctx)
	require.NoError(t, err)
	fs, err := m.ListFriends(ctx, me.ID)
	require.NoError(t, err)
	assert.Equal(t, []Profile{{ID: "1", Username: "alice"}}, fs)

	u, err := m.FindUser(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	_, err = m.FindUser(ctx, "bob")
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, m.RequestPayment(ctx, decimal.RequireFromString("2.00"), "Payment for Tea", "1"))
	boom := errors.New("boom")
	m.FailPayment("1", boom)
	assert.ErrorIs(t, m.RequestPayment(ctx, decimal.RequireFromString("1.00"), "x", "1"), boom)
	assert.Len(t, m.Requests(), 1)

	assert.ErrorIs(t, m.RequestPayment(ctx, decimal.RequireFromString("-1.00"), "x", "2"), ErrNegativeAmount)
	assert.Len(t, m.Requests(), 1)
}
