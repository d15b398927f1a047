package till_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lumbunglabs/kasir/internal/catalog"
	"github.com/lumbunglabs/kasir/internal/history"
	"github.com/lumbunglabs/kasir/internal/till"
)

func TestDebouncer(t *testing.T) {
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	d := till.NewDebouncer(1500 * time.Millisecond)

	assert.True(t, d.Allow(base))
	assert.False(t, d.Allow(base.Add(100*time.Millisecond)))
	assert.False(t, d.Allow(base.Add(1499*time.Millisecond)))
	assert.True(t, d.Allow(base.Add(1500*time.Millisecond)))

	// The window is measured from the last accepted decode, not the last
	// attempt.
	assert.False(t, d.Allow(base.Add(2900*time.Millisecond)))
	assert.True(t, d.Allow(base.Add(3*time.Second)))
}

func TestScanner_DuplicateScanAddsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := history.NewMockRepository(ctrl)
	session := till.NewSession(catalog.Default(), repo, nil)
	scanner := till.NewScanner(session, 1500*time.Millisecond)

	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	// One physical scan shows up as a burst of decodes; only the first
	// lands in the cart.
	st, accepted, err := scanner.Decoded("1334566", base)
	require.NoError(t, err)
	assert.True(t, accepted)
	require.Len(t, st.Lines, 1)
	assert.Equal(t, 1, st.Lines[0].Quantity)

	st, accepted, err = scanner.Decoded("1334566", base.Add(400*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, 1, st.Lines[0].Quantity)

	// The next deliberate scan goes through.
	st, accepted, err = scanner.Decoded("1334566", base.Add(2*time.Second))
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, 2, st.Lines[0].Quantity)
}

func TestScanner_UnknownCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := history.NewMockRepository(ctrl)
	session := till.NewSession(catalog.Default(), repo, nil)
	scanner := till.NewScanner(session, 1500*time.Millisecond)

	st, accepted, err := scanner.Decoded("9999999", time.Now())
	assert.True(t, accepted)

	var unknown *till.UnknownProductError
	require.ErrorAs(t, err, &unknown)
	assert.Empty(t, st.Lines)
}

func TestScanner_BlankCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := history.NewMockRepository(ctrl)
	session := till.NewSession(catalog.Default(), repo, nil)
	scanner := till.NewScanner(session, 1500*time.Millisecond)

	_, accepted, err := scanner.Decoded("  ", time.Now())
	require.NoError(t, err)
	assert.False(t, accepted)
}
