package till_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lumbunglabs/kasir/internal/catalog"
	"github.com/lumbunglabs/kasir/internal/history"
	"github.com/lumbunglabs/kasir/internal/till"
)

var saleClock = func() time.Time {
	// 14:30:05 in Jakarta.
	return time.Date(2026, 8, 28, 7, 30, 5, 0, time.UTC)
}

func newSession(t *testing.T) (*till.Session, *history.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := history.NewMockRepository(ctrl)

	return till.NewSession(catalog.Default(), repo, saleClock), repo
}

func TestAddOne(t *testing.T) {
	s, _ := newSession(t)

	// Scenario: scanning the same barcode twice yields one line, quantity 2.
	st, err := s.AddOne("1334566")
	require.NoError(t, err)
	assert.Equal(t, till.PhaseBuilding, st.Phase)

	st, err = s.AddOne("1334566")
	require.NoError(t, err)

	require.Len(t, st.Lines, 1)
	assert.Equal(t, "Blazing Canes", st.Lines[0].Name)
	assert.Equal(t, int64(35000), st.Lines[0].UnitPrice)
	assert.Equal(t, 2, st.Lines[0].Quantity)
	assert.Equal(t, int64(70000), st.Total)
}

func TestAddOne_UnknownProduct(t *testing.T) {
	s, _ := newSession(t)

	_, err := s.AddOne("9999999")

	var unknown *till.UnknownProductError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "9999999", unknown.Barcode)

	st := s.Snapshot()
	assert.Empty(t, st.Lines)
	assert.Equal(t, till.PhaseIdle, st.Phase)
}

func TestAddOne_KeepsInsertionOrder(t *testing.T) {
	s, _ := newSession(t)

	for _, code := range []string{"1934560", "1334566", "1934560", "2034559"} {
		_, err := s.AddOne(code)
		require.NoError(t, err)
	}

	st := s.Snapshot()
	require.Len(t, st.Lines, 3)
	assert.Equal(t, "1934560", st.Lines[0].Barcode)
	assert.Equal(t, "1334566", st.Lines[1].Barcode)
	assert.Equal(t, "2034559", st.Lines[2].Barcode)
}

func TestRemoveOne(t *testing.T) {
	s, _ := newSession(t)

	_, err := s.AddOne("1334566")
	require.NoError(t, err)
	_, err = s.AddOne("1334566")
	require.NoError(t, err)

	st := s.RemoveOne("1334566")
	require.Len(t, st.Lines, 1)
	assert.Equal(t, 1, st.Lines[0].Quantity)

	// Dropping to zero removes the line; a present line never has
	// quantity below one.
	st = s.RemoveOne("1334566")
	assert.Empty(t, st.Lines)
	assert.Equal(t, till.PhaseIdle, st.Phase)

	// Absent barcode is a no-op, not an error.
	st = s.RemoveOne("1334566")
	assert.Empty(t, st.Lines)
}

func TestDeleteLine(t *testing.T) {
	s, _ := newSession(t)

	for range 3 {
		_, err := s.AddOne("1334566")
		require.NoError(t, err)
	}

	st := s.DeleteLine("1334566")
	assert.Empty(t, st.Lines)

	st = s.DeleteLine("1334566")
	assert.Empty(t, st.Lines)
}

func TestClear_Idempotent(t *testing.T) {
	s, _ := newSession(t)

	_, err := s.AddOne("1334566")
	require.NoError(t, err)

	st := s.Clear()
	assert.Empty(t, st.Lines)
	assert.Equal(t, int64(0), st.Total)

	st = s.Clear()
	assert.Equal(t, till.PhaseIdle, st.Phase)
}

func TestPay(t *testing.T) {
	type testCase struct {
		name       string
		cash       int64
		wantErr    error
		wantChange int64
	}

	tests := []testCase{
		{
			name:    "InsufficientCash",
			cash:    50000,
			wantErr: till.ErrInsufficientCash,
		},
		{
			name:    "NegativeCash",
			cash:    -1,
			wantErr: till.ErrInsufficientCash,
		},
		{
			name:       "ExactCash",
			cash:       70000,
			wantChange: 0,
		},
		{
			name:       "Change",
			cash:       100000,
			wantChange: 30000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newSession(t)

			// Cart total 70000.
			_, err := s.AddOne("1334566")
			require.NoError(t, err)
			_, err = s.AddOne("1334566")
			require.NoError(t, err)

			eval, err := s.Pay(tt.cash)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				// The total is still surfaced for display, change never
				// goes negative.
				assert.Equal(t, int64(70000), eval.Total)
				assert.Equal(t, int64(0), eval.Change)
				assert.False(t, eval.Accepted)
				assert.Equal(t, till.PhaseBuilding, s.Snapshot().Phase)

				return
			}

			require.NoError(t, err)
			assert.True(t, eval.Accepted)
			assert.Equal(t, int64(70000), eval.Total)
			assert.Equal(t, tt.wantChange, eval.Change)
			assert.Equal(t, till.PhaseEvaluated, s.Snapshot().Phase)
		})
	}
}

func TestPay_EmptyCart(t *testing.T) {
	s, _ := newSession(t)

	_, err := s.Pay(100000)
	assert.ErrorIs(t, err, till.ErrEmptyCart)
}

func TestPay_Idempotent(t *testing.T) {
	s, _ := newSession(t)

	_, err := s.AddOne("1334566")
	require.NoError(t, err)

	first, err := s.Pay(100000)
	require.NoError(t, err)

	second, err := s.Pay(100000)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPay_FailureDisarmsEarlierAcceptance(t *testing.T) {
	s, _ := newSession(t)

	_, err := s.AddOne("1334566")
	require.NoError(t, err)

	_, err = s.Pay(100000)
	require.NoError(t, err)
	require.Equal(t, till.PhaseEvaluated, s.Snapshot().Phase)

	_, err = s.Pay(10000)
	require.ErrorIs(t, err, till.ErrInsufficientCash)
	assert.Equal(t, till.PhaseBuilding, s.Snapshot().Phase)
}

func TestCartMutationInvalidatesEvaluation(t *testing.T) {
	mutations := []struct {
		name   string
		mutate func(s *till.Session)
	}{
		{"AddOne", func(s *till.Session) { _, _ = s.AddOne("1934560") }},
		{"RemoveOne", func(s *till.Session) { s.RemoveOne("1334566") }},
		{"DeleteLine", func(s *till.Session) { s.DeleteLine("1334566") }},
		{"Clear", func(s *till.Session) { s.Clear() }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newSession(t)

			_, err := s.AddOne("1334566")
			require.NoError(t, err)
			_, err = s.Pay(100000)
			require.NoError(t, err)
			require.Equal(t, till.PhaseEvaluated, s.Snapshot().Phase)

			tt.mutate(s)

			st := s.Snapshot()
			assert.Nil(t, st.Evaluation)
			assert.NotEqual(t, till.PhaseEvaluated, st.Phase)

			if st.Total > 0 {
				_, err = s.CompleteSale(context.Background())
				assert.ErrorIs(t, err, till.ErrPaymentNotEvaluated)
			}
		})
	}
}

func TestCompleteSale(t *testing.T) {
	s, repo := newSession(t)

	// Scenario: total 70000, cash 100000, change 30000.
	_, err := s.AddOne("1334566")
	require.NoError(t, err)
	_, err = s.AddOne("1334566")
	require.NoError(t, err)

	_, err = s.Pay(100000)
	require.NoError(t, err)

	var saved history.Record

	repo.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec history.Record) error {
			saved = rec
			return nil
		})

	rec, err := s.CompleteSale(context.Background())
	require.NoError(t, err)

	assert.Equal(t, saved, rec)
	assert.Equal(t, saleClock().UnixMilli(), rec.ID)
	assert.Equal(t, "28/8/2026, 14.30.05", rec.Time)
	assert.Equal(t, int64(70000), rec.Total)
	assert.Equal(t, int64(100000), rec.Cash)
	assert.Equal(t, int64(30000), rec.Change)
	require.Len(t, rec.Lines, 1)
	assert.Equal(t, history.Line{
		Barcode:   "1334566",
		Name:      "Blazing Canes",
		UnitPrice: 35000,
		Quantity:  2,
	}, rec.Lines[0])

	// The session is back to idle, ready for the next customer.
	st := s.Snapshot()
	assert.Equal(t, till.PhaseIdle, st.Phase)
	assert.Empty(t, st.Lines)
	assert.Nil(t, st.Evaluation)
}

func TestCompleteSale_Preconditions(t *testing.T) {
	t.Run("EmptyCart", func(t *testing.T) {
		s, _ := newSession(t)

		_, err := s.CompleteSale(context.Background())
		assert.ErrorIs(t, err, till.ErrEmptyCart)
	})

	t.Run("PaymentNotEvaluated", func(t *testing.T) {
		s, _ := newSession(t)

		_, err := s.AddOne("1334566")
		require.NoError(t, err)

		_, err = s.CompleteSale(context.Background())
		assert.ErrorIs(t, err, till.ErrPaymentNotEvaluated)
	})
}

func TestCompleteSale_AppendFailureKeepsState(t *testing.T) {
	s, repo := newSession(t)

	_, err := s.AddOne("1334566")
	require.NoError(t, err)
	_, err = s.Pay(50000)
	require.NoError(t, err)

	repo.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		Return(errors.New("disk full"))

	_, err = s.CompleteSale(context.Background())
	require.Error(t, err)

	// Nothing was lost: the cart and the accepted evaluation survive, so
	// the cashier can retry.
	st := s.Snapshot()
	assert.Equal(t, till.PhaseEvaluated, st.Phase)
	assert.Equal(t, int64(35000), st.Total)
}

func TestOnChange(t *testing.T) {
	s, repo := newSession(t)

	var states []till.State

	s.OnChange(func(st till.State) { states = append(states, st) })

	_, err := s.AddOne("1334566")
	require.NoError(t, err)
	_, err = s.Pay(50000)
	require.NoError(t, err)

	repo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	_, err = s.CompleteSale(context.Background())
	require.NoError(t, err)

	// add, pay, complete.
	require.Len(t, states, 3)
	assert.Equal(t, till.PhaseBuilding, states[0].Phase)
	assert.Equal(t, till.PhaseEvaluated, states[1].Phase)
	assert.Equal(t, till.PhaseIdle, states[2].Phase)

	// An unknown barcode changes nothing and notifies nobody.
	_, err = s.AddOne("9999999")
	require.Error(t, err)
	assert.Len(t, states, 3)
}
