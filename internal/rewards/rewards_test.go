package rewards

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/smartwaste/internal/errors"
)

func TestLevelOfBoundaries(t *testing.T) {
	tests := []struct {
		points int
		want   Level
	}{
		{0, EcoRookie},
		{49, EcoRookie},
		{50, GreenGuardian},
		{99, GreenGuardian},
		{100, PlanetProtector},
		{199, PlanetProtector},
		{200, EcoHero},
		{500, EcoHero},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelOf(tt.points), "points=%d", tt.points)
	}
}

func TestProgressOf(t *testing.T) {
	tests := []struct {
		points int
		want   float64
	}{
		{0, 0.0},
		{25, 0.5},
		{50, 0.0},
		{75, 0.5},
		{150, 0.5},
		{199, 0.99},
		{200, 1.0},
		{1000, 1.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ProgressOf(tt.points), 1e-9, "points=%d", tt.points)
	}
}

func TestProgressStaysInUnitInterval(t *testing.T) {
	for p := 0; p <= 400; p++ {
		got := ProgressOf(p)
		require.GreaterOrEqual(t, got, 0.0, "points=%d", p)
		require.LessOrEqual(t, got, 1.0, "points=%d", p)
	}
}

func TestNextLevelAt(t *testing.T) {
	assert.Equal(t, 50, NextLevelAt(10))
	assert.Equal(t, 100, NextLevelAt(50))
	assert.Equal(t, 200, NextLevelAt(150))
	assert.Equal(t, 0, NextLevelAt(250))
}

func TestLedgerCredit(t *testing.T) {
	var l Ledger

	total, err := l.Credit(AcceptPoints)
	require.NoError(t, err)
	assert.Equal(t, 10, total)

	total, err = l.Credit(IdeaPoints)
	require.NoError(t, err)
	assert.Equal(t, 30, total)

	s := l.Standing()
	assert.Equal(t, 30, s.Points)
	assert.Equal(t, EcoRookie, s.Level)
	assert.Equal(t, 60, s.ProgressPercent())
}

func TestLedgerRejectsNonPositiveCredit(t *testing.T) {
	var l Ledger
	_, _ = l.Credit(LocationPoints)

	for _, amount := range []int{0, -5} {
		total, err := l.Credit(amount)
		require.ErrorIs(t, err, ErrInvalidAmount)
		assert.True(t, errors.IsValidation(err))
		assert.Equal(t, 5, total, "total unchanged")
	}
}

func TestLedgerReset(t *testing.T) {
	var l Ledger
	_, _ = l.Credit(IdeaPoints)
	l.Reset()
	assert.Equal(t, 0, l.Points())
	assert.Equal(t, EcoRookie, l.Standing().Level)
}

func TestLedgerConcurrentCredits(t *testing.T) {
	var l Ledger
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.Credit(LocationPoints)
		}()
	}
	wg.Wait()
	assert.Equal(t, 250, l.Points())
}

func TestLevelEmoji(t *testing.T) {
	assert.Equal(t, "🌍", EcoHero.Emoji())
	assert.Empty(t, Level("Mystery").Emoji())
}
