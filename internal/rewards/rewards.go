// Package rewards tracks the points a user earns during a session and derives
// the level badge and progress bar shown in the sidebar.
package rewards

import (
	"sync"

	"github.com/tphakala/smartwaste/internal/errors"
)

// Point amounts granted for each rewarded action.
const (
	AcceptPoints   = 10 // accepting a recycle or upcycle suggestion
	LocationPoints = 5  // searching for a disposal location
	IdeaPoints     = 20 // sharing a community idea
)

// Level is a gamification label derived from a point total.
type Level string

const (
	EcoRookie       Level = "Eco Rookie"
	GreenGuardian   Level = "Green Guardian"
	PlanetProtector Level = "Planet Protector"
	EcoHero         Level = "Eco Hero"
)

// band describes a level and the half-open point range [Floor, Ceil).
type band struct {
	Level Level
	Floor int
	Ceil  int // 0 for the open-ended top band
}

var bands = []band{
	{EcoRookie, 0, 50},
	{GreenGuardian, 50, 100},
	{PlanetProtector, 100, 200},
	{EcoHero, 200, 0},
}

// Emoji returns the icon shown next to the level name.
func (l Level) Emoji() string {
	switch l {
	case EcoRookie:
		return "♻️"
	case GreenGuardian:
		return "🌱"
	case PlanetProtector:
		return "🌿"
	case EcoHero:
		return "🌍"
	default:
		return ""
	}
}

func bandOf(points int) band {
	for _, b := range bands {
		if b.Ceil == 0 || points < b.Ceil {
			return b
		}
	}
	return bands[len(bands)-1]
}

// LevelOf maps a point total to its level. Band floors are inclusive.
func LevelOf(points int) Level {
	return bandOf(points).Level
}

// ProgressOf returns progress through the current band in [0, 1]. The top band
// has no ceiling and always reports 1.
func ProgressOf(points int) float64 {
	if points <= 0 {
		return 0
	}
	b := bandOf(points)
	if b.Ceil == 0 {
		return 1.0
	}
	return float64(points-b.Floor) / float64(b.Ceil-b.Floor)
}

// NextLevelAt returns the point total where the next level starts, or 0 at the top level.
func NextLevelAt(points int) int {
	return bandOf(points).Ceil
}

// Ledger accumulates points for one session. Totals never decrease except
// through Reset.
type Ledger struct {
	mu     sync.Mutex
	points int
}

// ErrInvalidAmount is returned when crediting a non-positive amount.
var ErrInvalidAmount = errors.NewStd("credit amount must be positive")

// Credit adds amount to the total and returns the new total.
func (l *Ledger) Credit(amount int) (int, error) {
	if amount <= 0 {
		return l.Points(), errors.New(ErrInvalidAmount).
			Component("rewards").
			Category(errors.CategoryValidation).
			Context("amount", amount).
			Build()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.points += amount
	return l.points, nil
}

// Points returns the current total.
func (l *Ledger) Points() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.points
}

// Reset clears the total, used on logout.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.points = 0
}

// Standing is a snapshot of the sidebar profile.
type Standing struct {
	Points      int
	Level       Level
	Progress    float64
	NextLevelAt int
}

// Standing returns the current points, level and progress.
func (l *Ledger) Standing() Standing {
	p := l.Points()
	return Standing{
		Points:      p,
		Level:       LevelOf(p),
		Progress:    ProgressOf(p),
		NextLevelAt: NextLevelAt(p),
	}
}

// ProgressPercent returns progress as an integer percentage for progress bars.
func (s Standing) ProgressPercent() int {
	return int(s.Progress * 100)
}
