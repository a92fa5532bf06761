package progress

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/platform/clock"
)

//go:embed challenges.yaml
var challengesYAML []byte

type Challenge struct {
	ID          string         `json:"id" yaml:"-"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	BuggyCode   string         `json:"buggyCode" yaml:"buggyCode"`
	Language    roast.Language `json:"language" yaml:"language"`
	Hint        string         `json:"hint" yaml:"hint"`
	Difficulty  string         `json:"difficulty" yaml:"difficulty"`
}

var pool = mustLoadPool(challengesYAML)

func mustLoadPool(b []byte) []Challenge {
	p, err := loadPool(b)
	if err != nil {
		panic(err)
	}
	return p
}

func loadPool(b []byte) ([]Challenge, error) {
	var doc struct {
		Challenges []Challenge `yaml:"challenges"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("progress: challenge pool: %w", err)
	}
	if len(doc.Challenges) == 0 {
		return nil, fmt.Errorf("progress: challenge pool is empty")
	}
	for i := range doc.Challenges {
		c := &doc.Challenges[i]
		c.BuggyCode = strings.TrimRight(c.BuggyCode, "\n")
		if !c.Language.Valid() {
			return nil, fmt.Errorf("progress: challenge %q: unsupported language %q", c.Title, c.Language)
		}
	}
	return doc.Challenges, nil
}

// Pool returns a copy of the challenge pool in rotation order.
func Pool() []Challenge {
	out := make([]Challenge, len(pool))
	copy(out, pool)
	return out
}

// ChallengeIndex is the 1-based day of the year modulo the pool size, so
// every client sees the same challenge on a calendar day.
func ChallengeIndex(now time.Time) int {
	return now.YearDay() % len(pool)
}

// TodaysChallenge picks the challenge for now's calendar day in now's location.
func TodaysChallenge(now time.Time) Challenge {
	c := pool[ChallengeIndex(now)]
	c.ID = "challenge_" + clock.DateString(now)
	return c
}

// TimeUntilNext is the time left until the next local midnight.
func TimeUntilNext(now time.Time) time.Duration {
	return clock.Day(now).AddDate(0, 0, 1).Sub(now)
}

// FormatCountdown renders d as "5h 12m".
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", h, m)
}
