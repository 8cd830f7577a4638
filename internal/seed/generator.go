package seed

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/alramalho/self-tracking-software-sub007/pkg/logger"
	"github.com/google/uuid"
)

// Planted catalog identifiers. Every synthetic user gets the same shape so
// verification can check the same signals across users.
const (
	metricEnergy      = "met-energy"
	activityBooster   = "act-run"   // drives ratings up on days it occurs
	activityDepressor = "act-late"  // drives ratings down on days it occurs
	activityNoise     = "act-tv"    // occurs at random, no planted signal
	activityAbandoned = "act-yoga"  // logged early, then dropped
	planConsistent    = "plan-run"  // completed every week of the timeline
	planAbandoned     = "plan-yoga" // only the first two weeks are completed
)

// Rating construction constants. The rating is a pure function of the
// planted activities, so the correlation signs are known in advance.
const (
	ratingBaseline  = 3
	ratingBoost     = 2
	ratingDepress   = 2
	noiseDayDivisor = 3 // roughly one noise occurrence every three days
)

func catalogFor(userID string) Catalog {
	return Catalog{
		UserID: userID,
		Activities: []Activity{
			{ID: activityBooster, Title: "Running", Emoji: "🏃", Measure: "minutes"},
			{ID: activityDepressor, Title: "Late night", Emoji: "🌙", Measure: "hours"},
			{ID: activityNoise, Title: "Watching TV", Emoji: "📺", Measure: "minutes"},
			{ID: activityAbandoned, Title: "Yoga", Emoji: "🧘", Measure: "minutes"},
		},
		Metrics: []Metric{
			{ID: metricEnergy, Title: "Energy", Emoji: "⚡"},
		},
		Plans: []Plan{
			{
				ID:          planConsistent,
				Emoji:       "🏃",
				ActivityIDs: []string{activityBooster},
				Outline:     Outline{Type: "times_per_week", Target: 3},
			},
			{
				ID:          planAbandoned,
				Emoji:       "🧘",
				ActivityIDs: []string{activityAbandoned},
				Outline:     Outline{Type: "times_per_week", Target: 2},
			},
		},
	}
}

// generateUsers creates synthetic users with planted behavior profiles.
func generateUsers(ctx context.Context, config *Config, stats *Stats) ([]User, error) {
	logger.Get().Info(ctx, "generating users with planted profiles",
		logger.Int("numUsers", config.NumUsers),
		logger.Int("days", config.Days),
	)

	users := make([]User, config.NumUsers)
	for i := range users {
		userID := "seed-user-" + uuid.New().String()
		users[i] = User{
			ID:      userID,
			Catalog: catalogFor(userID),
			Records: generateRecords(userID, config.Days),
		}
		stats.RecordsGenerated += len(users[i].Records)
	}

	stats.UsersGenerated = len(users)
	logger.Get().Info(ctx, "generated users successfully",
		logger.Int("users", stats.UsersGenerated),
		logger.Int("records", stats.RecordsGenerated),
	)
	return users, nil
}

// generateRecords builds one user's timeline ending yesterday.
func generateRecords(userID string, days int) []Record {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -days)

	var records []Record
	for n := 0; n < days; n++ {
		day := start.AddDate(0, 0, n)
		date := day.Format(time.RFC3339)

		ran := n%2 == 0
		late := n%5 == 0
		noise := randomChance(noiseDayDivisor)
		yoga := n < 14 && n%3 == 0 // dropped after the first two weeks

		if ran {
			records = append(records, activityRecord(userID, activityBooster, n, date, 30))
		}
		if late {
			records = append(records, activityRecord(userID, activityDepressor, n, date, 2))
		}
		if noise {
			records = append(records, activityRecord(userID, activityNoise, n, date, 60))
		}
		if yoga {
			records = append(records, activityRecord(userID, activityAbandoned, n, date, 45))
		}

		rating := ratingBaseline
		if ran {
			rating += ratingBoost
		}
		if late {
			rating -= ratingDepress
		}
		records = append(records, Record{
			RecordID: uuid.New().String(),
			UserID:   userID,
			Kind:     "metric_entry",
			Metric: &MetricEntry{
				ID:       "me-" + userID + "-" + strconv.Itoa(n),
				MetricID: metricEnergy,
				Date:     date,
				Rating:   clampRating(rating),
			},
		})
	}
	return records
}

func activityRecord(userID, activityID string, day int, date string, quantity float64) Record {
	return Record{
		RecordID: uuid.New().String(),
		UserID:   userID,
		Kind:     "activity_entry",
		Activity: &ActivityEntry{
			ID:         "ae-" + userID + "-" + activityID + "-" + strconv.Itoa(day),
			ActivityID: activityID,
			Date:       date,
			Quantity:   quantity,
		},
	}
}

func clampRating(r int) int {
	switch {
	case r < 1:
		return 1
	case r > 5:
		return 5
	default:
		return r
	}
}

// randomChance returns true roughly once every n calls using crypto/rand.
func randomChance(n int64) bool {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64() == 0
}
