package seed

import (
	"context"
	"fmt"
	"log"
)

// Planted signal thresholds. The generated ratings are a pure function of
// the booster and depressor occurrences, so the signs are guaranteed; the
// magnitudes only need to clear a loose bar.
const (
	boosterMinCoefficient   = 0.3
	depressorMaxCoefficient = -0.3
	consistentMinScore      = 4
	abandonedMaxScore       = 1
)

// verifyUsers reads back insights for every user and checks the planted
// signals survived the pipeline.
func verifyUsers(ctx context.Context, config *Config, users []User, stats *Stats) error {
	log.Println("🔍 Verifying planted signals...")

	client := newHTTPClient(config.Timeout)
	for _, user := range users {
		report, err := fetchCorrelations(ctx, client, config.BaseURL, user.ID)
		if err != nil {
			return fmt.Errorf("user %s: %w", user.ID, err)
		}
		if err := verifyCorrelations(user.ID, report); err != nil {
			return err
		}

		streaks, err := fetchStreaks(ctx, client, config.BaseURL, user.ID)
		if err != nil {
			return fmt.Errorf("user %s: %w", user.ID, err)
		}
		if err := verifyStreaks(user.ID, streaks); err != nil {
			return err
		}

		stats.UsersVerified++
		if config.Verbose {
			displayUserInsights(user.ID, report, streaks)
		}
	}

	log.Printf("✅ Verified %d users", stats.UsersVerified)
	return nil
}

// verifyCorrelations checks the booster ranks positive and the depressor
// ranks negative.
func verifyCorrelations(userID string, report CorrelationReport) error {
	byActivity := make(map[string]CorrelationEntry, len(report.Entries))
	for _, entry := range report.Entries {
		byActivity[entry.ActivityID] = entry
	}

	booster, ok := byActivity[activityBooster]
	if !ok {
		return fmt.Errorf("user %s: booster activity missing from report", userID)
	}
	if booster.Coefficient < boosterMinCoefficient {
		return fmt.Errorf("user %s: booster coefficient %.3f below %.1f",
			userID, booster.Coefficient, boosterMinCoefficient)
	}

	depressor, ok := byActivity[activityDepressor]
	if !ok {
		return fmt.Errorf("user %s: depressor activity missing from report", userID)
	}
	if depressor.Coefficient > depressorMaxCoefficient {
		return fmt.Errorf("user %s: depressor coefficient %.3f above %.1f",
			userID, depressor.Coefficient, depressorMaxCoefficient)
	}

	return nil
}

// verifyStreaks checks the consistent plan built a streak and the abandoned
// plan lost its streak.
func verifyStreaks(userID string, streaks []StreakEntry) error {
	byPlan := make(map[string]StreakEntry, len(streaks))
	for _, entry := range streaks {
		byPlan[entry.PlanID] = entry
	}

	consistent, ok := byPlan[planConsistent]
	if !ok {
		return fmt.Errorf("user %s: consistent plan missing from streaks", userID)
	}
	if consistent.Score < consistentMinScore {
		return fmt.Errorf("user %s: consistent plan score %d below %d",
			userID, consistent.Score, consistentMinScore)
	}
	if consistent.Badge == "" {
		return fmt.Errorf("user %s: consistent plan earned no badge", userID)
	}

	abandoned, ok := byPlan[planAbandoned]
	if !ok {
		return fmt.Errorf("user %s: abandoned plan missing from streaks", userID)
	}
	if abandoned.Score > abandonedMaxScore {
		return fmt.Errorf("user %s: abandoned plan score %d above %d",
			userID, abandoned.Score, abandonedMaxScore)
	}

	return nil
}

// displayUserInsights shows one user's computed insights.
func displayUserInsights(userID string, report CorrelationReport, streaks []StreakEntry) {
	log.Printf("📊 %s correlations:", userID)
	for _, entry := range report.Entries {
		log.Printf("   %s %s: r=%.3f (n=%d)", entry.Emoji, entry.ActivityTitle, entry.Coefficient, entry.SampleSize)
	}
	log.Printf("🔥 %s streaks:", userID)
	for _, entry := range streaks {
		badge := entry.Badge
		if badge == "" {
			badge = "-"
		}
		log.Printf("   %s x%d (badge: %s)", entry.PlanID, entry.Score, badge)
	}
}
