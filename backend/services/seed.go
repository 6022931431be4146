package services

import (
	"context"
	"fmt"

	"skillnexis/backend/seeds"
)

// SeedSampleData loads the sample data into a store that holds no users yet.
// It reports whether anything was written.
func SeedSampleData(ctx context.Context, data *AdminDataManager) (bool, error) {
	users, err := data.loadUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("check existing users: %w", err)
	}
	if len(users) > 0 {
		return false, nil
	}

	sample, err := seeds.Load()
	if err != nil {
		return false, err
	}
	if err := data.Import(ctx, sample.Users, sample.Courses, sample.Quizzes); err != nil {
		return false, fmt.Errorf("import sample data: %w", err)
	}
	data.logger.Printf("[SEED] Loaded %d users, %d courses, %d quizzes",
		len(sample.Users), len(sample.Courses), len(sample.Quizzes))
	return true, nil
}
