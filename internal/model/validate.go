package model

import "fmt"

// Validate checks that every counter is non-negative.
func (s ProgressSnapshot) Validate() error {
	if s.Streak < 0 {
		return fmt.Errorf("streak must be >= 0")
	}
	if s.TodayPoints < 0 {
		return fmt.Errorf("today points must be >= 0")
	}
	if s.TotalWordsLearned < 0 {
		return fmt.Errorf("total words learned must be >= 0")
	}
	if s.LessonsCompleted < 0 {
		return fmt.Errorf("lessons completed must be >= 0")
	}
	return nil
}
