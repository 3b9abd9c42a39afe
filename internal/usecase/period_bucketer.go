package usecase

import (
	"strings"
	"time"

	"github.com/rappelscan/backend/internal/domain"
)

// Window boundaries, in calendar days before the reference day
const (
	lastWeekDays  = 7
	lastMonthDays = 31
)

// BucketRecalls keeps the records whose name, brand or reason contains searchTerm (as
// given, case-insensitive) and
// sorts them into today, yesterday, last week and last month relative to now.
//
// Days are calendar days in now's location. A record lands in the first window that
// holds its day; records without a readable date, older than 31 days or dated after
// today are dropped. Input order is kept inside each window.
func BucketRecalls(records []domain.RecallRecord, searchTerm string, now time.Time) domain.PeriodBuckets {
	loc := now.Location()
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)
	weekAgo := today.AddDate(0, 0, -lastWeekDays)
	monthAgo := today.AddDate(0, 0, -lastMonthDays)

	term := strings.ToLower(searchTerm)

	buckets := domain.PeriodBuckets{
		Today:     []domain.RecallRecord{},
		Yesterday: []domain.RecallRecord{},
		LastWeek:  []domain.RecallRecord{},
		LastMonth: []domain.RecallRecord{},
	}
	for _, rec := range records {
		if !recallMentions(rec, term) {
			continue
		}
		published, ok := rec.PublishedIn(loc)
		if !ok {
			continue
		}
		day := startOfDay(published)

		switch {
		case inRange(day, today, tomorrow):
			buckets.Today = append(buckets.Today, rec)
		case inRange(day, yesterday, today):
			buckets.Yesterday = append(buckets.Yesterday, rec)
		case inRange(day, weekAgo, yesterday):
			buckets.LastWeek = append(buckets.LastWeek, rec)
		case inRange(day, monthAgo, weekAgo):
			buckets.LastMonth = append(buckets.LastMonth, rec)
		}
	}
	return buckets
}

// recallMentions matches a lower-cased term against name, brand and reason
func recallMentions(rec domain.RecallRecord, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{rec.Libelle, rec.MarqueProduit, rec.MotifRappel} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// inRange reports whether t is in [from, to)
func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
