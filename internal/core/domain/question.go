package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecentWindow is how far back a publish date still counts as recent.
const RecentWindow = 24 * time.Hour

type Question struct {
	ID          uuid.UUID `json:"id"`
	Text        string    `json:"question_text"`
	PublishedAt time.Time `json:"pub_date"`
	Choices     []Choice  `json:"choices"`
}

type Choice struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Text       string    `json:"choice_text"`
	Votes      int64     `json:"votes"`
}

type ChoiceResult struct {
	Choice     Choice  `json:"choice"`
	Percentage float64 `json:"percentage"`
}

// WasPublishedRecently reports whether the question was published within
// the last day. Questions dated in the future are never recent.
func (q *Question) WasPublishedRecently(now time.Time) bool {
	return !q.PublishedAt.Before(now.Add(-RecentWindow)) && !q.PublishedAt.After(now)
}

func (q *Question) IsPublished(now time.Time) bool {
	return !q.PublishedAt.After(now)
}

func (q *Question) Choice(id uuid.UUID) (Choice, bool) {
	for _, c := range q.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

func (q *Question) TotalVotes() int64 {
	var total int64
	for _, c := range q.Choices {
		total += c.Votes
	}
	return total
}

// Results returns one entry per choice, in choice order.
func (q *Question) Results() []ChoiceResult {
	total := q.TotalVotes()
	results := make([]ChoiceResult, 0, len(q.Choices))
	for _, c := range q.Choices {
		percentage := 0.0
		if total > 0 {
			percentage = (float64(c.Votes) / float64(total)) * 100
		}
		results = append(results, ChoiceResult{Choice: c, Percentage: percentage})
	}
	return results
}
