package student

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const dateLayout = "2006-01-02"

type (
	CourseProgress struct {
		Course      string `json:"course"`
		Progress    int    `json:"progress"` // percent, [0, 100)
		LastUpdated string `json:"last_updated"`
	}

	Event struct {
		ID          int    `json:"id"`
		Title       string `json:"title"`
		Date        string `json:"date"`
		Description string `json:"description"`
	}

	// InsightSource provides the course progress and upcoming events shown on the student dashboard.
	InsightSource interface {
		CourseProgress(rec Record) CourseProgress
		UpcomingEvents(rec Record) []Event
	}

	// PlaceholderInsights generates random progress and a fixed event calendar.
	PlaceholderInsights struct {
		mu  sync.Mutex
		rnd *rand.Rand
		now func() time.Time // mockable
	}
)

var _ InsightSource = (*PlaceholderInsights)(nil)

func NewPlaceholderInsights() *PlaceholderInsights {
	return &PlaceholderInsights{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

func (p *PlaceholderInsights) CourseProgress(rec Record) CourseProgress {
	p.mu.Lock()
	progress := p.rnd.Intn(100)
	p.mu.Unlock()

	return CourseProgress{
		Course:      rec.Course,
		Progress:    progress,
		LastUpdated: p.now().Format(dateLayout),
	}
}

func (p *PlaceholderInsights) UpcomingEvents(rec Record) []Event {
	return []Event{
		{
			ID:          1,
			Title:       fmt.Sprintf("%s Seminar", rec.Department),
			Date:        "2025-05-15",
			Description: fmt.Sprintf("A seminar for %s year students in %s.", rec.Year, rec.Department),
		},
		{
			ID:          2,
			Title:       "Career Workshop",
			Date:        "2025-05-20",
			Description: "Explore career opportunities for your degree.",
		},
	}
}
