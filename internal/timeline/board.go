package timeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/portfolio-labs/ptrack/internal/dates"
)

// Row is one project as seen by the board: raw dates straight from storage.
type Row struct {
	ID       string
	Label    string
	Status   string
	Color    string
	RawStart string
	RawEnd   string
}

// BoardRow is a fully projected row for one year.
type BoardRow struct {
	ID                string         `json:"id"`
	Label             string         `json:"label"`
	Status            string         `json:"status"`
	Color             string         `json:"color,omitempty"`
	Span              Span           `json:"span"`
	Resolved          bool           `json:"resolved"`
	Months            [12]SpanLayout `json:"months"`
	DurationDays      int            `json:"duration_days"`
	Overdue           bool           `json:"overdue"`
	ElapsedPercentage float64        `json:"elapsed_percentage"`
}

// Board is a year grid for a set of projects.
type Board struct {
	Year  int                `json:"year"`
	Today dates.CalendarDate `json:"today"`
	Rows  []BoardRow         `json:"rows"`
}

// Board projects every row across year. Each row's span is normalized once
// and reused for all twelve months. Rows are processed in parallel and
// returned in input order.
func (p *Projector) Board(ctx context.Context, rows []Row, year int, today dates.CalendarDate) (*Board, error) {
	out := make([]BoardRow, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, r := range rows {
		i, r := i, r
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = p.boardRow(r, year, today)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Board{Year: year, Today: today, Rows: out}, nil
}

func (p *Projector) boardRow(r Row, year int, today dates.CalendarDate) BoardRow {
	span := p.SpanOf(r.RawStart, r.RawEnd)
	return BoardRow{
		ID:                r.ID,
		Label:             r.Label,
		Status:            r.Status,
		Color:             r.Color,
		Span:              span,
		Resolved:          span.Valid(),
		Months:            p.YearRow(span, r.Status, year, today),
		DurationDays:      DurationDays(span),
		Overdue:           IsOverdue(span, r.Status, today),
		ElapsedPercentage: ElapsedPercentage(span, today),
	}
}
