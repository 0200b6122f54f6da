package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/portfolio-labs/ptrack/internal/model"
	"github.com/portfolio-labs/ptrack/internal/slugs"
)

// ProjectChange is one project touched by an import. Before is nil for
// newly created projects.
type ProjectChange struct {
	Before *model.Project
	After  model.Project
}

// Created reports whether the import inserted the project.
func (c ProjectChange) Created() bool { return c.Before == nil }

// ImportResult summarizes what ImportPortfolio wrote.
type ImportResult struct {
	Projects     []ProjectChange `json:"-"`
	Created      int             `json:"created"`
	Updated      int             `json:"updated"`
	Divisions    int             `json:"divisions"`
	Plans        int             `json:"plans"`
	Perspectives int             `json:"perspectives"`
	Objectives   int             `json:"objectives"`
	Initiatives  int             `json:"initiatives"`
	Members      int             `json:"members"`
	Progress     int             `json:"progress_entries"`
}

// ImportPortfolio upserts every entity in p inside one transaction.
// Projects are matched by key (derived from the name when empty); a
// re-import keeps the existing ID and creation time. Progress entries
// reference projects by key and may refer to projects in this portfolio
// or already stored.
func (s *Store) ImportPortfolio(ctx context.Context, p model.Portfolio) (*ImportResult, error) {
	lock, err := s.acquireImportLock()
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	res := &ImportResult{}

	for _, d := range p.Divisions {
		if err := upsertDivision(ctx, tx, d); err != nil {
			return nil, err
		}
		res.Divisions++
	}
	for _, pl := range p.Plans {
		if err := upsertPlan(ctx, tx, pl, now); err != nil {
			return nil, err
		}
		res.Plans++
	}
	for _, pe := range p.Perspectives {
		if err := upsertPerspective(ctx, tx, pe); err != nil {
			return nil, err
		}
		res.Perspectives++
	}
	for _, o := range p.Objectives {
		if err := upsertObjective(ctx, tx, o); err != nil {
			return nil, err
		}
		res.Objectives++
	}
	for _, in := range p.Initiatives {
		if err := upsertInitiative(ctx, tx, in); err != nil {
			return nil, err
		}
		res.Initiatives++
	}
	for _, m := range p.Members {
		if err := upsertMember(ctx, tx, m, now); err != nil {
			return nil, err
		}
		res.Members++
	}

	for i, pr := range p.Projects {
		change, err := upsertProject(ctx, tx, pr, now.Add(time.Duration(i)))
		if err != nil {
			return nil, err
		}
		if change.Created() {
			res.Created++
		} else {
			res.Updated++
		}
		res.Projects = append(res.Projects, change)
	}

	for _, e := range p.Progress {
		if err := upsertProgress(ctx, tx, e, now); err != nil {
			return nil, err
		}
		res.Progress++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}
	return res, nil
}

func upsertDivision(ctx context.Context, tx *sql.Tx, d model.Division) error {
	if strings.TrimSpace(d.Code) == "" {
		return errors.New("division code is required")
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO divisions (id, code, leader) VALUES (?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET leader = excluded.leader`,
		newID(), d.Code, d.Leader)
	if err != nil {
		return fmt.Errorf("failed to import division %q: %w", d.Code, err)
	}
	return nil
}

func upsertPlan(ctx context.Context, tx *sql.Tx, pl model.YearlyPlan, now time.Time) error {
	if strings.TrimSpace(pl.Name) == "" {
		return errors.New("plan name is required")
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO plans (id, name, description, weightage, division, created_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			weightage = excluded.weightage,
			division = excluded.division`,
		newID(), pl.Name, pl.Description, pl.Weightage, pl.Division, stamp(pl.CreatedAt, now).UnixNano())
	if err != nil {
		return fmt.Errorf("failed to import plan %q: %w", pl.Name, err)
	}
	return nil
}

func upsertPerspective(ctx context.Context, tx *sql.Tx, pe model.Perspective) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO perspectives (id, name, plan) VALUES (?, ?, ?)
		ON CONFLICT(name, plan) DO NOTHING`,
		newID(), pe.Name, pe.Plan)
	if err != nil {
		return fmt.Errorf("failed to import perspective %q: %w", pe.Name, err)
	}
	return nil
}

func upsertObjective(ctx context.Context, tx *sql.Tx, o model.Objective) error {
	key := o.Key
	if key == "" {
		key = slugs.Key(o.Name)
	}
	if key == "" {
		return errors.New("objective name is required")
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO objectives (id, key, name) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET name = excluded.name`,
		newID(), key, o.Name)
	if err != nil {
		return fmt.Errorf("failed to import objective %q: %w", o.Name, err)
	}
	return nil
}

func upsertInitiative(ctx context.Context, tx *sql.Tx, in model.Initiative) error {
	key := in.Key
	if key == "" {
		key = slugs.Key(in.Name)
	}
	if key == "" {
		return errors.New("initiative name is required")
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO initiatives (id, key, name, objective_key, perspective, plan, responsible, start_raw, end_raw, performance_measure)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			objective_key = excluded.objective_key,
			perspective = excluded.perspective,
			plan = excluded.plan,
			responsible = excluded.responsible,
			start_raw = excluded.start_raw,
			end_raw = excluded.end_raw,
			performance_measure = excluded.performance_measure`,
		newID(), key, in.Name, in.ObjectiveKey, in.Perspective, in.Plan, in.Responsible,
		in.StartRaw, in.EndRaw, in.PerformanceMeasure)
	if err != nil {
		return fmt.Errorf("failed to import initiative %q: %w", in.Name, err)
	}
	return nil
}

func upsertMember(ctx context.Context, tx *sql.Tx, m model.Member, now time.Time) error {
	if strings.TrimSpace(m.Username) == "" {
		return errors.New("member username is required")
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO members (id, username, full_name, role, availability, specialization, reports_to, current_projects, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			full_name = excluded.full_name,
			role = excluded.role,
			availability = excluded.availability,
			specialization = excluded.specialization,
			reports_to = excluded.reports_to,
			current_projects = excluded.current_projects`,
		newID(), m.Username, m.FullName, int(m.Role), m.Availability, m.Specialization,
		m.ReportsTo, m.CurrentProjects, stamp(m.CreatedAt, now).UnixNano())
	if err != nil {
		return fmt.Errorf("failed to import member %q: %w", m.Username, err)
	}
	return nil
}

func upsertProject(ctx context.Context, tx *sql.Tx, p model.Project, now time.Time) (ProjectChange, error) {
	if strings.TrimSpace(p.Name) == "" {
		return ProjectChange{}, errors.New("project name is required")
	}
	if p.Key == "" {
		p.Key = slugs.Key(p.Name)
	}
	if p.Status == "" {
		p.Status = model.StatusIncoming
	}
	if p.ColorStatus == "" {
		p.ColorStatus = model.ColorNotStarted
	}

	existing, err := scanProject(tx.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE key = ?`, p.Key))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		p.ID = newID()
		p.CreatedAt = stamp(p.CreatedAt, now)
		p.UpdatedAt = p.CreatedAt
		_, err := tx.ExecContext(ctx, `INSERT INTO projects (`+projectColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, projectArgs(p)...)
		if err != nil {
			return ProjectChange{}, fmt.Errorf("failed to import project %q: %w", p.Name, err)
		}
		return ProjectChange{After: p}, nil
	case err != nil:
		return ProjectChange{}, fmt.Errorf("failed to load project %q: %w", p.Key, err)
	}

	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = now
	_, err = tx.ExecContext(ctx, `
		UPDATE projects SET
			name = ?, developer = ?, system_analyst = ?, responsible_person = ?,
			start_raw = ?, end_raw = ?, progress = ?, status = ?, color_status = ?,
			comments = ?, beneficiary_division = ?, performance_measure = ?,
			objective_key = ?, initiative_key = ?, plan_name = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Developer, p.SystemAnalyst, p.ResponsiblePerson,
		p.StartRaw, p.EndRaw, p.Progress, p.Status, p.ColorStatus,
		p.Comments, p.BeneficiaryDivision, p.PerformanceMeasure,
		p.ObjectiveKey, p.InitiativeKey, p.PlanName, p.UpdatedAt.UnixNano(),
		p.ID)
	if err != nil {
		return ProjectChange{}, fmt.Errorf("failed to update project %q: %w", p.Key, err)
	}
	return ProjectChange{Before: &existing, After: p}, nil
}

func upsertProgress(ctx context.Context, tx *sql.Tx, e model.ProgressEntry, now time.Time) error {
	projectID := e.ProjectID
	if projectID == "" {
		err := tx.QueryRowContext(ctx, `SELECT id FROM projects WHERE key = ?`, e.ProjectKey).Scan(&projectID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("progress entry for project %q: %w", e.ProjectKey, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to resolve project %q: %w", e.ProjectKey, err)
		}
	}
	if e.Month < time.January || e.Month > time.December {
		return fmt.Errorf("progress entry for project %q: %w", e.ProjectKey, model.ErrUnknownMonth)
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO progress_entries (project_id, year, month, color, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, year, month) DO UPDATE SET
			color = excluded.color,
			notes = excluded.notes`,
		projectID, e.Year, int(e.Month), e.Color, e.Notes, stamp(e.CreatedAt, now).UnixNano())
	if err != nil {
		return fmt.Errorf("failed to import progress for %q: %w", e.ProjectKey, err)
	}
	return nil
}

// stamp returns t, or now when t is unset.
func stamp(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}
