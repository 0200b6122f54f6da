package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/portfolio-labs/ptrack/internal/model"
	"github.com/portfolio-labs/ptrack/internal/slugs"
)

// portfolioDoc is the on-disk shape of a portfolio document. Entities refer
// to each other by natural key.
type portfolioDoc struct {
	Divisions    []divisionDoc    `yaml:"divisions"`
	Plans        []planDoc        `yaml:"plans"`
	Perspectives []perspectiveDoc `yaml:"perspectives"`
	Objectives   []objectiveDoc   `yaml:"objectives"`
	Initiatives  []initiativeDoc  `yaml:"initiatives"`
	Members      []memberDoc      `yaml:"members"`
	Projects     []model.Project  `yaml:"projects"`
	Progress     []progressDoc    `yaml:"progress"`
}

type divisionDoc struct {
	Code   string `yaml:"code"`
	Leader string `yaml:"leader"`
}

type planDoc struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Weightage   float64 `yaml:"weightage"`
	Division    string  `yaml:"division"`
}

type perspectiveDoc struct {
	Name string `yaml:"name"`
	Plan string `yaml:"plan"`
}

type objectiveDoc struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

type initiativeDoc struct {
	Key                string `yaml:"key"`
	Name               string `yaml:"name"`
	Objective          string `yaml:"objective"`
	Perspective        string `yaml:"perspective"`
	Plan               string `yaml:"plan"`
	Responsible        string `yaml:"responsible"`
	Start              string `yaml:"start"`
	End                string `yaml:"end"`
	PerformanceMeasure string `yaml:"performance_measure"`
}

type memberDoc struct {
	Username        string `yaml:"username"`
	FullName        string `yaml:"full_name"`
	Role            string `yaml:"role"`
	Availability    string `yaml:"availability"`
	Specialization  string `yaml:"specialization"`
	ReportsTo       string `yaml:"reports_to"`
	CurrentProjects int    `yaml:"current_projects"`
}

type progressDoc struct {
	Project string `yaml:"project"`
	Month   string `yaml:"month"`
	Year    int    `yaml:"year"`
	Color   string `yaml:"color"`
	Notes   string `yaml:"notes"`
}

// ReadYAML decodes a portfolio document. Unknown top-level keys are
// rejected so typos do not silently drop data.
func (im *Importer) ReadYAML(r io.Reader) (*Result, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc portfolioDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Result{Format: FormatYAML}, nil
		}
		return nil, fmt.Errorf("failed to parse portfolio document: %w", err)
	}

	res := &Result{Format: FormatYAML}
	p := &res.Portfolio

	for _, d := range doc.Divisions {
		code, err := model.ValidateDivision(d.Code)
		if err != nil {
			return nil, err
		}
		p.Divisions = append(p.Divisions, model.Division{Code: code, Leader: strings.TrimSpace(d.Leader)})
	}

	for _, d := range doc.Plans {
		if strings.TrimSpace(d.Name) == "" {
			return nil, errors.New("plan name is required")
		}
		plan := model.YearlyPlan{Name: strings.TrimSpace(d.Name), Description: d.Description, Weightage: d.Weightage}
		if d.Division != "" {
			code, err := model.ValidateDivision(d.Division)
			if err != nil {
				return nil, fmt.Errorf("plan %q: %w", d.Name, err)
			}
			plan.Division = code
		}
		p.Plans = append(p.Plans, plan)
	}

	for _, d := range doc.Perspectives {
		name, err := model.ValidatePerspective(d.Name)
		if err != nil {
			return nil, err
		}
		p.Perspectives = append(p.Perspectives, model.Perspective{Name: name, Plan: strings.TrimSpace(d.Plan)})
	}

	for _, d := range doc.Objectives {
		o := model.Objective{Key: strings.TrimSpace(d.Key), Name: strings.TrimSpace(d.Name)}
		if o.Name == "" {
			return nil, errors.New("objective name is required")
		}
		if o.Key == "" {
			o.Key = slugs.Key(o.Name)
		}
		p.Objectives = append(p.Objectives, o)
	}

	for _, d := range doc.Initiatives {
		in, warnings, err := im.initiative(d)
		if err != nil {
			return nil, err
		}
		p.Initiatives = append(p.Initiatives, in)
		res.Warnings = append(res.Warnings, warnings...)
	}

	for _, d := range doc.Members {
		m, err := member(d)
		if err != nil {
			return nil, err
		}
		p.Members = append(p.Members, m)
	}

	keys := map[string]bool{}
	for i := range doc.Projects {
		proj := doc.Projects[i]
		proj.ID = ""
		warnings, err := im.checkProject(&proj, 0, keys)
		if err != nil {
			return nil, err
		}
		p.Projects = append(p.Projects, proj)
		res.Warnings = append(res.Warnings, warnings...)
	}

	for _, d := range doc.Progress {
		e, err := progressEntry(d)
		if err != nil {
			return nil, err
		}
		p.Progress = append(p.Progress, e)
	}

	return res, nil
}

func (im *Importer) initiative(d initiativeDoc) (model.Initiative, []Warning, error) {
	in := model.Initiative{
		Key:                strings.TrimSpace(d.Key),
		Name:               strings.TrimSpace(d.Name),
		ObjectiveKey:       strings.TrimSpace(d.Objective),
		Plan:               strings.TrimSpace(d.Plan),
		Responsible:        strings.TrimSpace(d.Responsible),
		StartRaw:           strings.TrimSpace(d.Start),
		EndRaw:             strings.TrimSpace(d.End),
		PerformanceMeasure: d.PerformanceMeasure,
	}
	if in.Name == "" {
		return in, nil, errors.New("initiative name is required")
	}
	if in.Key == "" {
		in.Key = slugs.Key(in.Name)
	}
	if d.Perspective != "" {
		code, err := model.ValidatePerspective(d.Perspective)
		if err != nil {
			return in, nil, fmt.Errorf("initiative %q: %w", in.Key, err)
		}
		in.Perspective = code
	}

	// Initiative dates are optional; only report ones that are present but bad.
	var warnings []Warning
	if in.StartRaw != "" || in.EndRaw != "" {
		for _, w := range im.checkSpan("initiative", in.Key, 0, in.StartRaw, in.EndRaw) {
			if w.Kind != KindMissingDate {
				warnings = append(warnings, w)
			}
		}
	}
	return in, warnings, nil
}

func member(d memberDoc) (model.Member, error) {
	m := model.Member{
		Username:        strings.TrimSpace(d.Username),
		FullName:        strings.TrimSpace(d.FullName),
		Specialization:  d.Specialization,
		ReportsTo:       strings.TrimSpace(d.ReportsTo),
		CurrentProjects: d.CurrentProjects,
	}
	if m.Username == "" {
		return m, errors.New("member username is required")
	}
	role, err := model.ParseRole(d.Role)
	if err != nil {
		return m, fmt.Errorf("member %q: %w", m.Username, err)
	}
	m.Role = role
	availability, err := model.ValidateAvailability(d.Availability)
	if err != nil {
		return m, fmt.Errorf("member %q: %w", m.Username, err)
	}
	m.Availability = availability
	return m, nil
}

func progressEntry(d progressDoc) (model.ProgressEntry, error) {
	e := model.ProgressEntry{
		ProjectKey: strings.TrimSpace(d.Project),
		Year:       d.Year,
		Notes:      d.Notes,
	}
	if e.ProjectKey == "" {
		return e, errors.New("progress entry has no project")
	}

	month, err := parseMonth(d.Month)
	if err != nil {
		return e, fmt.Errorf("progress for %q: %w", e.ProjectKey, err)
	}
	e.Month = month

	if e.Year < 1 || e.Year > 9999 {
		return e, fmt.Errorf("progress for %q: invalid year %d", e.ProjectKey, e.Year)
	}

	color, err := model.ValidateColor(d.Color)
	if err != nil {
		return e, fmt.Errorf("progress for %q: %w", e.ProjectKey, err)
	}
	e.Color = color
	return e, nil
}

// parseMonth accepts "Jan".."Dec" or 1..12.
func parseMonth(s string) (time.Month, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("%w: %d", model.ErrUnknownMonth, n)
		}
		return time.Month(n), nil
	}
	return model.ParseMonthAbbrev(s)
}
