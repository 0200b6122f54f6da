package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/portfolio-labs/ptrack/internal/model"
)

// Project fields a CSV column can fill.
const (
	fieldKey                 = "key"
	fieldName                = "name"
	fieldDeveloper           = "developer"
	fieldSystemAnalyst       = "system_analyst"
	fieldResponsiblePerson   = "responsible_person"
	fieldStart               = "start"
	fieldEnd                 = "end"
	fieldProgress            = "progress"
	fieldStatus              = "status"
	fieldColorStatus         = "color_status"
	fieldComments            = "comments"
	fieldBeneficiaryDivision = "beneficiary_division"
	fieldPerformanceMeasure  = "performance_measure"
	fieldObjective           = "objective"
	fieldInitiative          = "initiative"
	fieldPlan                = "plan"
)

// columnAliases maps normalized header names to project fields. Every field
// maps to itself so mappings can target it by name.
var columnAliases = map[string]string{
	fieldKey:                 fieldKey,
	fieldName:                fieldName,
	fieldDeveloper:           fieldDeveloper,
	fieldSystemAnalyst:       fieldSystemAnalyst,
	fieldResponsiblePerson:   fieldResponsiblePerson,
	fieldStart:               fieldStart,
	fieldEnd:                 fieldEnd,
	fieldProgress:            fieldProgress,
	fieldStatus:              fieldStatus,
	fieldColorStatus:         fieldColorStatus,
	fieldComments:            fieldComments,
	fieldBeneficiaryDivision: fieldBeneficiaryDivision,
	fieldPerformanceMeasure:  fieldPerformanceMeasure,
	fieldObjective:           fieldObjective,
	fieldInitiative:          fieldInitiative,
	fieldPlan:                fieldPlan,

	"project_name":        fieldName,
	"project":             fieldName,
	"analyst":             fieldSystemAnalyst,
	"responsible":         fieldResponsiblePerson,
	"start_date":          fieldStart,
	"end_date":            fieldEnd,
	"color":               fieldColorStatus,
	"division":            fieldBeneficiaryDivision,
	"strategic_objective": fieldObjective,
	"yearly_plan":         fieldPlan,

	"strategic_initiatives_or_activities": fieldInitiative,
}

// normalizeHeader folds "Start Date", "start-date" and "START_DATE" together.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return model.NormalizeStatus(h)
}

// ReadCSV decodes a project spreadsheet. The first record is the header;
// headers are matched case-insensitively and unknown columns are ignored.
// Blank rows are skipped. Row numbers in errors and warnings count the
// header as row 1.
func (im *Importer) ReadCSV(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Result{Format: FormatCSV}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	fields := make([]string, len(header))
	hasName := false
	for i, h := range header {
		field, ok := im.columns[normalizeHeader(h)]
		if !ok {
			im.logger.Debug("ignoring CSV column", zap.String("column", h))
			continue
		}
		fields[i] = field
		hasName = hasName || field == fieldName
	}
	if !hasName {
		return nil, ErrNoNameColumn
	}

	res := &Result{Format: FormatCSV}
	keys := map[string]bool{}
	for row := 2; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if blank(record) {
			continue
		}

		p, err := projectFromRecord(fields, record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		warnings, err := im.checkProject(&p, row, keys)
		if err != nil {
			return nil, err
		}
		res.Portfolio.Projects = append(res.Portfolio.Projects, p)
		res.Warnings = append(res.Warnings, warnings...)
	}
	return res, nil
}

func projectFromRecord(fields, record []string) (model.Project, error) {
	var p model.Project
	for i, value := range record {
		if i >= len(fields) || fields[i] == "" {
			continue
		}
		value = strings.TrimSpace(value)
		switch fields[i] {
		case fieldKey:
			p.Key = value
		case fieldName:
			p.Name = value
		case fieldDeveloper:
			p.Developer = value
		case fieldSystemAnalyst:
			p.SystemAnalyst = value
		case fieldResponsiblePerson:
			p.ResponsiblePerson = value
		case fieldStart:
			p.StartRaw = value
		case fieldEnd:
			p.EndRaw = value
		case fieldProgress:
			v, err := parseProgress(value)
			if err != nil {
				return p, err
			}
			p.Progress = v
		case fieldStatus:
			p.Status = value
		case fieldColorStatus:
			p.ColorStatus = value
		case fieldComments:
			p.Comments = value
		case fieldBeneficiaryDivision:
			p.BeneficiaryDivision = value
		case fieldPerformanceMeasure:
			p.PerformanceMeasure = value
		case fieldObjective:
			p.ObjectiveKey = value
		case fieldInitiative:
			p.InitiativeKey = value
		case fieldPlan:
			p.PlanName = value
		}
	}
	return p, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
