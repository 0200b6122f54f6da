package audit

import (
	"strconv"

	"github.com/portfolio-labs/ptrack/internal/model"
)

// ProjectFields are the project fields whose changes are audited.
var ProjectFields = []string{
	"name", "developer", "system_analyst", "responsible_person",
	"start", "end", "progress", "status", "color_status",
	"beneficiary_division", "initiative",
}

// ProjectSnapshot flattens p into the string form FieldChanges compares.
func ProjectSnapshot(p model.Project) map[string]string {
	return map[string]string{
		"name":                 p.Name,
		"developer":            p.Developer,
		"system_analyst":       p.SystemAnalyst,
		"responsible_person":   p.ResponsiblePerson,
		"start":                p.StartRaw,
		"end":                  p.EndRaw,
		"progress":             strconv.FormatFloat(p.Progress, 'f', 2, 64),
		"status":               p.Status,
		"color_status":         p.ColorStatus,
		"beneficiary_division": p.BeneficiaryDivision,
		"initiative":           p.InitiativeKey,
	}
}

// ProjectChanges renders the audited differences between two project versions.
func ProjectChanges(before, after model.Project) string {
	return FieldChanges(ProjectSnapshot(before), ProjectSnapshot(after), ProjectFields)
}
