package model

// Portfolio is everything one import carries. Entities reference each other
// by natural key (plan name, objective key, project key, username).
type Portfolio struct {
	Divisions    []Division      `json:"divisions,omitempty"`
	Plans        []YearlyPlan    `json:"plans,omitempty"`
	Perspectives []Perspective   `json:"perspectives,omitempty"`
	Objectives   []Objective     `json:"objectives,omitempty"`
	Initiatives  []Initiative    `json:"initiatives,omitempty"`
	Members      []Member        `json:"members,omitempty"`
	Projects     []Project       `json:"projects,omitempty"`
	Progress     []ProgressEntry `json:"progress,omitempty"`
}

// Empty reports whether p carries nothing to import.
func (p Portfolio) Empty() bool {
	return len(p.Divisions) == 0 && len(p.Plans) == 0 && len(p.Perspectives) == 0 &&
		len(p.Objectives) == 0 && len(p.Initiatives) == 0 && len(p.Members) == 0 &&
		len(p.Projects) == 0 && len(p.Progress) == 0
}
