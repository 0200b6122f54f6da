package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Role is a team member's function, stored as its numeric code.
type Role int

const (
	RoleProjectAdmin Role = iota + 1
	RoleProjectOfficer
	RoleSystemAdmin
	RoleProjectManager
	RoleDeveloper
	RoleBusinessAnalyst
	RoleTechnicalLead
)

var roleNames = map[Role]string{
	RoleProjectAdmin:    "Project Admin",
	RoleProjectOfficer:  "Project Officer",
	RoleSystemAdmin:     "System Admin",
	RoleProjectManager:  "Project Manager",
	RoleDeveloper:       "Developer",
	RoleBusinessAnalyst: "Business Analyst",
	RoleTechnicalLead:   "Technical Lead",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return ""
}

// Availability values for team members.
const (
	AvailabilityAvailable  = "available"
	AvailabilityBusy       = "busy"
	AvailabilityOverloaded = "overloaded"
	AvailabilityOnLeave    = "on_leave"
)

// Perspective names used by yearly plans.
const (
	PerspectiveFinancial      = "financial"
	PerspectiveCustomer       = "customer"
	PerspectiveInternal       = "internal_processes"
	PerspectiveInnovation     = "innovation_learning_growth"
	PerspectiveSustainability = "sustainability_esg"
)

var perspectiveLabels = map[string]string{
	PerspectiveFinancial:      "Financial",
	PerspectiveCustomer:       "Customer",
	PerspectiveInternal:       "Internal Processes",
	PerspectiveInnovation:     "Innovation, Learning and Growth",
	PerspectiveSustainability: "Sustainability and ESG",
}

var divisionLabels = map[string]string{
	"credit":  "Credit",
	"ccm":     "Corporate Communications Management",
	"bt":      "Business Technology",
	"ct":      "Cente Tech",
	"btmc":    "BT-Multi Channels",
	"bb":      "Business Banking",
	"itsd":    "IT Service Delivery",
	"legal":   "Legal",
	"finance": "Finance",
	"ca":      "Credit Administration",
	"hr":      "Human Resource",
	"cbo":     "CBO",
	"btmis":   "BT-MIS",
	"fm":      "Financial Markets",
	"rm":      "Retail & Microfinance",
}

var (
	ErrUnknownRole         = errors.New("unknown role")
	ErrUnknownAvailability = errors.New("unknown availability")
	ErrUnknownPerspective  = errors.New("unknown perspective")
	ErrUnknownDivision     = errors.New("unknown division")
)

// ParseRole accepts a numeric code or a role name ("Developer",
// "business analyst").
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if code, err := strconv.Atoi(s); err == nil {
		if _, ok := roleNames[Role(code)]; ok {
			return Role(code), nil
		}
		return 0, fmt.Errorf("%w: %d", ErrUnknownRole, code)
	}
	for r, name := range roleNames {
		if strings.EqualFold(name, s) || NormalizeStatus(name) == NormalizeStatus(s) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// ValidateAvailability normalizes a and checks it. Empty stays empty.
func ValidateAvailability(a string) (string, error) {
	n := NormalizeStatus(a)
	switch n {
	case "", AvailabilityAvailable, AvailabilityBusy, AvailabilityOverloaded, AvailabilityOnLeave:
		return n, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAvailability, a)
}

// ValidatePerspective accepts a perspective code or its label.
func ValidatePerspective(p string) (string, error) {
	return lookupCode(p, perspectiveLabels, ErrUnknownPerspective)
}

// PerspectiveLabel is the display form of a perspective code.
func PerspectiveLabel(code string) string { return labelOr(perspectiveLabels, code) }

// ValidateDivision accepts a division code or its label.
func ValidateDivision(d string) (string, error) {
	return lookupCode(d, divisionLabels, ErrUnknownDivision)
}

// DivisionLabel is the display form of a division code.
func DivisionLabel(code string) string { return labelOr(divisionLabels, code) }

func lookupCode(s string, labels map[string]string, sentinel error) (string, error) {
	n := NormalizeStatus(s)
	if _, ok := labels[n]; ok {
		return n, nil
	}
	for code, label := range labels {
		if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(s)) {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: %q", sentinel, s)
}

func labelOr(labels map[string]string, code string) string {
	if l, ok := labels[code]; ok {
		return l
	}
	return code
}

// Member is a team member profile.
type Member struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	FullName        string    `json:"full_name,omitempty"`
	Role            Role      `json:"role,omitempty"`
	Availability    string    `json:"availability,omitempty"`
	Specialization  string    `json:"specialization,omitempty"`
	ReportsTo       string    `json:"reports_to,omitempty"`
	CurrentProjects int       `json:"current_projects"`
	CreatedAt       time.Time `json:"created_at"`
}

// GetID returns the username.
func (m Member) GetID() string { return m.Username }

// GetKind returns "member".
func (m Member) GetKind() string { return "member" }

// GetContent returns the display name.
func (m Member) GetContent() string {
	if m.FullName != "" {
		return m.FullName
	}
	return m.Username
}

// GetLocation returns the role name.
func (m Member) GetLocation() string { return m.Role.String() }

// Division is an organizational unit that owns yearly plans.
type Division struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Leader string `json:"leader,omitempty"`
}

// YearlyPlan groups a year's projects and perspectives.
type YearlyPlan struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Weightage   float64   `json:"weightage,omitempty"`
	Division    string    `json:"division,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Perspective is a balanced-scorecard perspective within a plan.
type Perspective struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Plan string `json:"plan"`
}

// Objective is a strategic objective.
type Objective struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Initiative is a strategic initiative under an objective. Its dates are
// raw text like a project's.
type Initiative struct {
	ID                 string `json:"id"`
	Key                string `json:"key"`
	Name               string `json:"name"`
	ObjectiveKey       string `json:"objective"`
	Perspective        string `json:"perspective,omitempty"`
	Plan               string `json:"plan,omitempty"`
	Responsible        string `json:"responsible,omitempty"`
	StartRaw           string `json:"start,omitempty"`
	EndRaw             string `json:"end,omitempty"`
	PerformanceMeasure string `json:"performance_measure,omitempty"`
}

// GetID returns the initiative key.
func (i Initiative) GetID() string { return i.Key }

// GetKind returns "initiative".
func (i Initiative) GetKind() string { return "initiative" }

// GetContent returns the initiative name.
func (i Initiative) GetContent() string { return i.Name }

// GetLocation returns the objective key.
func (i Initiative) GetLocation() string { return i.ObjectiveKey }
