package domain

import "strconv"

// DefaultProjectStatus applies to projects created without a status.
const DefaultProjectStatus = "planning"

// Project groups tasks; ProjectID on a Task refers to Project.ID in string form.
type Project struct {
	ID        int64   `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Status    string  `json:"status" yaml:"status"`
	Budget    float64 `json:"budget" yaml:"budget"`
	StartDate string  `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate   string  `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	ClientID  int64   `json:"clientId,omitempty" yaml:"clientId,omitempty"`
}

// Ref returns the id as tasks reference it.
func (p Project) Ref() string {
	return strconv.FormatInt(p.ID, 10)
}
