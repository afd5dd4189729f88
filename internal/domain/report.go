package domain

// DefaultRecentLogLimit caps ProjectTimeReport.TimeLogs.
const DefaultRecentLogLimit = 10

// TaskTimeLog is a time log annotated with the title of its task.
type TaskTimeLog struct {
	TimeLog   `yaml:",inline"`
	TaskTitle string `json:"taskTitle" yaml:"taskTitle"`
}

// ProjectTimeReport summarizes tracked time for the tasks of one project.
type ProjectTimeReport struct {
	ProjectID    string        `json:"projectId" yaml:"projectId"`
	TotalTimeMs  int64         `json:"totalTime" yaml:"totalTime"`
	ActiveTimers int           `json:"activeTimers" yaml:"activeTimers"`
	TotalEntries int           `json:"totalEntries" yaml:"totalEntries"`
	TimeLogs     []TaskTimeLog `json:"timeLogs" yaml:"timeLogs"`
}

// TaskTimeBreakdown is the per-task rollup in a GlobalTimeReport.
type TaskTimeBreakdown struct {
	TaskID         int64  `json:"taskId" yaml:"taskId"`
	TaskTitle      string `json:"taskTitle" yaml:"taskTitle"`
	ProjectID      string `json:"projectId" yaml:"projectId"`
	TotalTimeMs    int64  `json:"totalTime" yaml:"totalTime"`
	HasActiveTimer bool   `json:"hasActiveTimer" yaml:"hasActiveTimer"`
	EntryCount     int    `json:"entryCount" yaml:"entryCount"`
}

// GlobalTimeReport summarizes tracked time across every task.
type GlobalTimeReport struct {
	TotalTimeMs   int64               `json:"totalTime" yaml:"totalTime"`
	ActiveTimers  int                 `json:"activeTimers" yaml:"activeTimers"`
	TotalEntries  int                 `json:"totalEntries" yaml:"totalEntries"`
	TaskBreakdown []TaskTimeBreakdown `json:"taskBreakdown" yaml:"taskBreakdown"`
}
