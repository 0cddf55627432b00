package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPostulationEvaluate matches a candidate CV against an opportunity.
	TaskPostulationEvaluate = "postulation:evaluate"
	// TaskPayrollRefresh recomputes hour records for a date range.
	TaskPayrollRefresh = "payroll:refresh"
	// TaskAttendanceAnomalyScan flags employees with dangling check-ins.
	TaskAttendanceAnomalyScan = "attendance:anomaly_scan"
)

// PostulationEvaluatePayload identifies the postulation to evaluate.
type PostulationEvaluatePayload struct {
	PostulationID int64 `json:"postulation_id"`
}

// NewPostulationEvaluateTask constructs an Asynq task.
func NewPostulationEvaluateTask(payload PostulationEvaluatePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPostulationEvaluate, data), nil
}

// PayrollRefreshPayload bounds the recalculation. Empty dates default to
// the previous day; an empty employee list means every active employee.
type PayrollRefreshPayload struct {
	StartDate   string  `json:"start_date,omitempty"`
	EndDate     string  `json:"end_date,omitempty"`
	EmployeeIDs []int64 `json:"employee_ids,omitempty"`
}

// NewPayrollRefreshTask constructs an Asynq task.
func NewPayrollRefreshTask(payload PayrollRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPayrollRefresh, data), nil
}

// AnomalyScanPayload bounds the attendance scan window.
type AnomalyScanPayload struct {
	WindowDays int `json:"window_days,omitempty"`
}

// NewAnomalyScanTask constructs an Asynq task.
func NewAnomalyScanTask(payload AnomalyScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAttendanceAnomalyScan, data), nil
}
