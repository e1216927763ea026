package dto

// GenerateScheduleRequest is the inbound body for a generation run.
// Delay and Repeat are optional scheduling knobs.
type GenerateScheduleRequest struct {
	TenantID  string `json:"tenant_id" binding:"required"`
	WeekStart string `json:"week_start" binding:"required"`
	DelayMs   int64  `json:"delay_ms"`
	Repeat    string `json:"repeat"`
}

// GenerateScheduleResponse returns the queue-assigned job handle.
type GenerateScheduleResponse struct {
	JobID string `json:"job_id"`
}

// ShiftDTO is one assignment in a schedule response.
type ShiftDTO struct {
	StaffID string `json:"staff_id"`
	Day     string `json:"day"`
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
	Role    string `json:"role"`
}

// ScheduleDTO is the persisted schedule returned to dashboard clients.
type ScheduleDTO struct {
	ScheduleID     string     `json:"schedule_id"`
	TenantID       string     `json:"tenant_id"`
	WeekStart      string     `json:"week_start"`
	Shifts         []ShiftDTO `json:"shifts"`
	TotalLaborCost float64    `json:"total_labor_cost"`
	TotalHours     float64    `json:"total_hours"`
	CreatedAt      string     `json:"created_at"`
}
