package models

import "time"

// Deal represents a sales opportunity tracked through the pipeline
type Deal struct {
	ID           int64      `db:"id" json:"id"`
	CustomerID   *int64     `db:"customer_id" json:"customer_id"`
	Title        string     `db:"title" json:"title"`
	Description  string     `db:"description" json:"description"`
	Value        float64    `db:"value" json:"value"`
	Stage        string     `db:"stage" json:"stage"`
	Probability  int        `db:"probability" json:"probability"`
	DeadLine     *time.Time `db:"dead_line" json:"dead_line"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	CustomerName *string    `db:"customer_name" json:"customer_name,omitempty"`
}

// Pipeline stages, in pipeline order. closed_lost sits after closed_won,
// so progressing forward past a won deal reclassifies it as lost.
const (
	StageProspect      = "prospect"
	StageQualification = "qualification"
	StageProposal      = "proposal"
	StageNegotiation   = "negotiation"
	StageClosedWon     = "closed_won"
	StageClosedLost    = "closed_lost"
)

// StageStat is one row of the per-stage pipeline breakdown
type StageStat struct {
	Stage      string  `db:"stage" json:"stage"`
	Count      int64   `db:"count" json:"count"`
	TotalValue float64 `db:"total_value" json:"total_value"`
}

// PipelineSummary is the derived pipeline snapshot, recomputed on demand
// and never persisted
type PipelineSummary struct {
	TotalDeals   int64       `json:"totalDeals"`
	TotalValue   float64     `json:"totalValue"`
	DealsByStage []StageStat `json:"dealsByStage"`
	RecentDeals  []Deal      `json:"recentDeals,omitempty"`
}

// Customer represents a CRM customer record
type Customer struct {
	ID        int64     `db:"id" json:"id"`
	UserID    *int64    `db:"user_id" json:"user_id"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	Contacts  string    `db:"contacts" json:"contacts"`
	Service   string    `db:"service" json:"service"`
	Details   string    `db:"details" json:"details"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Activity represents a scheduled or logged CRM task
type Activity struct {
	ID            int64     `db:"id" json:"id"`
	CustomerID    *int64    `db:"customer_id" json:"customer_id"`
	OpportunityID *int64    `db:"opportunity_id" json:"opportunity_id"`
	TaskType      string    `db:"task_type" json:"task_type"`
	Description   string    `db:"description" json:"description"`
	Notification  *string   `db:"notification" json:"notification"`
	AssignedTo    string    `db:"assigned_to" json:"assigned_to"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	CustomerName  *string   `db:"customer_name" json:"customer_name,omitempty"`
}

// Project represents a customer project with an optional uploaded report file
type Project struct {
	ID           int64      `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Description  string     `db:"description" json:"description"`
	Status       string     `db:"status" json:"status"`
	StartDate    *time.Time `db:"start_date" json:"start_date"`
	EndDate      *time.Time `db:"end_date" json:"end_date"`
	AssignedTo   string     `db:"assigned_to" json:"assigned_to"`
	ReportUpload *string    `db:"report_upload" json:"report_upload"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// Report represents a generated report file and its metadata
type Report struct {
	ReportID      int64     `db:"report_id" json:"report_id"`
	Title         string    `db:"title" json:"title"`
	TaskType      string    `db:"task_type" json:"task_type"`
	TaskStatus    string    `db:"task_status" json:"task_status"`
	Description   string    `db:"description" json:"description"`
	FileExtension string    `db:"file_extension" json:"file_extension"`
	FileName      string    `db:"file_name" json:"file_name"`
	FilePath      string    `db:"file_path" json:"file_path"`
	FileSize      int64     `db:"file_size" json:"file_size"`
	Signature     string    `db:"signature" json:"signature"`
	CustomerID    *int64    `db:"customer_id" json:"customer_id"`
	ProjectID     *int64    `db:"project_id" json:"project_id"`
	CreatedBy     *int64    `db:"created_by" json:"created_by"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// User represents a CRM user account
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
	Roles    string `db:"roles" json:"roles"`
	Password string `db:"password" json:"-"`
	Contacts string `db:"contacts" json:"contacts"`
}

// Admin represents the administrator account
type Admin struct {
	AdminID  int64  `db:"admin_id" json:"id"`
	UsersID  *int64 `db:"users_id" json:"users_id,omitempty"`
	Username string `db:"username" json:"username"`
	Password string `db:"password" json:"-"`
	Role     string `db:"role" json:"role"`
}

// SMSRecord represents an outbound SMS send attempt
type SMSRecord struct {
	ID           int64     `db:"id" json:"id"`
	Message      string    `db:"message" json:"message"`
	PhoneNumbers string    `db:"phone_numbers" json:"phone_numbers"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SMS statuses
const (
	SMSStatusSent   = "sent"
	SMSStatusFailed = "failed"
)

// SystemLog represents one entry in the admin audit log
type SystemLog struct {
	ID        int64     `db:"id" json:"id"`
	Level     string    `db:"level" json:"level"`
	Message   string    `db:"message" json:"message"`
	UserID    *int64    `db:"user_id" json:"user_id"`
	IPAddress *string   `db:"ip_address" json:"ip_address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ServiceCount is a per-service customer count
type ServiceCount struct {
	Service string `db:"service" json:"service"`
	Count   int64  `db:"count" json:"count"`
}

// MonthlyCount is a per-month customer count with a running total
type MonthlyCount struct {
	Date            string `db:"date" json:"date"`
	Count           int64  `db:"count" json:"count"`
	CumulativeCount int64  `db:"cumulative_count" json:"cumulative_count"`
}

// ServiceMonthlyCount is a per-month, per-service customer count
type ServiceMonthlyCount struct {
	Date    string `db:"date" json:"date"`
	Service string `db:"service" json:"service"`
	Count   int64  `db:"count" json:"count"`
}

// StatusCount is a per-status activity count
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int64  `db:"count" json:"count"`
}
