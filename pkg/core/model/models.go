package model

import "time"

type Role string

const (
	RoleWorker Role = "worker"
	RoleOrg    Role = "org"
	RoleAdmin  Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleWorker || r == RoleOrg || r == RoleAdmin
}

// User represents an authenticated account
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	Roles     []string  `json:"roles,omitempty"`
	OrgID     int64     `json:"org_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	IsBlocked bool      `json:"is_blocked"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkerProfile represents a worker's public profile
type WorkerProfile struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	Nickname          string    `json:"nickname"`
	TrustScore        float64   `json:"trust_score"`
	PreferredRegions  []string  `json:"preferred_regions,omitempty"`
	PreferredJobTypes []string  `json:"preferred_job_types,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	WalletAddress     string    `json:"wallet_address,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// Organization represents an event-hosting organization
type Organization struct {
	ID                 int64              `json:"id"`
	Name               string             `json:"name"`
	Description        string             `json:"description,omitempty"`
	BusinessNumber     string             `json:"business_number,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	FollowerCount      int                `json:"follower_count"`
	OwnerID            int64              `json:"owner_id"`
	CreatedAt          time.Time          `json:"created_at"`
}

type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventOpen      EventStatus = "open"
	EventClosed    EventStatus = "closed"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// Position is a role within an event with its own headcount
type Position struct {
	Name      string `json:"name"`
	Headcount int    `json:"headcount"`
	Filled    int    `json:"filled"`
}

// Event represents a job posting
type Event struct {
	ID             int64       `json:"id"`
	OrgID          int64       `json:"org_id"`
	OrgName        string      `json:"org_name,omitempty"`
	Title          string      `json:"title"`
	Description    string      `json:"description,omitempty"`
	Location       string      `json:"location"`
	Latitude       float64     `json:"latitude,omitempty"`
	Longitude      float64     `json:"longitude,omitempty"`
	StartsAt       time.Time   `json:"starts_at"`
	EndsAt         time.Time   `json:"ends_at"`
	HourlyWage     int64       `json:"hourly_wage"`
	Positions      []Position  `json:"positions,omitempty"`
	TotalHeadcount int         `json:"total_headcount"`
	FilledCount    int         `json:"filled_count"`
	Status         EventStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
}

// IsFull reports whether every seat in the event is taken
func (e Event) IsFull() bool {
	return e.TotalHeadcount > 0 && e.FilledCount >= e.TotalHeadcount
}

// EventInput is the payload for creating or updating an event
type EventInput struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location" validate:"required"`
	Latitude    float64    `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   float64    `json:"longitude,omitempty" validate:"omitempty,longitude"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      time.Time  `json:"ends_at" validate:"required,gtfield=StartsAt"`
	HourlyWage  int64      `json:"hourly_wage" validate:"required,min=1"`
	Positions   []Position `json:"positions" validate:"required,min=1,dive"`
}

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationCancelled ApplicationStatus = "cancelled"
)

// Application represents a worker's application to an event
type Application struct {
	ID         int64             `json:"id"`
	EventID    int64             `json:"event_id"`
	EventTitle string            `json:"event_title,omitempty"`
	WorkerID   int64             `json:"worker_id"`
	WorkerName string            `json:"worker_name,omitempty"`
	Position   string            `json:"position,omitempty"`
	Status     ApplicationStatus `json:"status"`
	Message    string            `json:"message,omitempty"`
	AppliedAt  time.Time         `json:"applied_at"`
	DecidedAt  *time.Time        `json:"decided_at,omitempty"`
}

// ApplicationInput is the payload for applying to an event
type ApplicationInput struct {
	EventID  int64  `json:"event_id" validate:"required,min=1"`
	Position string `json:"position,omitempty"`
	Message  string `json:"message,omitempty" validate:"max=500"`
}

// Attendance represents a check-in/check-out record
type Attendance struct {
	ID          int64      `json:"id"`
	EventID     int64      `json:"event_id"`
	WorkerID    int64      `json:"worker_id"`
	WorkerName  string     `json:"worker_name,omitempty"`
	CheckInAt   *time.Time `json:"check_in_at,omitempty"`
	CheckOutAt  *time.Time `json:"check_out_at,omitempty"`
	IsLate      bool       `json:"is_late"`
	LateMinutes int        `json:"late_minutes"`
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// PayrollRecord represents server-computed pay for one worker at one event
type PayrollRecord struct {
	ID            int64         `json:"id"`
	EventID       int64         `json:"event_id"`
	EventTitle    string        `json:"event_title,omitempty"`
	WorkerID      int64         `json:"worker_id"`
	WorkerName    string        `json:"worker_name,omitempty"`
	WorkerEmail   string        `json:"worker_email,omitempty"`
	WorkedMinutes int           `json:"worked_minutes"`
	HourlyWage    int64         `json:"hourly_wage"`
	GrossPay      int64         `json:"gross_pay"`
	Deductions    int64         `json:"deductions"`
	NetPay        int64         `json:"net_pay"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
}

// Metrics holds a worker's gamification numbers
type Metrics struct {
	Level         int     `json:"level"`
	Experience    int     `json:"experience"`
	StreakDays    int     `json:"streak_days"`
	LongestStreak int     `json:"longest_streak"`
	WPTBalance    float64 `json:"wpt_balance"`
	TotalWorked   int     `json:"total_worked"`
	TrustScore    float64 `json:"trust_score"`
}

// Badge is an NFT badge issued to a worker
type Badge struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	TokenID         string    `json:"token_id,omitempty"`
	ContractAddress string    `json:"contract_address,omitempty"`
	IssuedAt        time.Time `json:"issued_at"`
}

// ScheduleItem is an accepted shift on the worker's calendar
type ScheduleItem struct {
	EventID    int64       `json:"event_id"`
	EventTitle string      `json:"event_title"`
	OrgName    string      `json:"org_name,omitempty"`
	Position   string      `json:"position,omitempty"`
	Location   string      `json:"location,omitempty"`
	StartsAt   time.Time   `json:"starts_at"`
	EndsAt     time.Time   `json:"ends_at"`
	Attendance *Attendance `json:"attendance,omitempty"`
}

// AdminStats are the platform-wide counters on the admin dashboard
type AdminStats struct {
	TotalUsers           int   `json:"total_users"`
	TotalWorkers         int   `json:"total_workers"`
	TotalOrganizations   int   `json:"total_organizations"`
	PendingOrganizations int   `json:"pending_organizations"`
	TotalEvents          int   `json:"total_events"`
	ActiveEvents         int   `json:"active_events"`
	TotalPayroll         int64 `json:"total_payroll"`
}

// WorkScore is the admin-facing composite reliability metric
type WorkScore struct {
	WorkerID         int64   `json:"worker_id"`
	AttendanceRate   float64 `json:"attendance_rate"`
	PunctualityRate  float64 `json:"punctuality_rate"`
	CancellationRate float64 `json:"cancellation_rate"`
	Score            float64 `json:"score"`
}

// WorkerSummary is a row in the admin worker listing
type WorkerSummary struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	Name        string  `json:"name"`
	Nickname    string  `json:"nickname"`
	Email       string  `json:"email"`
	TrustScore  float64 `json:"trust_score"`
	Level       int     `json:"level"`
	TotalWorked int     `json:"total_worked"`
}

// Follow is a directed worker -> organization relationship
type Follow struct {
	OrgID      int64     `json:"org_id"`
	OrgName    string    `json:"org_name,omitempty"`
	WorkerID   int64     `json:"worker_id"`
	WorkerName string    `json:"worker_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Invite is an organization's invitation of a worker to an event
type Invite struct {
	ID        int64     `json:"id"`
	OrgID     int64     `json:"org_id"`
	EventID   int64     `json:"event_id"`
	WorkerID  int64     `json:"worker_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
