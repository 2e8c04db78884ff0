// Package model holds the desktop client's entity types. JSON field names
// are camelCase because the local cache files and the UI layer both consume
// them in that shape; the wire rows of the table API use snake_case and are
// produced by the mapper package.
package model

// Payment status values for enrollments
const (
	PaymentPending   = "pending"
	PaymentPartial   = "partial"
	PaymentCompleted = "completed"
	PaymentExempt    = "exempt"
)

// Attendance status values
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
)

// Monthly payment status values
const (
	MonthlyPaymentPending = "pending"
	MonthlyPaymentPaid    = "paid"
	MonthlyPaymentOverdue = "overdue"
)

// CourseSchedule describes when a course meets
type CourseSchedule struct {
	StartDate     string   `json:"startDate"`         // YYYY-MM-DD
	EndDate       string   `json:"endDate,omitempty"` // YYYY-MM-DD
	DaysOfWeek    []int    `json:"daysOfWeek"`        // 0=Sunday .. 6=Saturday
	StartTime     string   `json:"startTime"`         // HH:mm
	EndTime       string   `json:"endTime"`           // HH:mm
	TotalSessions int      `json:"totalSessions"`
	Holidays      []string `json:"holidays"` // YYYY-MM-DD
}

// Course is one offered class
type Course struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Classroom       string          `json:"classroom"`
	InstructorName  string          `json:"instructorName"`
	InstructorPhone string          `json:"instructorPhone"`
	Fee             int             `json:"fee"`
	MaxStudents     int             `json:"maxStudents"`
	CurrentStudents int             `json:"currentStudents"`
	Schedule        *CourseSchedule `json:"schedule,omitempty"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

// CourseUpdate is a partial course mutation; nil fields are left untouched
type CourseUpdate struct {
	Name            *string
	Classroom       *string
	InstructorName  *string
	InstructorPhone *string
	Fee             *int
	MaxStudents     *int
	CurrentStudents *int
	Schedule        *CourseSchedule
}

// Student is one enrolled member
type Student struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	Address   string `json:"address,omitempty"`
	BirthDate string `json:"birthDate,omitempty"` // YYYY-MM-DD
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// StudentUpdate is a partial student mutation
type StudentUpdate struct {
	Name      *string
	Phone     *string
	Email     *string
	Address   *string
	BirthDate *string
	Notes     *string
}

// Enrollment links a student to a course and tracks its payment state
type Enrollment struct {
	ID              string `json:"id"`
	CourseID        string `json:"courseId"`
	StudentID       string `json:"studentId"`
	EnrolledAt      string `json:"enrolledAt"`
	PaymentStatus   string `json:"paymentStatus"`
	PaidAmount      int    `json:"paidAmount"`
	RemainingAmount int    `json:"remainingAmount"`
	PaidAt          string `json:"paidAt,omitempty"` // YYYY-MM-DD
	PaymentMethod   string `json:"paymentMethod,omitempty"`
	DiscountAmount  int    `json:"discountAmount"`
	Notes           string `json:"notes,omitempty"`
}

// EnrollmentUpdate is a partial enrollment mutation
type EnrollmentUpdate struct {
	CourseID        *string
	StudentID       *string
	PaymentStatus   *string
	PaidAmount      *int
	RemainingAmount *int
	PaidAt          *string
	PaymentMethod   *string
	DiscountAmount  *int
	Notes           *string
}

// MonthlyPayment is one month's tuition ledger entry for an enrollment
type MonthlyPayment struct {
	ID            string `json:"id"`
	EnrollmentID  string `json:"enrollmentId"`
	Month         string `json:"month"` // YYYY-MM
	Amount        int    `json:"amount"`
	PaidAt        string `json:"paidAt,omitempty"` // YYYY-MM-DD
	PaymentMethod string `json:"paymentMethod,omitempty"`
	Status        string `json:"status"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// MonthlyPaymentUpdate is a partial monthly payment mutation
type MonthlyPaymentUpdate struct {
	Amount        *int
	PaidAt        *string
	PaymentMethod *string
	Status        *string
	Notes         *string
}

// Attendance is one attendance mark for a student in a course
type Attendance struct {
	ID        string `json:"id"`
	CourseID  string `json:"courseId"`
	StudentID string `json:"studentId"`
	Date      string `json:"date"` // YYYY-MM-DD
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
}

// AttendanceUpdate is a partial attendance mutation
type AttendanceUpdate struct {
	Date   *string
	Status *string
	Notes  *string
}
