// Package planlimits holds the per-plan capacity rules applied by the
// client before a mutation is attempted.
package planlimits

// Plan names as the activation response reports them
const (
	PlanBasic = "basic"
	PlanAdmin = "admin"
)

// Trial capacities, applied when no license is activated
const (
	TrialMaxCourses           = 5
	TrialMaxStudentsPerCourse = 10
)

// Limits caps what a plan may create. Zero means unlimited.
type Limits struct {
	MaxCourses           int
	MaxStudentsPerCourse int
}

// For returns the limits for a session. An unactivated session runs on the
// trial limits; every paid plan is uncapped.
func For(plan string, activated bool) Limits {
	if !activated {
		return Limits{
			MaxCourses:           TrialMaxCourses,
			MaxStudentsPerCourse: TrialMaxStudentsPerCourse,
		}
	}
	switch plan {
	case PlanBasic, PlanAdmin:
		return Limits{}
	default:
		return Limits{
			MaxCourses:           TrialMaxCourses,
			MaxStudentsPerCourse: TrialMaxStudentsPerCourse,
		}
	}
}

// CourseAllowed reports whether another course may be created
func (l Limits) CourseAllowed(currentCourses int) bool {
	return l.MaxCourses == 0 || currentCourses < l.MaxCourses
}

// EnrollmentAllowed reports whether another student fits in a course
func (l Limits) EnrollmentAllowed(currentStudents int) bool {
	return l.MaxStudentsPerCourse == 0 || currentStudents < l.MaxStudentsPerCourse
}
