package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// The rule catalog is ordered and first-match wins: later rules are
// unreachable once an earlier one matches, so ordering is part of the
// contract. A rule that matches but cannot extract a required id stops the
// whole parse rather than falling through.

var (
	reEnrolled          = regexp.MustCompile(`how many.*(students?).*(enrolled|in the course|total)`)
	reCompletedModule   = regexp.MustCompile(`how many.*completed.*module`)
	reCompletedButNot   = regexp.MustCompile(`how many.*completed.*(assessment|project).*but.*not.*(assessment|project)`)
	reCompletedAssess   = regexp.MustCompile(`how many.*completed.*(assessment|project)`)
	reCompletedCourse   = regexp.MustCompile(`how many.*completed.*course`)
	reAvgAssessScore    = regexp.MustCompile(`(average|avg).*score.*(assessment|project)`)
	reStudentAvgScore   = regexp.MustCompile(`(what|student).*(average|avg).*score`)
	reTimeOnModule      = regexp.MustCompile(`(how long|time).*module`)
	reAvgModuleRating   = regexp.MustCompile(`(average|avg).*rating.*module`)
	reFeedbackCount     = regexp.MustCompile(`(how many|feedback|comments).*feedback.*module`)
	reModuleSatisfied   = regexp.MustCompile(`(satisfaction|satisfied).*(rate|percentage).*module`)
	reCourseAvgRating   = regexp.MustCompile(`(average|avg).*rating.*course`)
	reCourseSatisfied   = regexp.MustCompile(`(satisfaction|satisfied).*(rate|percentage).*course`)
	reLowRatedModules   = regexp.MustCompile(`(low|poor|worst).*(rated|rating|performance).*modules?`)
	reAssessProjectNums = regexp.MustCompile(`(?:assessment|project)\s+(\d+)`)

	intAfter = map[string]*regexp.Regexp{
		"module":     regexp.MustCompile(`module\s+(\d+)`),
		"assessment": regexp.MustCompile(`assessment\s+(\d+)`),
		"project":    regexp.MustCompile(`project\s+(\d+)`),
		"student":    regexp.MustCompile(`student\s+(\d+)`),
	}
)

// firstIntAfter returns the first integer following the keyword token
func firstIntAfter(q, keyword string) (int64, bool) {
	m := intAfter[keyword].FindStringSubmatch(q)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

type rule func(q string) (in *Intent, matched bool)

var ruleCatalog = []rule{
	// 1) enrollment count
	func(q string) (*Intent, bool) {
		if !reEnrolled.MatchString(q) {
			return nil, false
		}
		return &Intent{Metric: "students_enrolled", Params: map[string]any{}}, true
	},
	// 2) completed module X
	func(q string) (*Intent, bool) {
		if !reCompletedModule.MatchString(q) {
			return nil, false
		}
		mid, ok := firstIntAfter(q, "module")
		if !ok {
			return nil, true
		}
		return &Intent{Metric: "students_completed_module", Params: map[string]any{"module_id": mid}}, true
	},
	// 3) completed assessment X but not Y
	func(q string) (*Intent, bool) {
		if !reCompletedButNot.MatchString(q) {
			return nil, false
		}
		matches := reAssessProjectNums.FindAllStringSubmatch(q, -1)
		if len(matches) < 2 {
			return nil, true
		}
		x, errX := strconv.ParseInt(matches[0][1], 10, 64)
		y, errY := strconv.ParseInt(matches[1][1], 10, 64)
		if errX != nil || errY != nil {
			return nil, true
		}
		return &Intent{
			Metric: "students_completed_assessment_but_not_other",
			Params: map[string]any{"assessment_x": x, "assessment_y": y},
		}, true
	},
	// 4) completed assessment X
	func(q string) (*Intent, bool) {
		if !reCompletedAssess.MatchString(q) {
			return nil, false
		}
		aid, ok := firstIntAfter(q, "assessment")
		if !ok {
			aid, ok = firstIntAfter(q, "project")
		}
		if !ok {
			return nil, true
		}
		return &Intent{Metric: "students_completed_assessment", Params: map[string]any{"assessment_id": aid}}, true
	},
	// 5) completed the course
	func(q string) (*Intent, bool) {
		if !reCompletedCourse.MatchString(q) {
			return nil, false
		}
		return &Intent{Metric: "students_completed_course", Params: map[string]any{}}, true
	},
	// 6) average score on assessment X
	func(q string) (*Intent, bool) {
		if !reAvgAssessScore.MatchString(q) {
			return nil, false
		}
		aid, ok := firstIntAfter(q, "assessment")
		if !ok {
			aid, ok = firstIntAfter(q, "project")
		}
		if !ok {
			return nil, true
		}
		return &Intent{Metric: "average_assessment_score", Params: map[string]any{"assessment_id": aid}}, true
	},
	// 7) student Y's average score; only when no assessment/project is named
	func(q string) (*Intent, bool) {
		if !reStudentAvgScore.MatchString(q) ||
			strings.Contains(q, "assessment") || strings.Contains(q, "project") {
			return nil, false
		}
		sid, ok := firstIntAfter(q, "student")
		if !ok {
			return nil, true
		}
		return &Intent{Metric: "student_average_score", Params: map[string]any{"student_id": sid}}, true
	},
	// 8) time on module X, average vs total
	func(q string) (*Intent, bool) {
		if !reTimeOnModule.MatchString(q) {
			return nil, false
		}
		mid, ok := firstIntAfter(q, "module")
		if !ok {
			return nil, true
		}
		metric := "total_time_on_module"
		if strings.Contains(q, "average") || strings.Contains(q, "avg") {
			metric = "average_time_on_module_per_student"
		}
		return &Intent{Metric: metric, Params: map[string]any{"module_id": mid}}, true
	},
	// 9) average rating on module X
	func(q string) (*Intent, bool) {
		if !reAvgModuleRating.MatchString(q) {
			return nil, false
		}
		mid, ok := firstIntAfter(q, "module")
		if !ok {
			return nil, true
		}
		return &Intent{Metric: "average_module_rating", Params: map[string]any{"module_id": mid}}, true
	},
	// 10) feedback count for module X
	func(q string) (*Intent, bool) {
		if !reFeedbackCount.MatchString(q) {
			return nil, false
		}
		mid, ok := firstIntAfter(q, "module")
		if !ok {
			return nil, true
		}
		return &Intent{Metric: "module_feedback_count", Params: map[string]any{"module_id": mid}}, true
	},
	// 11) satisfaction rate for module X
	func(q string) (*Intent, bool) {
		if !reModuleSatisfied.MatchString(q) {
			return nil, false
		}
		mid, ok := firstIntAfter(q, "module")
		if !ok {
			return nil, true
		}
		return &Intent{Metric: "module_satisfaction_rate", Params: map[string]any{"module_id": mid}}, true
	},
	// 12) course average rating
	func(q string) (*Intent, bool) {
		if !reCourseAvgRating.MatchString(q) {
			return nil, false
		}
		return &Intent{Metric: "course_average_rating", Params: map[string]any{}}, true
	},
	// 13) course satisfaction rate
	func(q string) (*Intent, bool) {
		if !reCourseSatisfied.MatchString(q) {
			return nil, false
		}
		return &Intent{Metric: "course_satisfaction_rate", Params: map[string]any{}}, true
	},
	// 14) low rated modules
	func(q string) (*Intent, bool) {
		if !reLowRatedModules.MatchString(q) {
			return nil, false
		}
		return &Intent{Metric: "low_rated_modules", Params: map[string]any{}}, true
	},
}

// ParseQuestion maps a natural-language question to an Intent using the
// ordered rule catalog. Returns nil when no rule fires, or when the first
// firing rule cannot extract a required id.
func ParseQuestion(question string) *Intent {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, r := range ruleCatalog {
		if in, matched := r(q); matched {
			return in
		}
	}
	return nil
}
