// Package fallback structures a markdown-like study plan with pattern
// matching alone. It is the lower-fidelity path used when no model is
// available and never fails: missing sections get deterministic defaults.
package fallback

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shrreku/ai-studyagent/internal/enforce"
	"github.com/shrreku/ai-studyagent/internal/plan"
	"github.com/shrreku/ai-studyagent/internal/validate"
)

// Defaults used when a section is missing.
const (
	DefaultDayMinutes  = 240
	DefaultHoursPerDay = 2.0
)

// DefaultTips are returned when the text has no tips section.
var DefaultTips = []string{
	"Break your study sessions into 25-minute focused intervals with 5-minute breaks (Pomodoro Technique).",
	"Review your notes and key concepts regularly to reinforce learning.",
	"Get adequate sleep and exercise to optimize your learning capacity.",
	"Connect new information to concepts you already understand.",
	"Teach what you've learned to someone else to identify gaps in your understanding.",
}

var (
	nextHeading = regexp.MustCompile(`##`)

	goalHeading     = regexp.MustCompile(`(?i)##[ \t]*(?:Overall[ \t]*)?Goals?`)
	overviewHeading = regexp.MustCompile(`(?i)##[ \t]*(?:Introduction|Overview)`)
	conceptHeading  = regexp.MustCompile(`(?i)##[ \t]*(?:Core|Key|Fundamental)[ \t]*Concepts`)
	conceptLabel    = regexp.MustCompile(`(?i)(?:Key|Core|Important)\s+Concepts[:\n]`)
	dayHeading      = regexp.MustCompile(`(?i)##[ \t]*Day[ \t]*(\d+)`)
	tipHeading      = regexp.MustCompile(`(?i)##[ \t]*(?:General[ \t]*Tips|Study[ \t]*Tips|Tips)`)
	formulaHeading  = regexp.MustCompile(`(?i)##[ \t]*(?:Key[ \t]*Formulas|Formulas|Equations)`)

	bullet        = regexp.MustCompile(`(?m)^[ \t]*[*\-+][ \t]*(.+)$`)
	conceptItem   = regexp.MustCompile(`^([^:]+?)(?:[ \t]*:[ \t]*|[ \t]+-[ \t]+)(.+)$`)
	formulaItem   = regexp.MustCompile(`^([^:]+?)[ \t]*:[ \t]*(.+?)(?:[ \t]+-[ \t]+|[ \t]*:[ \t]*)(.*)$`)
	focusLine     = regexp.MustCompile(`(?im)^[ \t*+-]*Focus(?:[ \t]*(?:Area|Topic)s?(?:[ \t]*:|[ \t])|[ \t]*:)[ \t]*([^\n]+)`)
	summaryLine   = regexp.MustCompile(`(?im)^[ \t*+-]*Summary(?:[ \t]*:|[ \t])[ \t]*([^\n]+)`)
	timedActivity = regexp.MustCompile(`(?im)^[ \t]*[*\-+][ \t]*([^\n:(]+?)[ \t]*[(:][ \t]*(\d+)[ \t]*(hours?|hrs?|minutes?|mins?)[ \t]*(?:[),;]|$)[ \t]*([^\n]*)$`)
)

// Structure builds a plan from raw text. days and hours are the requested
// totals; non-positive values fall back to what the text holds. When the
// text's day headings disagree with a requested day count, the schedule is
// enforced to that count the same way model output is.
func Structure(text string, days int, hours float64) *plan.Plan {
	if hours <= 0 {
		hours = DefaultHoursPerDay
	}
	schedule := Schedule(text, days)
	if days <= 0 {
		days = max(len(schedule), 1)
		if len(schedule) == 0 {
			schedule = defaultSchedule(days)
		}
	}

	p := &plan.Plan{
		OverallGoal:    Goal(text, days, hours),
		TotalStudyDays: days,
		HoursPerDay:    hours,
		CoreConcepts:   Concepts(text),
		DailySchedule:  schedule,
		GeneralTips:    Tips(text),
		KeyFormulas:    Formulas(text),
	}
	if len(schedule) != days {
		p = enforceDays(p, days)
	}
	return p
}

// enforceDays pads or truncates the schedule to days. The unenforced plan is
// returned if the round trip through candidate form fails.
func enforceDays(p *plan.Plan, days int) *plan.Plan {
	c, err := p.ToCandidate()
	if err != nil {
		return p
	}
	out, err := validate.Validate(enforce.Enforce(c, enforce.Constraints{Days: &days}))
	if err != nil {
		return p
	}
	return out
}

// Goal returns the goal section, else the first overview paragraph, else a
// sentence built from the requested totals.
func Goal(text string, days int, hours float64) string {
	if body, ok := firstSection(text, goalHeading); ok {
		return body
	}
	if body, ok := firstSection(text, overviewHeading); ok {
		para, _, _ := strings.Cut(body, "\n\n")
		return strings.TrimSpace(para)
	}
	return fmt.Sprintf("Master the study materials over %d days with %s hours per day.",
		days, strconv.FormatFloat(hours, 'f', -1, 64))
}

// Concepts reads "- Name: Explanation" or "- Name - Explanation" bullets
// from concept sections. Other bullets become concept names.
func Concepts(text string) []plan.CoreConcept {
	var concepts []plan.CoreConcept

	found := sections(text, conceptHeading)
	if len(found) == 0 {
		for _, body := range sections(text, conceptLabel) {
			for _, point := range bullets(body) {
				concepts = append(concepts, plan.CoreConcept{
					Name:        point,
					Explanation: "Important concept: " + point,
				})
			}
		}
	}

	for _, body := range found {
		for _, point := range bullets(body) {
			if m := conceptItem.FindStringSubmatch(point); m != nil {
				concepts = append(concepts, plan.CoreConcept{
					Name:        strings.TrimSpace(m[1]),
					Explanation: strings.TrimSpace(m[2]),
				})
				continue
			}
			concepts = append(concepts, plan.CoreConcept{
				Name:        point,
				Explanation: "Important concept in the study material.",
			})
		}
	}

	if len(concepts) == 0 {
		concepts = []plan.CoreConcept{{
			Name:        "Core Concept 1",
			Explanation: "No specific concepts were identified in the study plan.",
		}}
	}
	return concepts
}

// Schedule reads "## Day N" blocks. Without any, it returns one generic
// day per requested day.
func Schedule(text string, days int) []plan.DailySchedule {
	locs := dayHeading.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return defaultSchedule(days)
	}

	schedule := make([]plan.DailySchedule, 0, len(locs))
	for _, loc := range locs {
		n, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		body := text[loc[1]:]
		if next := nextHeading.FindStringIndex(body); next != nil {
			body = body[:next[0]]
		}
		schedule = append(schedule, parseDay(n, body))
	}
	return schedule
}

func parseDay(n int, body string) plan.DailySchedule {
	d := plan.DailySchedule{
		Day:       n,
		FocusArea: fmt.Sprintf("Day %d Studies", n),
	}
	if m := focusLine.FindStringSubmatch(body); m != nil {
		d.FocusArea = strings.TrimSpace(m[1])
	}
	if m := summaryLine.FindStringSubmatch(body); m != nil {
		d.Summary = strings.TrimSpace(m[1])
	}

	for _, m := range timedActivity.FindAllStringSubmatch(body, -1) {
		topic := strings.TrimSpace(m[1])
		minutes, _ := strconv.Atoi(m[2])
		if strings.HasPrefix(strings.ToLower(m[3]), "h") {
			minutes *= 60
		}
		desc := strings.TrimSpace(m[4])
		if desc == "" {
			desc = "Study " + topic
		}
		d.StudyItems = append(d.StudyItems, plan.StudyItem{
			Topic:           topic,
			Description:     desc,
			DurationMinutes: minutes,
		})
	}

	if len(d.StudyItems) == 0 {
		var topics []string
		for _, b := range bullets(body) {
			if !focusLine.MatchString(b) && !summaryLine.MatchString(b) {
				topics = append(topics, b)
			}
		}
		for _, topic := range topics {
			d.StudyItems = append(d.StudyItems, plan.StudyItem{
				Topic:           topic,
				Description:     "Study " + topic,
				DurationMinutes: DefaultDayMinutes / len(topics),
			})
		}
	}

	if len(d.StudyItems) == 0 {
		d.StudyItems = []plan.StudyItem{defaultItem(n)}
	}
	return d
}

func defaultSchedule(days int) []plan.DailySchedule {
	out := make([]plan.DailySchedule, 0, max(days, 0))
	for n := 1; n <= days; n++ {
		out = append(out, plan.DailySchedule{
			Day:        n,
			FocusArea:  fmt.Sprintf("Day %d Studies", n),
			StudyItems: []plan.StudyItem{defaultItem(n)},
		})
	}
	return out
}

func defaultItem(n int) plan.StudyItem {
	return plan.StudyItem{
		Topic:           fmt.Sprintf("Day %d Studies", n),
		Description:     fmt.Sprintf("Complete studies for day %d", n),
		DurationMinutes: DefaultDayMinutes,
	}
}

// Tips returns bullets from tip sections, or DefaultTips.
func Tips(text string) []string {
	var tips []string
	for _, body := range sections(text, tipHeading) {
		tips = append(tips, bullets(body)...)
	}
	if len(tips) == 0 {
		return append([]string(nil), DefaultTips...)
	}
	return tips
}

// Formulas reads "- Name: formula - description" bullets from formula
// sections, then "- Name: formula", then bare expressions. It returns nil
// when the text has no formula section.
func Formulas(text string) []plan.KeyFormula {
	var formulas []plan.KeyFormula
	for _, body := range sections(text, formulaHeading) {
		for _, point := range bullets(body) {
			if m := formulaItem.FindStringSubmatch(point); m != nil {
				name := strings.TrimSpace(m[1])
				desc := strings.TrimSpace(m[3])
				if desc == "" {
					desc = "Formula for " + name
				}
				formulas = append(formulas, plan.KeyFormula{
					Name:        name,
					Formula:     strings.TrimSpace(m[2]),
					Description: desc,
				})
				continue
			}
			if name, expr, ok := strings.Cut(point, ":"); ok {
				name = strings.TrimSpace(name)
				formulas = append(formulas, plan.KeyFormula{
					Name:        name,
					Formula:     strings.TrimSpace(expr),
					Description: "Formula for " + name,
				})
				continue
			}
			formulas = append(formulas, plan.KeyFormula{
				Name:        fmt.Sprintf("Formula %d", len(formulas)+1),
				Formula:     point,
				Description: "Important formula from the study material.",
			})
		}
	}
	return formulas
}

// sections returns the text following each heading match up to the next
// "##" or the end of the text.
func sections(text string, heading *regexp.Regexp) []string {
	var out []string
	for _, loc := range heading.FindAllStringIndex(text, -1) {
		body := text[loc[1]:]
		if next := nextHeading.FindStringIndex(body); next != nil {
			body = body[:next[0]]
		}
		out = append(out, body)
	}
	return out
}

func firstSection(text string, heading *regexp.Regexp) (string, bool) {
	for _, body := range sections(text, heading) {
		body = strings.TrimSpace(strings.TrimLeft(body, " \t:"))
		if body != "" {
			return body, true
		}
	}
	return "", false
}

func bullets(body string) []string {
	var out []string
	for _, m := range bullet.FindAllStringSubmatch(body, -1) {
		if s := strings.TrimSpace(m[1]); s != "" {
			out = append(out, s)
		}
	}
	return out
}
