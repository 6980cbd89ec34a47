package plan

// FrontendPlan is the UI-facing projection of a Plan.
type FrontendPlan struct {
	OverallGoal    string            `json:"overallGoal"`
	TotalStudyDays int               `json:"totalStudyDays"`
	HoursPerDay    float64           `json:"hoursPerDay"`
	KeyConcepts    []FrontendConcept `json:"keyConcepts"`
	DailyBreakdown []FrontendDay     `json:"dailyBreakdown"`
	GeneralTips    []string          `json:"generalTips"`
	KeyFormulas    []FrontendFormula `json:"keyFormulas,omitempty"`
	Error          string            `json:"error,omitempty"`
}

// FrontendConcept narrows a CoreConcept to what the UI renders.
type FrontendConcept struct {
	Concept     string `json:"concept"`
	Explanation string `json:"explanation"`
}

// FrontendDay is one entry of dailyBreakdown.
type FrontendDay struct {
	Day           int            `json:"day"`
	DaySummary    string         `json:"daySummary"`
	FocusArea     string         `json:"focusArea,omitempty"`
	LearningGoals []string       `json:"learningGoals,omitempty"`
	ReviewTopics  []string       `json:"reviewTopics,omitempty"`
	Items         []FrontendItem `json:"items"`
}

// FrontendItem is a study item with derived hours.
type FrontendItem struct {
	Topic              string             `json:"topic"`
	Details            string             `json:"details"`
	DurationMinutes    int                `json:"durationMinutes,omitempty"`
	EstimatedTimeHours float64            `json:"estimatedTimeHours"`
	Resources          []FrontendResource `json:"resources"`
	IsCompleted        bool               `json:"isCompleted"`
	LearningObjectives []string           `json:"learningObjectives,omitempty"`
	Priority           string             `json:"priority,omitempty"`
}

// FrontendResource is a normalized resource descriptor.
type FrontendResource struct {
	Title       string  `json:"title"`
	Type        string  `json:"type"`
	URL         *string `json:"url"`
	Description string  `json:"description,omitempty"`
}

// FrontendFormula keeps the formula field names the UI already consumes.
type FrontendFormula struct {
	FormulaName  string            `json:"formula_name"`
	Formula      string            `json:"formula"`
	Description  string            `json:"description"`
	UsageContext string            `json:"usage_context,omitempty"`
	Variables    map[string]string `json:"variables,omitempty"`
	Examples     []string          `json:"examples,omitempty"`
}
