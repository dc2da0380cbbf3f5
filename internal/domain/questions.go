package domain

// QuestionOption is one selectable choice worth 0..3 points.
type QuestionOption struct {
	Text   string `json:"text"`
	Points int    `json:"points"`
}

// Question is one entry of the fixed evaluation survey.
type Question struct {
	ID      int              `json:"id"`
	Text    string           `json:"text"`
	Options []QuestionOption `json:"options"`
}

const (
	// QuestionCount is the size of the evaluation survey.
	QuestionCount = 15
	// MaxPointsPerQuestion is the value of the greenest option.
	MaxPointsPerQuestion = 3
	// MaxTotalPoints is the highest reachable raw total (15 questions x 3 points).
	MaxTotalPoints = QuestionCount * MaxPointsPerQuestion
)

// Questions returns the fixed evaluation survey. Treat the result as read-only.
func Questions() []Question {
	return evaluationQuestions
}

// QuestionByID looks up a survey question, ok=false for unknown ids.
func QuestionByID(id int) (Question, bool) {
	for _, q := range evaluationQuestions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

var evaluationQuestions = []Question{
	{
		ID:   1,
		Text: "How large is your home?",
		Options: []QuestionOption{
			{Text: "Small (under 1,000 sq ft)", Points: 3},
			{Text: "Medium (1,000-2,000 sq ft)", Points: 2},
			{Text: "Large (2,000-3,000 sq ft)", Points: 1},
			{Text: "Very large (over 3,000 sq ft)", Points: 0},
		},
	},
	{
		ID:   2,
		Text: "When was your home built?",
		Options: []QuestionOption{
			{Text: "After 2010", Points: 3},
			{Text: "1990–2010", Points: 2},
			{Text: "1970–1990", Points: 1},
			{Text: "Before 1970", Points: 0},
		},
	},
	{
		ID:   3,
		Text: "What type of heating and cooling system do you use?",
		Options: []QuestionOption{
			{Text: "High-efficiency system (e.g., ENERGY STAR-certified)", Points: 3},
			{Text: "Modern system (less than 10 years old)", Points: 2},
			{Text: "Standard system (10–20 years old)", Points: 1},
			{Text: "Older system (over 20 years old)", Points: 0},
		},
	},
	{
		ID:   4,
		Text: "How would you rate the insulation in your home?",
		Options: []QuestionOption{
			{Text: "Excellent (newly insulated or well-maintained)", Points: 3},
			{Text: "Good (some insulation updates)", Points: 2},
			{Text: "Average (standard insulation, no upgrades)", Points: 1},
			{Text: "Poor (little to no insulation upgrades)", Points: 0},
		},
	},
	{
		ID:   5,
		Text: "What type of windows do you have?",
		Options: []QuestionOption{
			{Text: "ENERGY STAR-rated or double-pane windows", Points: 3},
			{Text: "Newer windows with some efficiency features", Points: 2},
			{Text: "Standard single-pane windows", Points: 1},
			{Text: "Older, inefficient windows", Points: 0},
		},
	},
	{
		ID:   6,
		Text: "What percentage of your home uses energy-efficient lighting (e.g., LEDs, CFLs)?",
		Options: []QuestionOption{
			{Text: "90–100%", Points: 3},
			{Text: "50–89%", Points: 2},
			{Text: "10–49%", Points: 1},
			{Text: "Less than 10%", Points: 0},
		},
	},
	{
		ID:   7,
		Text: "How energy-efficient are your major appliances (refrigerator, dishwasher, washer/dryer)?",
		Options: []QuestionOption{
			{Text: "Mostly energy-efficient models (ENERGY STAR-certified)", Points: 3},
			{Text: "Some energy-efficient models", Points: 2},
			{Text: "Standard models with moderate energy efficiency", Points: 1},
			{Text: "Older, inefficient models", Points: 0},
		},
	},
	{
		ID:   8,
		Text: "What type of water heating system do you use?",
		Options: []QuestionOption{
			{Text: "Tankless or solar water heater", Points: 3},
			{Text: "High-efficiency tank water heater", Points: 2},
			{Text: "Standard tank water heater", Points: 1},
			{Text: "Older water heater (over 15 years old)", Points: 0},
		},
	},
	{
		ID:   9,
		Text: "What is your primary mode of transportation?",
		Options: []QuestionOption{
			{Text: "Electric vehicle (EV)", Points: 3},
			{Text: "Hybrid vehicle", Points: 2},
			{Text: "Fuel-efficient gasoline vehicle", Points: 1},
			{Text: "Standard gasoline vehicle", Points: 0},
		},
	},
	{
		ID:   10,
		Text: "Do you have any renewable energy systems (e.g., solar panels) installed?",
		Options: []QuestionOption{
			{Text: "Yes, I generate more than 50% of my energy from renewables", Points: 3},
			{Text: "Yes, but it covers less than 50% of my energy", Points: 2},
			{Text: "No, but I’m considering installing renewables", Points: 1},
			{Text: "No, and I’m not considering it", Points: 0},
		},
	},
	{
		ID:   11,
		Text: "Do you use smart devices to optimize energy consumption (e.g., smart thermostats, smart plugs)?",
		Options: []QuestionOption{
			{Text: "Yes, in most areas of the home", Points: 3},
			{Text: "Yes, in some areas", Points: 2},
			{Text: "No, but planning to install some", Points: 1},
			{Text: "No, not interested", Points: 0},
		},
	},
	{
		ID:   12,
		Text: "How often do you actively practice energy-saving habits (e.g., turning off lights, unplugging electronics)?",
		Options: []QuestionOption{
			{Text: "Always", Points: 3},
			{Text: "Often", Points: 2},
			{Text: "Sometimes", Points: 1},
			{Text: "Rarely", Points: 0},
		},
	},
	{
		ID:   13,
		Text: "Do you have a budget dedicated to energy-saving upgrades (e.g., appliances, insulation)?",
		Options: []QuestionOption{
			{Text: "Yes, regularly set aside funds", Points: 3},
			{Text: "Occasionally set aside funds", Points: 2},
			{Text: "No, but interested in starting", Points: 1},
			{Text: "No, and not planning to budget for energy efficiency", Points: 0},
		},
	},
	{
		ID:   14,
		Text: "What is your average monthly energy bill?",
		Options: []QuestionOption{
			{Text: "Less than $100", Points: 3},
			{Text: "$100–$200", Points: 2},
			{Text: "$200–$300", Points: 1},
			{Text: "Over $300", Points: 0},
		},
	},
	{
		ID:   15,
		Text: "Do you participate in local energy-saving programs or community challenges?",
		Options: []QuestionOption{
			{Text: "Actively involved", Points: 3},
			{Text: "Occasionally participate", Points: 2},
			{Text: "Interested but haven't participated yet", Points: 1},
			{Text: "Not involved and not interested", Points: 0},
		},
	},
}
