// Package onboarding implements the onboarding chat agent: a two-node
// graph that extracts profile data from the conversation and then
// responds as a financial-education assistant, steering toward whatever
// information is still missing.
package onboarding

// Allowed enum values for profile fields.
var (
	LifeStages      = []string{"Student", "Professional", "Retired", "Parent"}
	AgeRanges       = []string{"0-9", "10-19", "20-29", "30-39", "40-49", "50-59", "60-69", "70-79", "80+"}
	FamilyStatuses  = []string{"Single", "Married", "Divorced", "With children"}
	KnowledgeLevels = []string{"Basic", "Intermediate", "Advanced", "Unknown"}
)

// KnowledgeUnknown is the default knowledge level before the user
// shares one. It counts as filled for completion purposes.
const KnowledgeUnknown = "Unknown"

// PersonalContext holds optional personal details that personalize
// examples and advice.
type PersonalContext struct {
	Hobbies      []string `json:"hobbies"`
	FamilyStatus string   `json:"family_status"`
}

// Data is everything collected during onboarding. Zero values mean the
// user has not shared that information yet.
type Data struct {
	LifeStage               string          `json:"life_stage"`
	Profession              string          `json:"profession"`
	AgeRange                string          `json:"age_range"`
	PersonalContext         PersonalContext `json:"personal_context"`
	FinancialGoals          []string        `json:"financial_goals"`
	FinancialInterests      []string        `json:"financial_interests"`
	FinancialConcerns       []string        `json:"financial_concerns"`
	FinancialKnowledgeLevel string          `json:"financial_knowledge_level"`
	PreviousExperience      []string        `json:"previous_experience"`

	// OnboardingCompleted flips to true once every required field is
	// filled, and never flips back.
	OnboardingCompleted bool `json:"onboarding_completed"`
}

// NewData returns empty onboarding data with defaults applied.
func NewData() Data {
	return Data{
		FinancialKnowledgeLevel: KnowledgeUnknown,
	}
}

// fieldDescriptions guides both the extraction schema and the chat
// prompt's description of what is still missing.
var fieldDescriptions = map[string]string{
	"life_stage": "The user's current stage of life. " +
		"Examples: 'Student', 'Working professional', 'Retired', 'Parent'. " +
		"This helps adapt financial education to the user's situation. " +
		"Leave empty if not yet provided.",
	"profession": "The user's current profession or occupation. " +
		"This helps provide relevant financial examples and analogies. " +
		"Leave empty if not yet provided.",
	"age_range": "The user's age range, such as '20-29', '30-39'. " +
		"This helps contextualize financial advice for different life stages. " +
		"Leave empty if not yet provided.",
	"personal_context.hobbies": "A list of the user's hobbies or personal interests, " +
		"such as sports, reading, music, travel. " +
		"Leave empty if the user has not shared this information yet.",
	"personal_context.family_status": "The user's current family or relationship status. " +
		"Examples: 'Single', 'Married', 'Divorced', 'With children'. " +
		"Leave empty if not yet provided.",
	"financial_goals": "A list of the user's main financial goals. " +
		"Examples: 'Save for a house', 'Build an emergency fund', 'Plan for retirement'. " +
		"Leave empty if not yet provided.",
	"financial_interests": "Topics or areas of finance the user is interested in learning about. " +
		"Examples: 'Investing', 'Budgeting', 'Debt management'. " +
		"Leave empty if not yet provided.",
	"financial_concerns": "Common financial worries, doubts, or challenges the user faces. " +
		"Examples: 'Managing debt', 'Understanding investments', 'Saving enough'. " +
		"Leave empty if not yet provided.",
	"financial_knowledge_level": "The user's self-assessed level of financial knowledge: " +
		"'Basic', 'Intermediate' or 'Advanced'. " +
		"Use 'Unknown' if not yet provided.",
	"previous_experience": "Relevant previous experience with financial products, services, or education. " +
		"Examples: 'Has invested in stocks', 'Attended a finance workshop'. " +
		"Leave empty if not yet provided.",
}
