package onboarding

// MissingFields returns dotted paths of required fields the user has
// not provided yet, in a stable order. Empty strings and empty lists
// count as missing; fields with a non-empty default (the knowledge
// level) and booleans never do.
func (d Data) MissingFields() []string {
	var missing []string

	if d.LifeStage == "" {
		missing = append(missing, "life_stage")
	}
	if d.Profession == "" {
		missing = append(missing, "profession")
	}
	if d.AgeRange == "" {
		missing = append(missing, "age_range")
	}
	if len(d.PersonalContext.Hobbies) == 0 {
		missing = append(missing, "personal_context.hobbies")
	}
	if d.PersonalContext.FamilyStatus == "" {
		missing = append(missing, "personal_context.family_status")
	}
	if len(d.FinancialGoals) == 0 {
		missing = append(missing, "financial_goals")
	}
	if len(d.FinancialInterests) == 0 {
		missing = append(missing, "financial_interests")
	}
	if len(d.FinancialConcerns) == 0 {
		missing = append(missing, "financial_concerns")
	}
	if len(d.PreviousExperience) == 0 {
		missing = append(missing, "previous_experience")
	}

	return missing
}

// Complete reports whether every required field has been provided.
func (d Data) Complete() bool {
	return len(d.MissingFields()) == 0
}
