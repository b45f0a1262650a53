package onboarding

// dataSchema is the strict JSON schema the extraction call must
// conform to. It mirrors Data field for field; descriptions come from
// fieldDescriptions and are inlined so the model sees them.
const dataSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": [
    "life_stage",
    "profession",
    "age_range",
    "personal_context",
    "financial_goals",
    "financial_interests",
    "financial_concerns",
    "financial_knowledge_level",
    "previous_experience",
    "onboarding_completed"
  ],
  "properties": {
    "life_stage": {
      "type": "string",
      "enum": ["", "Student", "Professional", "Retired", "Parent"],
      "description": "The user's current stage of life. Empty string if not yet provided."
    },
    "profession": {
      "type": "string",
      "description": "The user's current profession or occupation. Empty string if not yet provided."
    },
    "age_range": {
      "type": "string",
      "enum": ["", "0-9", "10-19", "20-29", "30-39", "40-49", "50-59", "60-69", "70-79", "80+"],
      "description": "The user's age range. Empty string if not yet provided."
    },
    "personal_context": {
      "type": "object",
      "additionalProperties": false,
      "required": ["hobbies", "family_status"],
      "properties": {
        "hobbies": {
          "type": "array",
          "items": {"type": "string"},
          "description": "Hobbies or personal interests the user enjoys. Empty if not yet shared."
        },
        "family_status": {
          "type": "string",
          "enum": ["", "Single", "Married", "Divorced", "With children"],
          "description": "The user's family or relationship status. Empty string if not yet provided."
        }
      }
    },
    "financial_goals": {
      "type": "array",
      "items": {"type": "string"},
      "description": "The user's main financial goals, such as 'Save for a house'. Empty if not yet provided."
    },
    "financial_interests": {
      "type": "array",
      "items": {"type": "string"},
      "description": "Finance topics the user wants to learn about, such as 'Investing'. Empty if not yet provided."
    },
    "financial_concerns": {
      "type": "array",
      "items": {"type": "string"},
      "description": "Financial worries or challenges the user faces, such as 'Managing debt'. Empty if not yet provided."
    },
    "financial_knowledge_level": {
      "type": "string",
      "enum": ["Basic", "Intermediate", "Advanced", "Unknown"],
      "description": "The user's self-assessed financial knowledge level. 'Unknown' if not yet provided."
    },
    "previous_experience": {
      "type": "array",
      "items": {"type": "string"},
      "description": "Previous experience with financial products or education. Empty if not yet provided."
    },
    "onboarding_completed": {
      "type": "boolean",
      "description": "True only when every other field is filled."
    }
  }
}`
