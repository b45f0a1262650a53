package activity

// activitySchemaBody is the schema for a single activity, shared by the
// single and batch generation calls.
const activitySchemaBody = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["title", "description", "overall_objective", "background", "steps", "glossary", "alternative_methods", "level"],
  "properties": {
    "title": {
      "type": "string",
      "description": "The name of the activity. Engaging, and clearly indicating the main topic or goal."
    },
    "description": {
      "type": "string",
      "description": "A concise background summary introducing the main topic and why it matters to the user."
    },
    "overall_objective": {
      "type": "string",
      "description": "What the user will accomplish or understand by the end of the activity."
    },
    "background": {
      "type": "object",
      "additionalProperties": false,
      "required": ["concepts", "content"],
      "properties": {
        "concepts": {
          "type": "array",
          "items": {"type": "string"},
          "description": "Key financial concepts introduced in this activity, as short phrases."
        },
        "content": {
          "type": "string",
          "description": "A teaching explanation covering each concept, tailored to the user."
        }
      }
    },
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["index", "title", "content", "step_objective"],
        "properties": {
          "index": {"type": "integer", "description": "Step number, starting from 1."},
          "title": {"type": "string", "description": "Short, descriptive title for the step."},
          "content": {"type": "string", "description": "Clear, actionable instruction for the step."},
          "step_objective": {"type": "string", "description": "What the user achieves by completing this step."}
        }
      },
      "description": "Sequential steps that build toward the overall objective."
    },
    "glossary": {
      "type": ["object", "null"],
      "additionalProperties": {"type": "string"},
      "description": "Key terms and their definitions."
    },
    "alternative_methods": {
      "type": ["array", "null"],
      "items": {"type": "string"},
      "description": "Non-technical or alternative ways to complete the activity."
    },
    "level": {
      "type": "string",
      "enum": ["beginner", "intermediate", "advanced"],
      "description": "The difficulty level of the activity."
    }
  }
}`

// activitiesSchema wraps activitySchemaBody in a list for batch
// generation.
const activitiesSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["activities"],
  "properties": {
    "activities": {
      "type": "array",
      "items": ` + activitySchemaBody + `,
      "description": "Generated activities, each tailored to the user's context and goals."
    }
  }
}`

// progressToolSchema describes the update_activity_progress tool
// arguments.
const progressToolSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["progress"],
  "properties": {
    "progress": {
      "type": "object",
      "additionalProperties": false,
      "required": ["steps"],
      "properties": {
        "steps": {
          "type": "array",
          "items": {
            "type": "object",
            "additionalProperties": false,
            "required": ["index", "status"],
            "properties": {
              "index": {"type": "integer", "description": "Step number, starting from 1."},
              "status": {
                "type": "string",
                "enum": ["not-started", "in-progress", "completed"],
                "description": "Current status of the step."
              }
            }
          },
          "description": "The status of every step in the activity, not just the ones that changed."
        }
      }
    }
  }
}`
