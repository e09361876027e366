package formatter

// responseSchema is the output contract every response must satisfy before
// emission. Fallback templates are validated against the same document.
const responseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["resultId", "results", "ideas", "decisionSupport", "ethicalSafeguards", "localAdaptation", "metadata"],
  "properties": {
    "resultId": {"type": "string", "minLength": 1},
    "sessionId": {"type": "string"},
    "results": {
      "type": "object",
      "required": ["businessIdea", "feasibilityScores", "roadmap", "pitchSummary"],
      "properties": {
        "businessIdea": {"type": "string", "minLength": 1},
        "feasibilityScores": {
          "type": "array",
          "minItems": 4,
          "maxItems": 4,
          "items": {
            "type": "object",
            "required": ["category", "value"],
            "properties": {
              "category": {"enum": ["market", "execution", "capital", "risk"]},
              "value": {"type": "integer", "minimum": 0, "maximum": 100},
              "explanation": {"type": "string"}
            }
          }
        },
        "roadmap": {
          "type": "array",
          "minItems": 4,
          "maxItems": 4,
          "items": {
            "type": "object",
            "required": ["phase", "title", "actions"],
            "properties": {
              "phase": {"type": "string", "pattern": "^Phase [1-4]$"},
              "title": {"type": "string", "minLength": 1},
              "actions": {"type": "array", "minItems": 1, "items": {"type": "string"}},
              "duration": {"type": "string"}
            }
          }
        },
        "pitchSummary": {"type": "string", "minLength": 1}
      }
    },
    "ideas": {
      "type": "array",
      "minItems": 3,
      "maxItems": 5,
      "items": {
        "type": "object",
        "required": ["name", "description"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string", "minLength": 1},
          "whyItFits": {"type": "string"}
        }
      }
    },
    "decisionSupport": {
      "type": "object",
      "required": ["pros", "cons", "risks", "mitigations", "revenueSimulation", "explainability"],
      "properties": {
        "pros": {"type": "array", "minItems": 1, "items": {"type": "string"}},
        "cons": {"type": "array", "minItems": 1, "items": {"type": "string"}},
        "risks": {"type": "array", "minItems": 1, "items": {"type": "string"}},
        "mitigations": {"type": "array", "minItems": 1, "items": {"type": "string"}},
        "revenueSimulation": {
          "type": "object",
          "required": ["year1RevenueMin", "year1RevenueMax", "year1ProfitMin", "year1ProfitMax", "budgetSuitability", "easeOfExecution", "disclaimer"],
          "properties": {
            "year1RevenueMin": {"type": "integer", "minimum": 0},
            "year1RevenueMax": {"type": "integer", "minimum": 0},
            "year1ProfitMin": {"type": "integer", "minimum": 0},
            "year1ProfitMax": {"type": "integer", "minimum": 0},
            "budgetSuitability": {"enum": ["excellent", "good", "moderate", "challenging"]},
            "easeOfExecution": {"enum": ["easy", "moderate", "challenging", "difficult"]},
            "notes": {"type": "string"},
            "disclaimer": {"type": "string", "minLength": 1}
          }
        },
        "explainability": {"type": "string", "minLength": 1},
        "warnings": {"type": "array", "items": {"type": "string"}}
      }
    },
    "ethicalSafeguards": {"type": "array", "minItems": 1, "items": {"type": "string"}},
    "localAdaptation": {"type": "string", "minLength": 1},
    "metadata": {
      "type": "object",
      "required": ["generatedAt", "latencyMs", "confidence"],
      "properties": {
        "generatedAt": {"type": "string"},
        "model": {"type": "string"},
        "secondaryModel": {"type": "string"},
        "latencyMs": {"type": "integer", "minimum": 0},
        "confidence": {"enum": ["low", "medium", "high"]}
      }
    }
  }
}`
