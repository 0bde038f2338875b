package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/qri-io/jsonschema"
)

// JSON Schemas for create payloads. Enum and cross-record checks happen in
// the handlers; the schemas catch shape errors before any store work.

const userSchemaJSON = `{
	"type": "object",
	"required": ["username", "name", "role"],
	"properties": {
		"username": {"type": "string", "minLength": 1},
		"name": {"type": "string", "minLength": 1},
		"role": {"type": "string", "enum": ["admin", "contractor"]},
		"specialties": {"type": "array", "items": {"type": "string"}}
	}
}`

const jobSchemaJSON = `{
	"type": "object",
	"required": ["title", "clientName", "startDate", "endDate", "status", "projectType"],
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"clientName": {"type": "string", "minLength": 1},
		"clientAddress": {"type": "string"},
		"startDate": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"endDate": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"assignedCrew": {"type": "array", "items": {"type": "string"}},
		"status": {"type": "string", "enum": ["scheduled", "in_progress", "completed", "cancelled"]},
		"notes": {"type": "string"},
		"reminders": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["date", "message", "type"],
				"properties": {
					"date": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
					"message": {"type": "string", "minLength": 1},
					"type": {"type": "string", "enum": ["general", "material_delivery", "inspection", "client_meeting"]}
				}
			}
		},
		"projectType": {"type": "string", "enum": ["bathroom", "kitchen", "other"]}
	}
}`

const communicationSchemaJSON = `{
	"type": "object",
	"required": ["jobId", "type", "subject", "message", "priority"],
	"properties": {
		"jobId": {"type": "string", "minLength": 1},
		"contractorId": {"type": "string"},
		"type": {"type": "string", "enum": ["material_request", "change_order", "issue_report", "question", "other"]},
		"subject": {"type": "string", "minLength": 1},
		"message": {"type": "string", "minLength": 1},
		"priority": {"type": "string", "enum": ["low", "medium", "high"]}
	}
}`

var (
	userSchema          = mustCompileSchema(userSchemaJSON)
	jobSchema           = mustCompileSchema(jobSchemaJSON)
	communicationSchema = mustCompileSchema(communicationSchemaJSON)
)

func mustCompileSchema(src string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(src), rs); err != nil {
		panic(fmt.Sprintf("bad embedded schema: %v", err))
	}
	return rs
}

// validatePayload runs the schema over the raw body and returns the first
// violation as a user-facing message.
func validatePayload(ctx context.Context, rs *jsonschema.Schema, body []byte) error {
	keyErrs, err := rs.ValidateBytes(ctx, body)
	if err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if len(keyErrs) > 0 {
		return fmt.Errorf("%s: %s", keyErrs[0].PropertyPath, keyErrs[0].Message)
	}
	return nil
}
