package services

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// minOneItem backs the recommendedActions minItems constraint: an alert
// without at least one action is not a valid alert.
var minOneItem = 1

// overviewSchema is the shared response schema of the overview endpoint.
// The assembler validates every outgoing payload against it; the UI uses
// the same schema for its client-side parser. Person or staff identifier
// fields simply do not exist in this schema - the privacy guarantee is
// structural.
func overviewSchema() *jsonschema.Schema {
	number := func() *jsonschema.Schema { return &jsonschema.Schema{Type: "number"} }
	str := func() *jsonschema.Schema { return &jsonschema.Schema{Type: "string"} }
	level := func() *jsonschema.Schema {
		return &jsonschema.Schema{Type: "string", Enum: []any{"practice", "role"}}
	}

	metrics := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"fteQuote":            number(),
			"currentFte":          number(),
			"targetFte":           number(),
			"fteDelta":            number(),
			"absenceRatePercent":  number(),
			"overtimeRatePercent": number(),
			// Nullable by design: null means "no cost data", which is a
			// different answer than 0.
			"laborCostRatioPercent": {Types: []string{"number", "null"}},
			"overallStatus": {
				Type: "string",
				Enum: []any{"ok", "warning", "critical"},
			},
		},
		Required: []string{
			"fteQuote", "currentFte", "targetFte", "fteDelta",
			"absenceRatePercent", "overtimeRatePercent",
			"laborCostRatioPercent", "overallStatus",
		},
	}

	audit := func() *jsonschema.Schema {
		return &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"aggregationLevel":  level(),
				"kUsed":             {Type: "integer"},
				"legalBasis":        str(),
				"createdAt":         str(),
				"complianceVersion": str(),
			},
			Required: []string{"aggregationLevel", "kUsed", "legalBasis", "createdAt", "complianceVersion"},
		}
	}

	snapshot := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"period": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"start": str(),
					"end":   str(),
				},
				Required: []string{"start", "end"},
			},
			"aggregationLevel": level(),
			"groupKey":         str(),
			"groupSize":        {Type: "integer"},
			"metrics":          metrics,
			"audit":            audit(),
		},
		Required: []string{"period", "aggregationLevel", "groupKey", "groupSize", "metrics", "audit"},
	}

	alert := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"code":     str(),
			"severity": {Type: "string", Enum: []any{"info", "warn", "critical"}},
			"title":    str(),
			"explanation": str(),
			"recommendedActions": {
				Type:     "array",
				Items:    str(),
				MinItems: &minOneItem,
			},
			"metric":           str(),
			"currentValue":     number(),
			"thresholdValue":   number(),
			"aggregationLevel": level(),
			"groupKey":         str(),
		},
		Required: []string{
			"code", "severity", "title", "explanation", "recommendedActions",
			"metric", "currentValue", "thresholdValue", "aggregationLevel", "groupKey",
		},
		// Alerts are the payload most likely to grow fields over time;
		// closing them keeps person fields structurally impossible.
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}

	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"timestamp":        str(),
			"periodStart":      {Type: "string", Pattern: `^\d{4}-\d{2}-\d{2}$`},
			"periodEnd":        {Type: "string", Pattern: `^\d{4}-\d{2}-\d{2}$`},
			"requestedLevel":   level(),
			"aggregationLevel": level(),
			"snapshots": {
				Type:  "array",
				Items: snapshot,
			},
			"alertsBySnapshot": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"groupKey": str(),
						"alerts":   {Type: "array", Items: alert},
					},
					Required: []string{"groupKey", "alerts"},
				},
			},
			"compliance": audit(),
			"warnings":   {Type: "array", Items: str()},
		},
		Required: []string{
			"timestamp", "periodStart", "periodEnd", "requestedLevel",
			"aggregationLevel", "snapshots", "alertsBySnapshot",
			"compliance", "warnings",
		},
	}
}
