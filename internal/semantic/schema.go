package semantic

import "encoding/json"

// matchSchema is the JSON schema every matcher requests and validates
// responses against.
var matchSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"matches": map[string]any{
			"type":        "array",
			"description": "Proposed column-to-label-cell matches",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"source_column": map[string]any{
						"type":        "string",
						"description": "Spreadsheet column name exactly as given",
					},
					"label_row": map[string]any{
						"type":        "integer",
						"description": "1-based row of the matched template label cell",
					},
					"label_col": map[string]any{
						"type":        "integer",
						"description": "1-based column of the matched template label cell",
					},
					"confidence": map[string]any{
						"type":        "number",
						"description": "Match confidence from 0 to 1",
					},
				},
				"required":             []string{"source_column", "label_row", "label_col", "confidence"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"matches"},
	"additionalProperties": false,
}

var matchSchemaJSON = mustMarshal(matchSchema)

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// matchResponse is the typed form of a matcher response.
type matchResponse struct {
	Matches []matchEntry `json:"matches"`
}

type matchEntry struct {
	SourceColumn string  `json:"source_column"`
	LabelRow     int     `json:"label_row"`
	LabelCol     int     `json:"label_col"`
	Confidence   float64 `json:"confidence"`
}
