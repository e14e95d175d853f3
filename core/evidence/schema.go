package evidence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
)

func getSchemaPath(schemaVersion string) string {
	if env := os.Getenv("EVIDENCE_SCHEMA_PATH"); env != "" {
		return env
	}
	switch schemaVersion {
	case "1.0", "1", "":
		return filepath.Join("core", "evidence", "schemas", "evidence_schema_v1.json")
	default:
		return filepath.Join("core", "evidence", "schemas", "evidence_schema_v1.json")
	}
}

// ValidatePayload validates a raw capture request payload against the evidence
// JSON schema plus additional logic the schema cannot express.
func ValidatePayload(payload []byte) error {
	var rec map[string]interface{}
	if err := json.Unmarshal(payload, &rec); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	schemaVersion, _ := rec["schemaVersion"].(string)
	schemaPath := getSchemaPath(schemaVersion)
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("schema path error: %w", err)
	}
	schemaLoader := gojsonschema.NewReferenceLoader("file://" + abs)

	documentLoader := gojsonschema.NewBytesLoader(payload)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		msg := "payload failed schema validation:"
		for _, e := range result.Errors() {
			msg += " " + e.String() + ";"
		}
		return fmt.Errorf("%s", msg)
	}

	// Event type must be one of the known values even if the schema drifts.
	if et, ok := rec["event_type"].(string); ok && !ValidEventType(EventType(et)) {
		return fmt.Errorf("unknown event_type %q", et)
	}
	return nil
}
