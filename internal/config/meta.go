package config

import (
	"reflect"
	"strings"
)

// GetSettingsExample uses reflection to generate example settings.
// It stays in sync when new fields are added to Settings.
func GetSettingsExample() map[string]any {
	return exampleStruct(reflect.TypeOf(Settings{}))
}

func exampleStruct(t reflect.Type) map[string]any {
	example := make(map[string]any)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "" {
			continue
		}

		// Extract the JSON field name (before comma)
		jsonName := strings.Split(jsonTag, ",")[0]
		example[jsonName] = generateExampleValue(field.Type, jsonName)
	}
	return example
}

// generateExampleValue creates example values based on type and field name
func generateExampleValue(t reflect.Type, fieldName string) any {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		return exampleStruct(t)
	case reflect.Bool:
		return fieldName == "telemetry_enabled"
	case reflect.Int:
		switch fieldName {
		case "max_log_files":
			return DefaultMaxLogFiles
		case "setup_max_attempts":
			return DefaultSetupMaxAttempts
		case "setup_timeout_seconds":
			return DefaultSetupTimeoutSeconds
		}
		return 10
	case reflect.String:
		switch fieldName {
		case "container_engine":
			return DefaultContainerEngine
		case "generic":
			return DefaultGenericImage
		case "node":
			return DefaultNodeImage
		case "python":
			return DefaultPythonImage
		case "workspace_root":
			return DefaultWorkspaceRoot
		}
		return "example"
	}

	return nil
}
