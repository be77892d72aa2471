package hint

import (
	"encoding/json"
	"sort"

	"github.com/invopop/jsonschema"
)

// strictSchema reflects T into a JSON schema accepted by strict structured
// output: no references, no additional properties, every property required.
func strictSchema[T any]() map[string]any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	raw, err := r.Reflect(v).MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		panic(err)
	}
	requireAll(m)
	return m
}

func requireAll(schema map[string]any) {
	props, ok := schema["properties"].(map[string]any)
	if schema["type"] == "object" {
		schema["additionalProperties"] = false
		if ok && len(props) > 0 {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			sort.Strings(required)
			schema["required"] = required
		}
	}
	for _, p := range props {
		if pm, ok := p.(map[string]any); ok {
			requireAll(pm)
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		requireAll(items)
	}
}
