package statement

import "golang.org/x/text/unicode/norm"

// NormalizeExtensionKeys rewrites every extension-map key to NFC. Extension
// keys are IRIs and may arrive in mixed Unicode normal forms; storing one
// canonical form keeps key equality stable under query.
func (d Document) NormalizeExtensionKeys() {
	for _, ext := range d.extensionMaps() {
		normalizeKeys(ext)
	}
}

// extensionMaps returns every extensions map the statement may carry:
// context, result and activity-definition extensions, for both the
// statement and a SubStatement object.
func (d Document) extensionMaps() []map[string]any {
	var out []map[string]any

	appendFrom := func(m map[string]any) {
		if m == nil {
			return
		}
		if ctx, ok := m["context"].(map[string]any); ok {
			if ext, ok := ctx["extensions"].(map[string]any); ok {
				out = append(out, ext)
			}
		}
		if res, ok := m["result"].(map[string]any); ok {
			if ext, ok := res["extensions"].(map[string]any); ok {
				out = append(out, ext)
			}
		}
		if obj, ok := m["object"].(map[string]any); ok {
			if def, ok := obj["definition"].(map[string]any); ok {
				if ext, ok := def["extensions"].(map[string]any); ok {
					out = append(out, ext)
				}
			}
		}
	}

	appendFrom(d)
	appendFrom(d.subStatement())

	return out
}

func normalizeKeys(ext map[string]any) {
	for key, value := range ext {
		canonical := norm.NFC.String(key)
		if canonical == key {
			continue
		}
		delete(ext, key)
		ext[canonical] = value
	}
}
