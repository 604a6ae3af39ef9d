package core

import "strings"

// Mapping dimensions are a fixed set of canonical field concepts that
// recipes can reference by a common name regardless of what the backing
// dimension is called on a given model. Each model opts in by listing the
// mapping name in its Mappings table; a mapping name absent from the
// table is a resolution error, never a silent fallback.
const (
	MappingPrimaryKey = "primary_key"
	MappingCreatedAt  = "created_at"
	MappingUpdatedAt  = "updated_at"
	MappingTenantID   = "tenant_id"
)

// mappingLabels are the canonical human-readable labels per mapping name.
// Aliases use the slugified label rather than the raw dimension name.
var mappingLabels = map[string]string{
	MappingPrimaryKey: "Primary Key",
	MappingCreatedAt:  "Created At",
	MappingUpdatedAt:  "Updated At",
	MappingTenantID:   "Tenant ID",
}

// IsMappingName reports whether name is a recognized mapping dimension.
func IsMappingName(name string) bool {
	_, ok := mappingLabels[name]
	return ok
}

// MappingLabel returns the canonical label for a mapping name, or the
// name itself when it is not a mapping dimension.
func MappingLabel(name string) string {
	if label, ok := mappingLabels[name]; ok {
		return label
	}
	return name
}

// Slugify lowercases a label and joins its words with underscores, the
// form used in generated aliases.
func Slugify(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "_")
}
