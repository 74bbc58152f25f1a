package ingest

// NormalizedRecord is the canonical shape every imported row is mapped onto.
// Name and Phone are guaranteed non-empty; Notes may be "".
type NormalizedRecord struct {
	Name  string
	Phone string
	Notes string
}

// Column aliases per canonical field, in strict priority order: the first
// alias with a non-empty value wins. Spreadsheets exported from other CRMs
// use wildly inconsistent headers, so the lists are deliberately generous.
var (
	nameAliases  = []string{"FirstName", "First Name", "firstname", "Name", "name", "Customer Name"}
	phoneAliases = []string{"Phone", "Mobile", "phone", "Number", "number", "Contact Number"}
	notesAliases = []string{"Notes", "notes"}
)

// Normalize maps a raw decoder row onto a NormalizedRecord.
// Returns ok=false when name or phone cannot be resolved; such rows are
// dropped silently rather than failing the import. Values pass through
// unmodified (a numeric phone cell is not reformatted).
func Normalize(row RawRow) (NormalizedRecord, bool) {
	name := resolveField(row, nameAliases)
	phone := resolveField(row, phoneAliases)
	if name == "" || phone == "" {
		return NormalizedRecord{}, false
	}

	return NormalizedRecord{
		Name:  name,
		Phone: phone,
		Notes: resolveField(row, notesAliases),
	}, true
}

// resolveField returns the value of the first alias present with a
// non-empty value, or "" when none match.
func resolveField(row RawRow, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok && v != "" {
			return v
		}
	}
	return ""
}
