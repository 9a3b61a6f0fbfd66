package records

// Field names shared between the extractor and the CSV sink.
const (
	FieldPermitID       = "permit_id"
	FieldMemberState    = "member_state"
	FieldCarrierName    = "air_carrier_name"
	FieldCarrierCode    = "air_carrier_code"
	FieldAirportName    = "airport_name"
	FieldAirportCode    = "airport_code"
	FieldAirportCountry = "airport_country"
)

// Columns is the fixed output column order. Fields outside this set may be
// carried by a Record but are never projected into the CSV.
var Columns = []string{
	FieldPermitID,
	FieldMemberState,
	FieldCarrierName,
	FieldCarrierCode,
	FieldAirportName,
	FieldAirportCode,
	FieldAirportCountry,
}

// Record is one validation entry: an ordered mapping of field name to value.
// Insertion order is preserved so dynamically labeled fields stay stable
// across runs.
type Record struct {
	keys   []string
	values map[string]string
}

// New creates an empty record.
func New() *Record {
	return &Record{values: make(map[string]string)}
}

// Set stores a field value, keeping first-insertion order for new keys.
func (r *Record) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns a field value and whether it is present.
func (r *Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Len returns the number of fields set on the record.
func (r *Record) Len() int {
	return len(r.keys)
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Row projects the record onto the given column order. Absent fields render
// as empty cells.
func (r *Record) Row(columns []string) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = r.values[col]
	}
	return row
}
