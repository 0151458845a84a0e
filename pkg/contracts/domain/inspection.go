package domain

// Canonical column names for shipment-inspection rows. Every NormalizedRow
// carries all of these; the set is fixed for the process lifetime.
const (
	ColNO           = "NO"
	ColContainerNum = "ContainerNum"
	ColBoxNum       = "BoxNum"
	ColContainer    = "Container"
	ColBoxName      = "BoxName"
	ColItemCount    = "ItemCount"
	ColKits         = "Kits"
	ColFactory      = "Factory"
	ColRemarks      = "REMARKS"
)

// CanonicalColumns returns the canonical schema in output order.
// Callers must not mutate the returned slice.
func CanonicalColumns() []string {
	return []string{
		ColNO,
		ColContainerNum,
		ColBoxNum,
		ColContainer,
		ColBoxName,
		ColItemCount,
		ColKits,
		ColFactory,
		ColRemarks,
	}
}

// RawRow is one ingested spreadsheet row: operator-supplied header string to
// cell value, as produced by the ingestion collaborator. No key order or
// completeness is guaranteed.
type RawRow struct {
	// Headers preserves the original column order of the source sheet.
	Headers []string
	// Cells maps each header to its cell value.
	Cells map[string]string
}

// Get returns the cell under the given raw header, or "" when absent.
func (r RawRow) Get(header string) string {
	if r.Cells == nil {
		return ""
	}
	return r.Cells[header]
}

// ExtraField is a source column that resolved to no canonical column,
// preserved verbatim under its original header.
type ExtraField struct {
	Header string `json:"header"`
	Value  string `json:"value"`
}

// NormalizedRow is a shipment-inspection row reconciled to the canonical
// schema. Every canonical column is present (empty string when unresolved);
// unrecognized source columns are kept in Extras in original appearance order.
type NormalizedRow struct {
	NO           string `json:"no"`
	ContainerNum string `json:"container_num"`
	BoxNum       string `json:"box_num"`
	Container    string `json:"container"`
	BoxName      string `json:"box_name"`
	ItemCount    string `json:"item_count"`
	Kits         string `json:"kits"`
	Factory      string `json:"factory"`
	Remarks      string `json:"remarks"`

	Extras []ExtraField `json:"extras,omitempty"`
}

// Get returns the value of the named canonical column, or the matching extra
// field when the name is not canonical. Missing names yield "".
func (n *NormalizedRow) Get(column string) string {
	switch column {
	case ColNO:
		return n.NO
	case ColContainerNum:
		return n.ContainerNum
	case ColBoxNum:
		return n.BoxNum
	case ColContainer:
		return n.Container
	case ColBoxName:
		return n.BoxName
	case ColItemCount:
		return n.ItemCount
	case ColKits:
		return n.Kits
	case ColFactory:
		return n.Factory
	case ColRemarks:
		return n.Remarks
	}
	for _, ex := range n.Extras {
		if ex.Header == column {
			return ex.Value
		}
	}
	return ""
}

// Set assigns the named canonical column. Non-canonical names update the
// matching extra field, or append a new one so the write is never lost.
func (n *NormalizedRow) Set(column, value string) {
	switch column {
	case ColNO:
		n.NO = value
	case ColContainerNum:
		n.ContainerNum = value
	case ColBoxNum:
		n.BoxNum = value
	case ColContainer:
		n.Container = value
	case ColBoxName:
		n.BoxName = value
	case ColItemCount:
		n.ItemCount = value
	case ColKits:
		n.Kits = value
	case ColFactory:
		n.Factory = value
	case ColRemarks:
		n.Remarks = value
	default:
		for i := range n.Extras {
			if n.Extras[i].Header == column {
				n.Extras[i].Value = value
				return
			}
		}
		n.Extras = append(n.Extras, ExtraField{Header: column, Value: value})
	}
}

// Values returns every field of the row (canonical then extras) in output
// order, for free-text search and tabular export.
func (n *NormalizedRow) Values() []string {
	vals := []string{
		n.NO, n.ContainerNum, n.BoxNum, n.Container, n.BoxName,
		n.ItemCount, n.Kits, n.Factory, n.Remarks,
	}
	for _, ex := range n.Extras {
		vals = append(vals, ex.Value)
	}
	return vals
}
