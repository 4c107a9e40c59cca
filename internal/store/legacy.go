package store

import (
	"strconv"
	"strings"

	"matterdesk/api/internal/matter"
)

// legacyMatterKeys maps field spellings found in old data files onto the
// current canonical names. Applied once per record at load time; nothing is
// rewritten on disk until the next save.
var legacyMatterKeys = map[string]string{
	"Date_received":    matter.FieldDateReceived,
	"Date_Received":    matter.FieldDateReceived,
	"Group_Entity":     matter.FieldGroupEntity,
	"Internal_Dept":    matter.FieldInternalDept,
	"Contract_Type":    matter.FieldContractType,
	"Contract_Name":    matter.FieldContractName,
	"Who_With":         matter.FieldWhoWith,
	"Overall_Status":   matter.FieldOverallStatus,
	"Date_Closed":      matter.FieldDateClosed,
	"Days_with_Legal":  matter.FieldDaysWithLegal,
	"Total_Cycle_Time": matter.FieldTotalCycleTime,
}

// normalizeMatterRecord renames legacy keys and fills every canonical field
// so records written by older versions of the tracker load cleanly. It is a
// pure transformation of the decoded JSON object.
func normalizeMatterRecord(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		if renamed, ok := legacyMatterKeys[key]; ok {
			key = renamed
		}
		out[key] = value
	}
	for _, f := range matter.Fields {
		if _, ok := out[f]; !ok {
			out[f] = ""
		}
	}
	return out
}

// matterFromRecord converts a normalized JSON object into a Matter. Integer
// fields tolerate both JSON numbers and the string forms older files used.
func matterFromRecord(raw map[string]any, newID func() string) matter.Matter {
	var m matter.Matter
	m.ID = asString(raw["id"])
	if m.ID == "" {
		m.ID = newID()
	}
	for _, f := range matter.Fields {
		if matter.IsIntField(f) {
			n := asInt(raw[f])
			if f == matter.FieldDaysWithLegal {
				m.DaysWithLegal = n
			} else {
				m.TotalCycleTime = n
			}
			continue
		}
		m.SetString(f, asString(raw[f]))
	}
	return m
}

func ownerFromRecord(raw map[string]any, newID func() string) matter.Owner {
	o := matter.Owner{
		ID:       asString(raw["id"]),
		Name:     asString(raw["name"]),
		JobTitle: asString(raw["job_title"]),
		Function: asString(raw["function"]),
	}
	if o.ID == "" {
		// Legacy owner files derived the id from the name.
		o.ID = strings.ReplaceAll(strings.ToLower(o.Name), " ", "")
		if o.ID == "" {
			o.ID = newID()
		}
	}
	return o
}

func asString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return ""
	}
}

func asInt(v any) int {
	switch value := v.(type) {
	case float64:
		return int(value)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
		if s == "" {
			return 0
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}
