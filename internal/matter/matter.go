// Package matter defines the canonical records the tracker stores: legal
// matters (contracts moving through a lifecycle) and the owners they are
// assigned to. Field names double as the keys of the persisted JSON files,
// so they keep their human-readable spelling.
package matter

import "strconv"

// Canonical field names. The order of Fields is the column order used by
// exports and the iteration order of the header alias table.
const (
	FieldRef                 = "Ref"
	FieldDateReceived        = "Date Received"
	FieldGroupEntity         = "Group Entity"
	FieldCounterparty        = "Counterparty"
	FieldBranch              = "Branch"
	FieldLegal               = "Legal"
	FieldInternalDept        = "Internal Dept"
	FieldContractType        = "Contract Type"
	FieldContractName        = "Contract Name"
	FieldInternalStakeholder = "Internal Stakeholder"
	FieldWhoWith             = "Who With"
	FieldStage               = "Stage"
	FieldOverallStatus       = "Overall Status"
	FieldDateClosed          = "Date Closed"
	FieldCommentary          = "Commentary"
	FieldDaysWithLegal       = "Days with Legal"
	FieldTotalCycleTime      = "Total Cycle Time"
	FieldOwner               = "Owner"
)

var Fields = []string{
	FieldRef,
	FieldDateReceived,
	FieldGroupEntity,
	FieldCounterparty,
	FieldBranch,
	FieldLegal,
	FieldInternalDept,
	FieldContractType,
	FieldContractName,
	FieldInternalStakeholder,
	FieldWhoWith,
	FieldStage,
	FieldOverallStatus,
	FieldDateClosed,
	FieldCommentary,
	FieldDaysWithLegal,
	FieldTotalCycleTime,
	FieldOwner,
}

// Matter is one tracked contract. Dates are ISO YYYY-MM-DD strings and may
// be empty; unparseable imported dates are carried through verbatim so bad
// data stays visible. ID is assigned once and never changes.
type Matter struct {
	ID                  string `json:"id"`
	Ref                 string `json:"Ref"`
	DateReceived        string `json:"Date Received"`
	GroupEntity         string `json:"Group Entity"`
	Counterparty        string `json:"Counterparty"`
	Branch              string `json:"Branch"`
	Legal               string `json:"Legal"`
	InternalDept        string `json:"Internal Dept"`
	ContractType        string `json:"Contract Type"`
	ContractName        string `json:"Contract Name"`
	InternalStakeholder string `json:"Internal Stakeholder"`
	WhoWith             string `json:"Who With"`
	Stage               string `json:"Stage"`
	OverallStatus       string `json:"Overall Status"`
	DateClosed          string `json:"Date Closed"`
	Commentary          string `json:"Commentary"`
	DaysWithLegal       int    `json:"Days with Legal"`
	TotalCycleTime      int    `json:"Total Cycle Time"`
	Owner               string `json:"Owner"`
}

// Owner is a person matters can be assigned to. Name uniqueness is
// case-insensitive and enforced by the callers that insert owners, not by
// the store.
type Owner struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	JobTitle string `json:"job_title"`
	Function string `json:"function"`
}

// Get returns the named canonical field as a string. Integer fields are
// rendered in decimal; an unknown field name yields "".
func (m *Matter) Get(field string) string {
	switch field {
	case FieldRef:
		return m.Ref
	case FieldDateReceived:
		return m.DateReceived
	case FieldGroupEntity:
		return m.GroupEntity
	case FieldCounterparty:
		return m.Counterparty
	case FieldBranch:
		return m.Branch
	case FieldLegal:
		return m.Legal
	case FieldInternalDept:
		return m.InternalDept
	case FieldContractType:
		return m.ContractType
	case FieldContractName:
		return m.ContractName
	case FieldInternalStakeholder:
		return m.InternalStakeholder
	case FieldWhoWith:
		return m.WhoWith
	case FieldStage:
		return m.Stage
	case FieldOverallStatus:
		return m.OverallStatus
	case FieldDateClosed:
		return m.DateClosed
	case FieldCommentary:
		return m.Commentary
	case FieldDaysWithLegal:
		return strconv.Itoa(m.DaysWithLegal)
	case FieldTotalCycleTime:
		return strconv.Itoa(m.TotalCycleTime)
	case FieldOwner:
		return m.Owner
	default:
		return ""
	}
}

// SetString assigns the named string field. The two integer fields are left
// untouched here; callers coerce and assign those directly.
func (m *Matter) SetString(field, value string) {
	switch field {
	case FieldRef:
		m.Ref = value
	case FieldDateReceived:
		m.DateReceived = value
	case FieldGroupEntity:
		m.GroupEntity = value
	case FieldCounterparty:
		m.Counterparty = value
	case FieldBranch:
		m.Branch = value
	case FieldLegal:
		m.Legal = value
	case FieldInternalDept:
		m.InternalDept = value
	case FieldContractType:
		m.ContractType = value
	case FieldContractName:
		m.ContractName = value
	case FieldInternalStakeholder:
		m.InternalStakeholder = value
	case FieldWhoWith:
		m.WhoWith = value
	case FieldStage:
		m.Stage = value
	case FieldOverallStatus:
		m.OverallStatus = value
	case FieldDateClosed:
		m.DateClosed = value
	case FieldCommentary:
		m.Commentary = value
	case FieldOwner:
		m.Owner = value
	}
}

// IsIntField reports whether the canonical field holds an integer.
func IsIntField(field string) bool {
	return field == FieldDaysWithLegal || field == FieldTotalCycleTime
}
