// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member statuses.
const (
	MemberStatusActive    = "active"
	MemberStatusExcluded  = "excluded"
	MemberStatusSuspended = "suspended"
)

// MemberStatuses lists every valid Member status in display order.
var MemberStatuses = []string{MemberStatusActive, MemberStatusExcluded, MemberStatusSuspended}

// IsMemberStatus reports whether s is a valid Member status.
func IsMemberStatus(s string) bool {
	for _, v := range MemberStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Member is an arbitrary manager entry in the SRO registry.
//
// NOTE:
//   - INN and RegistryNumber are unique across the collection (unique indexes).
//   - Optional dates are pointers; an absent date is never stored as a zero time.
//   - Documents are weak references into the documents collection and are
//     never cascaded on delete.
type Member struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// Identity
	FullName            string     `bson:"full_name" json:"fullName"`
	FullNameCI          string     `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	INN                 string     `bson:"inn" json:"inn"`
	RegistryNumber      string     `bson:"registry_number" json:"registryNumber"`
	SNILS               string     `bson:"snils,omitempty" json:"snils,omitempty"`
	StateRegistryNumber string     `bson:"state_registry_number,omitempty" json:"stateRegistryNumber,omitempty"`
	StateRegistryDate   *time.Time `bson:"state_registry_date,omitempty" json:"stateRegistryDate,omitempty"`

	// Contact
	Phone         string `bson:"phone" json:"phone"`
	Email         string `bson:"email" json:"email"`
	Region        string `bson:"region,omitempty" json:"region,omitempty"`
	RegionCI      string `bson:"region_ci,omitempty" json:"-"`
	City          string `bson:"city,omitempty" json:"city,omitempty"`
	PostalAddress string `bson:"postal_address,omitempty" json:"postalAddress,omitempty"`

	// Status
	Status        string     `bson:"status" json:"status"` // active | excluded | suspended
	JoinDate      *time.Time `bson:"join_date" json:"joinDate"`
	ExcludeDate   *time.Time `bson:"exclude_date,omitempty" json:"excludeDate,omitempty"`
	ExcludeReason string     `bson:"exclude_reason,omitempty" json:"excludeReason,omitempty"`

	// Biographical
	BirthDate        *time.Time `bson:"birth_date,omitempty" json:"birthDate,omitempty"`
	BirthPlace       string     `bson:"birth_place,omitempty" json:"birthPlace,omitempty"`
	RegistrationDate *time.Time `bson:"registration_date,omitempty" json:"registrationDate,omitempty"`
	DecisionNumber   string     `bson:"decision_number,omitempty" json:"decisionNumber,omitempty"`

	// Professional history
	Education       string `bson:"education,omitempty" json:"education,omitempty"`
	WorkExperience  string `bson:"work_experience,omitempty" json:"workExperience,omitempty"`
	Internship      string `bson:"internship,omitempty" json:"internship,omitempty"`
	ExamCertificate string `bson:"exam_certificate,omitempty" json:"examCertificate,omitempty"`

	// Disqualification / criminal history
	Disqualification     string     `bson:"disqualification,omitempty" json:"disqualification,omitempty"`
	CriminalRecord       string     `bson:"criminal_record,omitempty" json:"criminalRecord,omitempty"`
	CriminalRecordDate   *time.Time `bson:"criminal_record_date,omitempty" json:"criminalRecordDate,omitempty"`
	CriminalRecordNumber string     `bson:"criminal_record_number,omitempty" json:"criminalRecordNumber,omitempty"`
	CriminalRecordName   string     `bson:"criminal_record_name,omitempty" json:"criminalRecordName,omitempty"`

	// Insurance and compensation fund
	Insurance                     *Insurance                     `bson:"insurance,omitempty" json:"insurance,omitempty"`
	CompensationFundContributions []CompensationFundContribution `bson:"compensation_fund_contributions,omitempty" json:"compensationFundContributions,omitempty"`
	// CompensationFundContribution is kept independently of the list above.
	CompensationFundContribution *float64 `bson:"compensation_fund_contribution,omitempty" json:"compensationFundContribution,omitempty"`

	// Compliance / inspections
	Inspections           []Inspection            `bson:"inspections,omitempty" json:"inspections,omitempty"`
	DisciplinaryMeasures  []DisciplinaryMeasure   `bson:"disciplinary_measures,omitempty" json:"disciplinaryMeasures,omitempty"`
	OtherSroParticipation []OtherSroParticipation `bson:"other_sro_participation,omitempty" json:"otherSroParticipation,omitempty"`
	ComplianceStatus      string                  `bson:"compliance_status,omitempty" json:"complianceStatus,omitempty"`
	ComplianceDate        *time.Time              `bson:"compliance_date,omitempty" json:"complianceDate,omitempty"`
	ComplianceNumber      string                  `bson:"compliance_number,omitempty" json:"complianceNumber,omitempty"`
	LastInspection        *time.Time              `bson:"last_inspection,omitempty" json:"lastInspection,omitempty"`

	Penalties string `bson:"penalties,omitempty" json:"penalties,omitempty"`

	Documents []primitive.ObjectID `bson:"documents,omitempty" json:"documents,omitempty"`

	// Audit
	CreatedBy *primitive.ObjectID `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	UpdatedBy *primitive.ObjectID `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updatedAt"`
}

// Insurance is the member's professional liability insurance contract.
type Insurance struct {
	StartDate        *time.Time `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate          *time.Time `bson:"end_date,omitempty" json:"endDate,omitempty"`
	Amount           *float64   `bson:"amount,omitempty" json:"amount,omitempty"`
	ContractNumber   string     `bson:"contract_number,omitempty" json:"contractNumber,omitempty"`
	ContractDate     *time.Time `bson:"contract_date,omitempty" json:"contractDate,omitempty"`
	InsuranceCompany string     `bson:"insurance_company,omitempty" json:"insuranceCompany,omitempty"`
}

// CompensationFundContribution is a single payment into the compensation fund.
type CompensationFundContribution struct {
	Purpose string     `bson:"purpose,omitempty" json:"purpose,omitempty"`
	Date    *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	Amount  *float64   `bson:"amount,omitempty" json:"amount,omitempty"`
}

// Inspection is a compliance inspection carried out by the SRO.
type Inspection struct {
	Type       string     `bson:"type,omitempty" json:"type,omitempty"`
	StartDate  *time.Time `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate    *time.Time `bson:"end_date,omitempty" json:"endDate,omitempty"`
	Result     string     `bson:"result,omitempty" json:"result,omitempty"`
	Violations string     `bson:"violations,omitempty" json:"violations,omitempty"`
}

// DisciplinaryMeasure is a sanction (warning, reprimand, suspension, exclusion).
type DisciplinaryMeasure struct {
	Type           string     `bson:"type,omitempty" json:"type,omitempty"`
	Date           *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	Reason         string     `bson:"reason,omitempty" json:"reason,omitempty"`
	DecisionNumber string     `bson:"decision_number,omitempty" json:"decisionNumber,omitempty"`
}

// OtherSroParticipation records membership in another SRO.
type OtherSroParticipation struct {
	SroName  string     `bson:"sro_name,omitempty" json:"sroName,omitempty"`
	Number   string     `bson:"number,omitempty" json:"number,omitempty"`
	JoinDate *time.Time `bson:"join_date,omitempty" json:"joinDate,omitempty"`
	ExitDate *time.Time `bson:"exit_date,omitempty" json:"exitDate,omitempty"`
	Status   string     `bson:"status,omitempty" json:"status,omitempty"`
}
