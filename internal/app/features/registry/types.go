// internal/app/features/registry/types.go
package registry

import (
	"github.com/sroam/sroregistry/internal/domain/models"
)

// CreateMemberInput is the JSON body of POST /registry. Dates are
// YYYY-MM-DD or RFC 3339 strings; empty optional values are treated as absent.
type CreateMemberInput struct {
	FullName            string `json:"fullName" validate:"required,nonblank,max=255" label:"Full name"`
	INN                 string `json:"inn" validate:"required,inn" label:"INN"`
	RegistryNumber      string `json:"registryNumber" validate:"required,nonblank,max=50" label:"Registry number"`
	SNILS               string `json:"snils" validate:"omitempty,snils" label:"SNILS"`
	StateRegistryNumber string `json:"stateRegistryNumber" validate:"omitempty,max=50" label:"State registry number"`
	StateRegistryDate   string `json:"stateRegistryDate" validate:"omitempty,isodate" label:"State registry date"`

	Phone         string `json:"phone" validate:"required,phone" label:"Phone"`
	Email         string `json:"email" validate:"required,email,max=254" label:"Email"`
	Region        string `json:"region" validate:"omitempty,max=100" label:"Region"`
	City          string `json:"city" validate:"omitempty,max=100" label:"City"`
	PostalAddress string `json:"postalAddress" validate:"omitempty,max=500" label:"Postal address"`

	Status        string `json:"status" validate:"omitempty,oneof=active excluded suspended" label:"Status"`
	JoinDate      string `json:"joinDate" validate:"required,isodate" label:"Join date"`
	ExcludeDate   string `json:"excludeDate" validate:"omitempty,isodate" label:"Exclude date"`
	ExcludeReason string `json:"excludeReason" validate:"omitempty,max=1000" label:"Exclude reason"`

	BirthDate        string `json:"birthDate" validate:"omitempty,isodate" label:"Birth date"`
	BirthPlace       string `json:"birthPlace" validate:"omitempty,max=255" label:"Birth place"`
	RegistrationDate string `json:"registrationDate" validate:"omitempty,isodate" label:"Registration date"`
	DecisionNumber   string `json:"decisionNumber" validate:"omitempty,max=100" label:"Decision number"`

	Education       string `json:"education" validate:"omitempty,max=2000" label:"Education"`
	WorkExperience  string `json:"workExperience" validate:"omitempty,max=2000" label:"Work experience"`
	Internship      string `json:"internship" validate:"omitempty,max=2000" label:"Internship"`
	ExamCertificate string `json:"examCertificate" validate:"omitempty,max=255" label:"Exam certificate"`

	Disqualification     string `json:"disqualification" validate:"omitempty,max=1000" label:"Disqualification"`
	CriminalRecord       string `json:"criminalRecord" validate:"omitempty,max=1000" label:"Criminal record"`
	CriminalRecordDate   string `json:"criminalRecordDate" validate:"omitempty,isodate" label:"Criminal record date"`
	CriminalRecordNumber string `json:"criminalRecordNumber" validate:"omitempty,max=100" label:"Criminal record number"`
	CriminalRecordName   string `json:"criminalRecordName" validate:"omitempty,max=255" label:"Criminal record name"`

	Insurance                     *InsuranceInput     `json:"insurance"`
	CompensationFundContributions []ContributionInput `json:"compensationFundContributions" validate:"omitempty,dive"`
	CompensationFundContribution  *float64            `json:"compensationFundContribution" validate:"omitnil,min=0" label:"Compensation fund contribution"`

	Inspections           []InspectionInput          `json:"inspections" validate:"omitempty,dive"`
	DisciplinaryMeasures  []DisciplinaryMeasureInput `json:"disciplinaryMeasures" validate:"omitempty,dive"`
	OtherSroParticipation []OtherSroInput            `json:"otherSroParticipation" validate:"omitempty,dive"`
	ComplianceStatus      string                     `json:"complianceStatus" validate:"omitempty,max=255" label:"Compliance status"`
	ComplianceDate        string                     `json:"complianceDate" validate:"omitempty,isodate" label:"Compliance date"`
	ComplianceNumber      string                     `json:"complianceNumber" validate:"omitempty,max=100" label:"Compliance number"`
	LastInspection        string                     `json:"lastInspection" validate:"omitempty,isodate" label:"Last inspection"`

	Penalties string   `json:"penalties" validate:"omitempty,max=2000" label:"Penalties"`
	Documents []string `json:"documents" validate:"omitempty,dive,objectid" label:"Document"`
}

// UpdateMemberInput is the JSON body of PATCH /registry/{id}. Nil fields are
// left untouched. An empty string clears an optional field; required fields
// cannot be cleared. Nested records and lists are replaced as a whole.
type UpdateMemberInput struct {
	FullName            *string `json:"fullName" validate:"omitnil,nonblank,max=255" label:"Full name"`
	INN                 *string `json:"inn" validate:"omitnil,nonblank,inn" label:"INN"`
	RegistryNumber      *string `json:"registryNumber" validate:"omitnil,nonblank,max=50" label:"Registry number"`
	SNILS               *string `json:"snils" validate:"omitnil,snils" label:"SNILS"`
	StateRegistryNumber *string `json:"stateRegistryNumber" validate:"omitnil,max=50" label:"State registry number"`
	StateRegistryDate   *string `json:"stateRegistryDate" validate:"omitnil,isodate" label:"State registry date"`

	Phone         *string `json:"phone" validate:"omitnil,nonblank,phone" label:"Phone"`
	Email         *string `json:"email" validate:"omitnil,nonblank,email,max=254" label:"Email"`
	Region        *string `json:"region" validate:"omitnil,max=100" label:"Region"`
	City          *string `json:"city" validate:"omitnil,max=100" label:"City"`
	PostalAddress *string `json:"postalAddress" validate:"omitnil,max=500" label:"Postal address"`

	Status        *string `json:"status" validate:"omitnil,oneof=active excluded suspended" label:"Status"`
	JoinDate      *string `json:"joinDate" validate:"omitnil,nonblank,isodate" label:"Join date"`
	ExcludeDate   *string `json:"excludeDate" validate:"omitnil,isodate" label:"Exclude date"`
	ExcludeReason *string `json:"excludeReason" validate:"omitnil,max=1000" label:"Exclude reason"`

	BirthDate        *string `json:"birthDate" validate:"omitnil,isodate" label:"Birth date"`
	BirthPlace       *string `json:"birthPlace" validate:"omitnil,max=255" label:"Birth place"`
	RegistrationDate *string `json:"registrationDate" validate:"omitnil,isodate" label:"Registration date"`
	DecisionNumber   *string `json:"decisionNumber" validate:"omitnil,max=100" label:"Decision number"`

	Education       *string `json:"education" validate:"omitnil,max=2000" label:"Education"`
	WorkExperience  *string `json:"workExperience" validate:"omitnil,max=2000" label:"Work experience"`
	Internship      *string `json:"internship" validate:"omitnil,max=2000" label:"Internship"`
	ExamCertificate *string `json:"examCertificate" validate:"omitnil,max=255" label:"Exam certificate"`

	Disqualification     *string `json:"disqualification" validate:"omitnil,max=1000" label:"Disqualification"`
	CriminalRecord       *string `json:"criminalRecord" validate:"omitnil,max=1000" label:"Criminal record"`
	CriminalRecordDate   *string `json:"criminalRecordDate" validate:"omitnil,isodate" label:"Criminal record date"`
	CriminalRecordNumber *string `json:"criminalRecordNumber" validate:"omitnil,max=100" label:"Criminal record number"`
	CriminalRecordName   *string `json:"criminalRecordName" validate:"omitnil,max=255" label:"Criminal record name"`

	Insurance                     *InsuranceInput      `json:"insurance"`
	CompensationFundContributions *[]ContributionInput `json:"compensationFundContributions" validate:"omitnil,dive"`
	CompensationFundContribution  *float64             `json:"compensationFundContribution" validate:"omitnil,min=0" label:"Compensation fund contribution"`

	Inspections           *[]InspectionInput          `json:"inspections" validate:"omitnil,dive"`
	DisciplinaryMeasures  *[]DisciplinaryMeasureInput `json:"disciplinaryMeasures" validate:"omitnil,dive"`
	OtherSroParticipation *[]OtherSroInput            `json:"otherSroParticipation" validate:"omitnil,dive"`
	ComplianceStatus      *string                     `json:"complianceStatus" validate:"omitnil,max=255" label:"Compliance status"`
	ComplianceDate        *string                     `json:"complianceDate" validate:"omitnil,isodate" label:"Compliance date"`
	ComplianceNumber      *string                     `json:"complianceNumber" validate:"omitnil,max=100" label:"Compliance number"`
	LastInspection        *string                     `json:"lastInspection" validate:"omitnil,isodate" label:"Last inspection"`

	Penalties *string   `json:"penalties" validate:"omitnil,max=2000" label:"Penalties"`
	Documents *[]string `json:"documents" validate:"omitnil,dive,objectid" label:"Document"`
}

// InsuranceInput is the professional liability insurance contract.
type InsuranceInput struct {
	StartDate        string   `json:"startDate" validate:"omitempty,isodate" label:"Insurance start date"`
	EndDate          string   `json:"endDate" validate:"omitempty,isodate" label:"Insurance end date"`
	Amount           *float64 `json:"amount" validate:"omitnil,min=0" label:"Insurance amount"`
	ContractNumber   string   `json:"contractNumber" validate:"omitempty,max=100" label:"Contract number"`
	ContractDate     string   `json:"contractDate" validate:"omitempty,isodate" label:"Contract date"`
	InsuranceCompany string   `json:"insuranceCompany" validate:"omitempty,max=255" label:"Insurance company"`
}

type ContributionInput struct {
	Purpose string   `json:"purpose" validate:"omitempty,max=255" label:"Purpose"`
	Date    string   `json:"date" validate:"omitempty,isodate" label:"Contribution date"`
	Amount  *float64 `json:"amount" validate:"omitnil,min=0" label:"Contribution amount"`
}

type InspectionInput struct {
	Type       string `json:"type" validate:"omitempty,max=255" label:"Inspection type"`
	StartDate  string `json:"startDate" validate:"omitempty,isodate" label:"Inspection start date"`
	EndDate    string `json:"endDate" validate:"omitempty,isodate" label:"Inspection end date"`
	Result     string `json:"result" validate:"omitempty,max=1000" label:"Inspection result"`
	Violations string `json:"violations" validate:"omitempty,max=2000" label:"Violations"`
}

type DisciplinaryMeasureInput struct {
	Type           string `json:"type" validate:"omitempty,max=255" label:"Measure type"`
	Date           string `json:"date" validate:"omitempty,isodate" label:"Measure date"`
	Reason         string `json:"reason" validate:"omitempty,max=1000" label:"Reason"`
	DecisionNumber string `json:"decisionNumber" validate:"omitempty,max=100" label:"Decision number"`
}

type OtherSroInput struct {
	SroName  string `json:"sroName" validate:"omitempty,max=255" label:"SRO name"`
	Number   string `json:"number" validate:"omitempty,max=100" label:"Number"`
	JoinDate string `json:"joinDate" validate:"omitempty,isodate" label:"Join date"`
	ExitDate string `json:"exitDate" validate:"omitempty,isodate" label:"Exit date"`
	Status   string `json:"status" validate:"omitempty,max=100" label:"Status"`
}

// MemberView is a Member with its document references expanded.
type MemberView struct {
	models.Member
	Documents []models.DocumentSummary `json:"documents"`
}
