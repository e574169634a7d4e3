// internal/app/features/registry/convert.go
package registry

import (
	"strings"
	"time"

	"github.com/sroam/sroregistry/internal/app/system/dates"
	"github.com/sroam/sroregistry/internal/app/system/htmlsanitize"
	"github.com/sroam/sroregistry/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Normalization (runs before validation)                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func clean(s *string) { *s = htmlsanitize.PlainText(*s) }

func trim(s *string) { *s = strings.TrimSpace(*s) }

func cleanPtr(s *string) {
	if s != nil {
		clean(s)
	}
}

func trimPtr(s *string) {
	if s != nil {
		trim(s)
	}
}

func (in *CreateMemberInput) normalize() {
	for _, s := range []*string{
		&in.INN, &in.SNILS, &in.Phone, &in.Email, &in.Status,
		&in.StateRegistryDate, &in.JoinDate, &in.ExcludeDate, &in.BirthDate,
		&in.RegistrationDate, &in.CriminalRecordDate, &in.ComplianceDate, &in.LastInspection,
	} {
		trim(s)
	}
	for _, s := range []*string{
		&in.FullName, &in.RegistryNumber, &in.StateRegistryNumber, &in.Region, &in.City,
		&in.PostalAddress, &in.ExcludeReason, &in.BirthPlace, &in.DecisionNumber,
		&in.Education, &in.WorkExperience, &in.Internship, &in.ExamCertificate,
		&in.Disqualification, &in.CriminalRecord, &in.CriminalRecordNumber, &in.CriminalRecordName,
		&in.ComplianceStatus, &in.ComplianceNumber, &in.Penalties,
	} {
		clean(s)
	}
	in.Email = strings.ToLower(in.Email)
	if in.Insurance != nil {
		in.Insurance.normalize()
	}
	for i := range in.CompensationFundContributions {
		in.CompensationFundContributions[i].normalize()
	}
	for i := range in.Inspections {
		in.Inspections[i].normalize()
	}
	for i := range in.DisciplinaryMeasures {
		in.DisciplinaryMeasures[i].normalize()
	}
	for i := range in.OtherSroParticipation {
		in.OtherSroParticipation[i].normalize()
	}
	for i := range in.Documents {
		trim(&in.Documents[i])
	}
}

func (in *UpdateMemberInput) normalize() {
	for _, s := range []*string{
		in.INN, in.SNILS, in.Phone, in.Email, in.Status,
		in.StateRegistryDate, in.JoinDate, in.ExcludeDate, in.BirthDate,
		in.RegistrationDate, in.CriminalRecordDate, in.ComplianceDate, in.LastInspection,
	} {
		trimPtr(s)
	}
	for _, s := range []*string{
		in.FullName, in.RegistryNumber, in.StateRegistryNumber, in.Region, in.City,
		in.PostalAddress, in.ExcludeReason, in.BirthPlace, in.DecisionNumber,
		in.Education, in.WorkExperience, in.Internship, in.ExamCertificate,
		in.Disqualification, in.CriminalRecord, in.CriminalRecordNumber, in.CriminalRecordName,
		in.ComplianceStatus, in.ComplianceNumber, in.Penalties,
	} {
		cleanPtr(s)
	}
	if in.Email != nil {
		*in.Email = strings.ToLower(*in.Email)
	}
	if in.Insurance != nil {
		in.Insurance.normalize()
	}
	if in.CompensationFundContributions != nil {
		for i := range *in.CompensationFundContributions {
			(*in.CompensationFundContributions)[i].normalize()
		}
	}
	if in.Inspections != nil {
		for i := range *in.Inspections {
			(*in.Inspections)[i].normalize()
		}
	}
	if in.DisciplinaryMeasures != nil {
		for i := range *in.DisciplinaryMeasures {
			(*in.DisciplinaryMeasures)[i].normalize()
		}
	}
	if in.OtherSroParticipation != nil {
		for i := range *in.OtherSroParticipation {
			(*in.OtherSroParticipation)[i].normalize()
		}
	}
	if in.Documents != nil {
		for i := range *in.Documents {
			trim(&(*in.Documents)[i])
		}
	}
}

func (in *InsuranceInput) normalize() {
	trim(&in.StartDate)
	trim(&in.EndDate)
	trim(&in.ContractDate)
	clean(&in.ContractNumber)
	clean(&in.InsuranceCompany)
}

func (in *ContributionInput) normalize() {
	trim(&in.Date)
	clean(&in.Purpose)
}

func (in *InspectionInput) normalize() {
	trim(&in.StartDate)
	trim(&in.EndDate)
	clean(&in.Type)
	clean(&in.Result)
	clean(&in.Violations)
}

func (in *DisciplinaryMeasureInput) normalize() {
	trim(&in.Date)
	clean(&in.Type)
	clean(&in.Reason)
	clean(&in.DecisionNumber)
}

func (in *OtherSroInput) normalize() {
	trim(&in.JoinDate)
	trim(&in.ExitDate)
	clean(&in.SroName)
	clean(&in.Number)
	clean(&in.Status)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Conversion to the stored model (runs after validation)                      |
*─────────────────────────────────────────────────────────────────────────────*/

// date converts a value that already passed the isodate rule.
func date(s string) *time.Time {
	t, _ := dates.ParseOptional(&s)
	return t
}

func objectIDs(hex []string) []primitive.ObjectID {
	if len(hex) == 0 {
		return nil
	}
	out := make([]primitive.ObjectID, 0, len(hex))
	for _, h := range hex {
		if id, err := primitive.ObjectIDFromHex(h); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func (in *CreateMemberInput) toMember() models.Member {
	m := models.Member{
		FullName:             in.FullName,
		INN:                  in.INN,
		RegistryNumber:       in.RegistryNumber,
		SNILS:                in.SNILS,
		StateRegistryNumber:  in.StateRegistryNumber,
		StateRegistryDate:    date(in.StateRegistryDate),
		Phone:                in.Phone,
		Email:                in.Email,
		Region:               in.Region,
		City:                 in.City,
		PostalAddress:        in.PostalAddress,
		Status:               in.Status,
		JoinDate:             date(in.JoinDate),
		ExcludeDate:          date(in.ExcludeDate),
		ExcludeReason:        in.ExcludeReason,
		BirthDate:            date(in.BirthDate),
		BirthPlace:           in.BirthPlace,
		RegistrationDate:     date(in.RegistrationDate),
		DecisionNumber:       in.DecisionNumber,
		Education:            in.Education,
		WorkExperience:       in.WorkExperience,
		Internship:           in.Internship,
		ExamCertificate:      in.ExamCertificate,
		Disqualification:     in.Disqualification,
		CriminalRecord:       in.CriminalRecord,
		CriminalRecordDate:   date(in.CriminalRecordDate),
		CriminalRecordNumber: in.CriminalRecordNumber,
		CriminalRecordName:   in.CriminalRecordName,
		ComplianceStatus:     in.ComplianceStatus,
		ComplianceDate:       date(in.ComplianceDate),
		ComplianceNumber:     in.ComplianceNumber,
		LastInspection:       date(in.LastInspection),
		Penalties:            in.Penalties,
		Documents:            objectIDs(in.Documents),

		CompensationFundContribution:  in.CompensationFundContribution,
		Insurance:                     in.Insurance.toModel(),
		CompensationFundContributions: contributions(in.CompensationFundContributions),
		Inspections:                   inspections(in.Inspections),
		DisciplinaryMeasures:          measures(in.DisciplinaryMeasures),
		OtherSroParticipation:         otherSros(in.OtherSroParticipation),
	}
	if m.Status == "" {
		m.Status = models.MemberStatusActive
	}
	return m
}

func (in *InsuranceInput) toModel() *models.Insurance {
	if in == nil {
		return nil
	}
	return &models.Insurance{
		StartDate:        date(in.StartDate),
		EndDate:          date(in.EndDate),
		Amount:           in.Amount,
		ContractNumber:   in.ContractNumber,
		ContractDate:     date(in.ContractDate),
		InsuranceCompany: in.InsuranceCompany,
	}
}

func contributions(in []ContributionInput) []models.CompensationFundContribution {
	if in == nil {
		return nil
	}
	out := make([]models.CompensationFundContribution, len(in))
	for i, c := range in {
		out[i] = models.CompensationFundContribution{Purpose: c.Purpose, Date: date(c.Date), Amount: c.Amount}
	}
	return out
}

func inspections(in []InspectionInput) []models.Inspection {
	if in == nil {
		return nil
	}
	out := make([]models.Inspection, len(in))
	for i, x := range in {
		out[i] = models.Inspection{
			Type:       x.Type,
			StartDate:  date(x.StartDate),
			EndDate:    date(x.EndDate),
			Result:     x.Result,
			Violations: x.Violations,
		}
	}
	return out
}

func measures(in []DisciplinaryMeasureInput) []models.DisciplinaryMeasure {
	if in == nil {
		return nil
	}
	out := make([]models.DisciplinaryMeasure, len(in))
	for i, x := range in {
		out[i] = models.DisciplinaryMeasure{
			Type:           x.Type,
			Date:           date(x.Date),
			Reason:         x.Reason,
			DecisionNumber: x.DecisionNumber,
		}
	}
	return out
}

func otherSros(in []OtherSroInput) []models.OtherSroParticipation {
	if in == nil {
		return nil
	}
	out := make([]models.OtherSroParticipation, len(in))
	for i, x := range in {
		out[i] = models.OtherSroParticipation{
			SroName:  x.SroName,
			Number:   x.Number,
			JoinDate: date(x.JoinDate),
			ExitDate: date(x.ExitDate),
			Status:   x.Status,
		}
	}
	return out
}

/*─────────────────────────────────────────────────────────────────────────────*
| Partial update                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// patch accumulates the $set and $unset parts of a partial update together
// with the JSON names of the touched fields.
type patch struct {
	set    bson.M
	unset  []string
	fields []string
}

func newPatch() *patch { return &patch{set: bson.M{}} }

func (p *patch) touch(field string) { p.fields = append(p.fields, field) }

// str sets key to *v, or unsets it when *v is empty.
func (p *patch) str(field, key string, v *string) {
	if v == nil {
		return
	}
	p.touch(field)
	if *v == "" {
		p.unset = append(p.unset, key)
		return
	}
	p.set[key] = *v
}

// date sets key to the parsed date, or unsets it when *v is empty.
func (p *patch) date(field, key string, v *string) {
	if v == nil {
		return
	}
	p.touch(field)
	if t := date(*v); t != nil {
		p.set[key] = *t
		return
	}
	p.unset = append(p.unset, key)
}

// value sets key to v, or unsets it when empty.
func (p *patch) value(field, key string, v any, empty bool) {
	p.touch(field)
	if empty {
		p.unset = append(p.unset, key)
		return
	}
	p.set[key] = v
}

func (in *UpdateMemberInput) toPatch() *patch {
	p := newPatch()

	p.str("fullName", "full_name", in.FullName)
	p.str("inn", "inn", in.INN)
	p.str("registryNumber", "registry_number", in.RegistryNumber)
	p.str("snils", "snils", in.SNILS)
	p.str("stateRegistryNumber", "state_registry_number", in.StateRegistryNumber)
	p.date("stateRegistryDate", "state_registry_date", in.StateRegistryDate)

	p.str("phone", "phone", in.Phone)
	p.str("email", "email", in.Email)
	p.str("region", "region", in.Region)
	p.str("city", "city", in.City)
	p.str("postalAddress", "postal_address", in.PostalAddress)

	p.str("status", "status", in.Status)
	p.date("joinDate", "join_date", in.JoinDate)
	p.date("excludeDate", "exclude_date", in.ExcludeDate)
	p.str("excludeReason", "exclude_reason", in.ExcludeReason)

	p.date("birthDate", "birth_date", in.BirthDate)
	p.str("birthPlace", "birth_place", in.BirthPlace)
	p.date("registrationDate", "registration_date", in.RegistrationDate)
	p.str("decisionNumber", "decision_number", in.DecisionNumber)

	p.str("education", "education", in.Education)
	p.str("workExperience", "work_experience", in.WorkExperience)
	p.str("internship", "internship", in.Internship)
	p.str("examCertificate", "exam_certificate", in.ExamCertificate)

	p.str("disqualification", "disqualification", in.Disqualification)
	p.str("criminalRecord", "criminal_record", in.CriminalRecord)
	p.date("criminalRecordDate", "criminal_record_date", in.CriminalRecordDate)
	p.str("criminalRecordNumber", "criminal_record_number", in.CriminalRecordNumber)
	p.str("criminalRecordName", "criminal_record_name", in.CriminalRecordName)

	if in.Insurance != nil {
		p.value("insurance", "insurance", in.Insurance.toModel(), false)
	}
	if in.CompensationFundContributions != nil {
		v := *in.CompensationFundContributions
		p.value("compensationFundContributions", "compensation_fund_contributions", contributions(v), len(v) == 0)
	}
	if in.CompensationFundContribution != nil {
		p.value("compensationFundContribution", "compensation_fund_contribution", *in.CompensationFundContribution, false)
	}
	if in.Inspections != nil {
		v := *in.Inspections
		p.value("inspections", "inspections", inspections(v), len(v) == 0)
	}
	if in.DisciplinaryMeasures != nil {
		v := *in.DisciplinaryMeasures
		p.value("disciplinaryMeasures", "disciplinary_measures", measures(v), len(v) == 0)
	}
	if in.OtherSroParticipation != nil {
		v := *in.OtherSroParticipation
		p.value("otherSroParticipation", "other_sro_participation", otherSros(v), len(v) == 0)
	}

	p.str("complianceStatus", "compliance_status", in.ComplianceStatus)
	p.date("complianceDate", "compliance_date", in.ComplianceDate)
	p.str("complianceNumber", "compliance_number", in.ComplianceNumber)
	p.date("lastInspection", "last_inspection", in.LastInspection)
	p.str("penalties", "penalties", in.Penalties)

	if in.Documents != nil {
		v := *in.Documents
		p.value("documents", "documents", objectIDs(v), len(v) == 0)
	}
	return p
}
