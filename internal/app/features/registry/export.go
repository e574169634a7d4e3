// internal/app/features/registry/export.go
package registry

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sroam/sroregistry/internal/app/system/csvutil"
	"github.com/sroam/sroregistry/internal/app/system/dates"
	"github.com/sroam/sroregistry/internal/domain/models"
	"github.com/xuri/excelize/v2"
)

const (
	FormatExcel = "excel"
	FormatCSV   = "csv"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"

	SheetName = "Реестр"
)

// Export is a rendered registry file ready to be downloaded.
type Export struct {
	Format      string
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

var statusLabels = map[string]string{
	models.MemberStatusActive:    "Действующий",
	models.MemberStatusExcluded:  "Исключен",
	models.MemberStatusSuspended: "Приостановлен",
}

// StatusLabel returns the Russian label for status, or status itself if unknown.
func StatusLabel(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}

type column struct {
	header string
	value  func(m *models.Member) string
}

func amount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func insurance(m *models.Member) models.Insurance {
	if m.Insurance == nil {
		return models.Insurance{}
	}
	return *m.Insurance
}

func joinSummaries[T any](items []T, f func(T) string) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, f(it))
	}
	return strings.Join(parts, "; ")
}

func inspectionsSummary(m *models.Member) string {
	return joinSummaries(m.Inspections, func(x models.Inspection) string {
		return fmt.Sprintf("%s: %s (%s - %s)", x.Type, x.Result, dates.Format(x.StartDate), dates.Format(x.EndDate))
	})
}

func contributionsSummary(m *models.Member) string {
	return joinSummaries(m.CompensationFundContributions, func(x models.CompensationFundContribution) string {
		return fmt.Sprintf("%s: %s (%s)", x.Purpose, amount(x.Amount), dates.Format(x.Date))
	})
}

func measuresSummary(m *models.Member) string {
	return joinSummaries(m.DisciplinaryMeasures, func(x models.DisciplinaryMeasure) string {
		return fmt.Sprintf("%s: %s (%s)", x.Type, x.Reason, dates.Format(x.Date))
	})
}

func otherSroSummary(m *models.Member) string {
	return joinSummaries(m.OtherSroParticipation, func(x models.OtherSroParticipation) string {
		return fmt.Sprintf("%s (%s - %s)", x.SroName, dates.Format(x.JoinDate), dates.Format(x.ExitDate))
	})
}

// excelColumns is the full workbook layout.
var excelColumns = []column{
	{"ФИО", func(m *models.Member) string { return m.FullName }},
	{"ИНН", func(m *models.Member) string { return m.INN }},
	{"СНИЛС", func(m *models.Member) string { return m.SNILS }},
	{"Регистрационный номер", func(m *models.Member) string { return m.RegistryNumber }},
	{"Номер в госреестре", func(m *models.Member) string { return m.StateRegistryNumber }},
	{"Дата включения в госреестр", func(m *models.Member) string { return dates.Format(m.StateRegistryDate) }},
	{"Телефон", func(m *models.Member) string { return m.Phone }},
	{"Email", func(m *models.Member) string { return m.Email }},
	{"Регион", func(m *models.Member) string { return m.Region }},
	{"Город", func(m *models.Member) string { return m.City }},
	{"Почтовый адрес", func(m *models.Member) string { return m.PostalAddress }},
	{"Статус", func(m *models.Member) string { return StatusLabel(m.Status) }},
	{"Дата вступления", func(m *models.Member) string { return dates.Format(m.JoinDate) }},
	{"Дата исключения", func(m *models.Member) string { return dates.Format(m.ExcludeDate) }},
	{"Причина исключения", func(m *models.Member) string { return m.ExcludeReason }},
	{"Дата рождения", func(m *models.Member) string { return dates.Format(m.BirthDate) }},
	{"Место рождения", func(m *models.Member) string { return m.BirthPlace }},
	{"Дата регистрации", func(m *models.Member) string { return dates.Format(m.RegistrationDate) }},
	{"Номер решения", func(m *models.Member) string { return m.DecisionNumber }},
	{"Образование", func(m *models.Member) string { return m.Education }},
	{"Опыт работы", func(m *models.Member) string { return m.WorkExperience }},
	{"Стажировка", func(m *models.Member) string { return m.Internship }},
	{"Экзаменационный сертификат", func(m *models.Member) string { return m.ExamCertificate }},
	{"Дисквалификация", func(m *models.Member) string { return m.Disqualification }},
	{"Судимость", func(m *models.Member) string { return m.CriminalRecord }},
	{"Дата судимости", func(m *models.Member) string { return dates.Format(m.CriminalRecordDate) }},
	{"Номер судимости", func(m *models.Member) string { return m.CriminalRecordNumber }},
	{"Наименование судимости", func(m *models.Member) string { return m.CriminalRecordName }},
	{"Страховая компания", func(m *models.Member) string { return insurance(m).InsuranceCompany }},
	{"Номер договора страхования", func(m *models.Member) string { return insurance(m).ContractNumber }},
	{"Дата договора страхования", func(m *models.Member) string { return dates.Format(insurance(m).ContractDate) }},
	{"Дата начала страхования", func(m *models.Member) string { return dates.Format(insurance(m).StartDate) }},
	{"Дата окончания страхования", func(m *models.Member) string { return dates.Format(insurance(m).EndDate) }},
	{"Страховая сумма", func(m *models.Member) string { return amount(insurance(m).Amount) }},
	{"Взнос в компенсационный фонд", func(m *models.Member) string { return amount(m.CompensationFundContribution) }},
	{"Взносы в компенсационный фонд", contributionsSummary},
	{"Проверки", inspectionsSummary},
	{"Дисциплинарные взыскания", measuresSummary},
	{"Участие в других СРО", otherSroSummary},
	{"Статус соответствия", func(m *models.Member) string { return m.ComplianceStatus }},
	{"Дата соответствия", func(m *models.Member) string { return dates.Format(m.ComplianceDate) }},
	{"Номер соответствия", func(m *models.Member) string { return m.ComplianceNumber }},
	{"Последняя проверка", func(m *models.Member) string { return dates.Format(m.LastInspection) }},
	{"Штрафы", func(m *models.Member) string { return m.Penalties }},
	{"Дата создания", func(m *models.Member) string { return dates.Format(&m.CreatedAt) }},
	{"Дата обновления", func(m *models.Member) string { return dates.Format(&m.UpdatedAt) }},
}

// csvColumns is the reduced flat layout, picked from excelColumns by header.
var csvColumns = pickColumns(
	"ФИО", "ИНН", "СНИЛС", "Регистрационный номер", "Номер в госреестре",
	"Телефон", "Email", "Регион", "Город", "Почтовый адрес",
	"Статус", "Дата вступления", "Дата исключения", "Причина исключения",
	"Дата рождения", "Место рождения", "Дата регистрации", "Номер решения", "Образование",
	"Страховая компания", "Номер договора страхования", "Дата окончания страхования",
	"Страховая сумма", "Взнос в компенсационный фонд", "Последняя проверка", "Дата обновления",
)

func pickColumns(headers ...string) []column {
	byHeader := make(map[string]column, len(excelColumns))
	for _, c := range excelColumns {
		byHeader[c.header] = c
	}
	out := make([]column, 0, len(headers))
	for _, h := range headers {
		c, ok := byHeader[h]
		if !ok {
			panic("registry: unknown export column " + h)
		}
		out = append(out, c)
	}
	return out
}

func headers(cols []column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.header
	}
	return out
}

func row(cols []column, m *models.Member) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.value(m)
	}
	return out
}

// filename returns "<prefix>_YYYYMMDD_HHMMSS.<ext>".
func (s *Service) filename(prefix, ext string) string {
	if prefix == "" {
		prefix = "registry"
	}
	return prefix + "_" + s.now().Format("20060102_150405") + "." + ext
}

// ExportExcel renders the whole registry, ordered by full name, as an xlsx workbook.
func (s *Service) ExportExcel(ctx context.Context, prefix string) (Export, error) {
	members, err := s.members.ListAllSorted(ctx)
	if err != nil {
		return Export{}, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return Export{}, err
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return Export{}, err
	}
	if err := sw.SetColWidth(1, len(excelColumns), 22); err != nil {
		return Export{}, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Export{}, err
	}

	if err := sw.SetRow("A1", cells(headers(excelColumns)), excelize.RowOpts{StyleID: bold}); err != nil {
		return Export{}, err
	}
	for i := range members {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return Export{}, err
		}
		if err := sw.SetRow(cell, cells(row(excelColumns, &members[i]))); err != nil {
			return Export{}, err
		}
	}
	if err := sw.Flush(); err != nil {
		return Export{}, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Export{}, err
	}
	s.metrics.IncExport(FormatExcel)

	return Export{
		Format:      FormatExcel,
		Filename:    s.filename(prefix, "xlsx"),
		ContentType: ContentTypeXLSX,
		Data:        buf.Bytes(),
		Rows:        len(members),
	}, nil
}

func cells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// ExportCSV renders the whole registry, ordered by full name, as quoted CSV.
func (s *Service) ExportCSV(ctx context.Context, prefix string) (Export, error) {
	members, err := s.members.ListAllSorted(ctx)
	if err != nil {
		return Export{}, err
	}

	var buf bytes.Buffer
	cw := csvutil.NewWriter(&buf)
	if err := cw.Write(headers(csvColumns)); err != nil {
		return Export{}, err
	}
	for i := range members {
		if err := cw.Write(row(csvColumns, &members[i])); err != nil {
			return Export{}, err
		}
	}
	if err := cw.Flush(); err != nil {
		return Export{}, err
	}
	s.metrics.IncExport(FormatCSV)

	return Export{
		Format:      FormatCSV,
		Filename:    s.filename(prefix, "csv"),
		ContentType: ContentTypeCSV,
		Data:        buf.Bytes(),
		Rows:        len(members),
	}, nil
}
