package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
	"fleetdesk/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the printable driver duty sheet of a worklist.
type DocsService struct {
	RequestID string
}

var dutySheetColumns = []struct {
	title string
	width float64
}{
	{"Leg", 14},
	{"Waktu", 30},
	{"Pelanggan", 40},
	{"Lokasi", 58},
	{"Kendaraan", 50},
	{"Driver", 40},
	{"Status", 30},
}

// GenerateDutySheet lays out legs in the order given, one row per leg.
func (s DocsService) GenerateDutySheet(ownerName string, legs []models.Leg, generatedAt time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Duty Sheet", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "DUTY SHEET PICK / DROP")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range dutySheetHeader(ownerName, legs, generatedAt) {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range dutySheetColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	if len(legs) == 0 {
		pdf.CellFormat(262, 7, "Tidak ada leg aktif.", "1", 1, "C", false, 0, "")
	}
	for _, l := range legs {
		row := dutySheetRow(l)
		for i, c := range dutySheetColumns {
			pdf.CellFormat(c.width, 7, fit(pdf, row[i], c.width), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "gagal membuat duty sheet", Err: err}
	}

	utils.LogEventf(s.RequestID, "docs", "generate_duty_sheet", "legs=%d open=%d", len(legs), countOpen(legs))
	filename := fmt.Sprintf("DUTY_SHEET_%s_%s.pdf", safeFilenamePart(ownerName), generatedAt.Format("20060102"))
	return buf.Bytes(), filename, nil
}

func countOpen(legs []models.Leg) int {
	open := 0
	for _, l := range legs {
		if !l.IsAllocated {
			open++
		}
	}
	return open
}

// dutySheetHeader lists the lines printed above the table. The worklist
// covers legs from the start of generatedAt's day.
func dutySheetHeader(ownerName string, legs []models.Leg, generatedAt time.Time) []string {
	return []string{
		"Owner   : " + safe(ownerName, "-"),
		"Periode : mulai " + safe(utils.FormatDate(utils.StartOfDay(generatedAt)), "-"),
		"Dicetak : " + safe(utils.FormatDateTime(generatedAt), "-"),
		fmt.Sprintf("Leg     : %d total, %d belum ada driver", len(legs), countOpen(legs)),
	}
}

func dutySheetRow(l models.Leg) []string {
	vehicle := strings.TrimSpace(safe(l.ModelName, "") + " " + safe(l.Registration, ""))
	status := "BELUM"
	if l.IsAllocated {
		status = "OK"
	}
	return []string{
		string(l.Type),
		safe(utils.FormatDateTime(l.Time), "-"),
		safe(l.CustomerName, "-"),
		safe(l.Location, "-"),
		safe(vehicle, "-"),
		safe(utils.FirstNonEmpty(l.DriverName, l.DriverID), "-"),
		status,
	}
}

// fit trims s until it fits in a cell of width w.
func fit(pdf *gofpdf.Fpdf, s string, w float64) string {
	limit := w - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"..") > limit {
		r = r[:len(r)-1]
	}
	return string(r) + ".."
}

func safe(v, fallback string) string {
	v = utils.NormalizeSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	r := []rune(replacer.Replace(s))
	if len(r) > 40 {
		r = r[:40]
	}
	return string(r)
}
