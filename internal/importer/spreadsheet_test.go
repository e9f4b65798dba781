package importer

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]string) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, name, cell))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func header() []string {
	return []string{
		"S.no", "Candidate Name", "Mobile Number", "Email Id", "Total Experience",
		"Company", "CTC", "ECTC", "Offer in Hand", "Notice",
		"Current Location", "Preferred Location", "Availability for interview",
	}
}

func TestImportRequiresCampaignBeforeFile(t *testing.T) {
	// a reader that panics if touched proves the campaign check comes first
	_, err := ImportSpreadsheet(panicReader{}, "")
	assert.ErrorIs(t, err, ErrMissingCampaign)
}

type panicReader struct{}

func (panicReader) Read([]byte) (int, error) { panic("file read before campaign check") }

func TestImportValidRows(t *testing.T) {
	r := workbook(t, [][]string{
		header(),
		{"1", "Ada Lovelace", "555-0101", "ada@x.com", "5y", "Analytical Engines", "10", "14", "No", "30 days", "London", "Remote", "Weekdays"},
		{"2", "Grace Hopper", "555-0102", "grace@x.com", "8y", "Navy", "12", "16", "Yes", "15 days", "NYC", "NYC", "Any"},
	})

	res, err := ImportSpreadsheet(r, "camp-1")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 2)
	assert.Empty(t, res.Failed)

	ada := res.Candidates[0]
	assert.Equal(t, "Ada Lovelace", ada.Name)
	assert.Equal(t, "ada@x.com", ada.Email)
	assert.Equal(t, "555-0101", ada.Phone)
	assert.Equal(t, "30 days", ada.NoticePeriod)
	assert.Equal(t, "camp-1", ada.CampaignID)
	assert.NotEmpty(t, ada.ID)
}

func TestImportPartialFailure(t *testing.T) {
	r := workbook(t, [][]string{
		header(),
		{"1", "Ada", "", "ada@x.com"},
		{"2", "", "", "noname@x.com"},
		{"3", "Bad Email", "", "not-an-email"},
		{"4", "Grace", "", "grace@x.com"},
	})

	res, err := ImportSpreadsheet(r, "camp-1")
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 2)
	require.Len(t, res.Failed, 2)

	// row numbers are 1-based including the header
	assert.Equal(t, 3, res.Failed[0].Row)
	assert.Contains(t, res.Failed[0].Message, "name")
	assert.Equal(t, 4, res.Failed[1].Row)
	assert.Contains(t, res.Failed[1].Message, "email")
}

func TestImportBlankRowsSkipped(t *testing.T) {
	r := workbook(t, [][]string{
		header(),
		{"1", "Ada", "", "ada@x.com"},
		{"", "", "", ""},
		{"2", "Grace", "", "grace@x.com"},
	})

	res, err := ImportSpreadsheet(r, "camp-1")
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 2)
	assert.Empty(t, res.Failed)
}

func TestImportHeaderMismatch(t *testing.T) {
	bad := header()
	bad[3] = "Email Address"
	r := workbook(t, [][]string{bad, {"1", "Ada", "", "ada@x.com"}})

	_, err := ImportSpreadsheet(r, "camp-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email Id")
}

func TestImportHeaderCaseInsensitive(t *testing.T) {
	lower := make([]string, len(header()))
	for i, h := range header() {
		lower[i] = " " + strings.ToUpper(h) + " " // padding is trimmed too
	}
	r := workbook(t, [][]string{lower, {"1", "Ada", "", "ada@x.com"}})

	res, err := ImportSpreadsheet(r, "camp-1")
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 1)
}

func TestImportNotASpreadsheet(t *testing.T) {
	_, err := ImportSpreadsheet(bytes.NewReader([]byte("plain text")), "camp-1")
	assert.Error(t, err)
}
