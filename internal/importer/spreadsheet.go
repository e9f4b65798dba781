// Package importer ingests candidate spreadsheets uploaded in bulk.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"hiring-management-api/internal/model"
	"hiring-management-api/internal/schedule"
)

var (
	ErrMissingCampaign = errors.New("campaign context is required before import")
	ErrEmptySheet      = errors.New("spreadsheet has no rows")
)

// columnTemplate is the fixed header contract for bulk uploads.
var columnTemplate = []string{
	"S.no",
	"Candidate Name",
	"Mobile Number",
	"Email Id",
	"Total Experience",
	"Company",
	"CTC",
	"ECTC",
	"Offer in Hand",
	"Notice",
	"Current Location",
	"Preferred Location",
	"Availability for interview",
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type Result struct {
	Candidates []model.Candidate `json:"candidates"`
	Failed     []RowError        `json:"failed,omitempty"`
}

// ImportSpreadsheet parses an uploaded workbook into candidates. The
// campaign context is checked before the file is touched; rows that fail
// validation are reported per-item while valid rows still import.
func ImportSpreadsheet(r io.Reader, campaignID string) (*Result, error) {
	if campaignID == "" {
		return nil, ErrMissingCampaign
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	res := &Result{}
	now := time.Now()
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after header
		if blankRow(row) {
			continue
		}
		c, err := parseRow(row, campaignID, now)
		if err != nil {
			res.Failed = append(res.Failed, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		res.Candidates = append(res.Candidates, c)
	}
	return res, nil
}

func checkHeader(header []string) error {
	if len(header) < len(columnTemplate) {
		return fmt.Errorf("header has %d columns, expected %d", len(header), len(columnTemplate))
	}
	for i, want := range columnTemplate {
		got := strings.TrimSpace(header[i])
		if !strings.EqualFold(got, want) {
			return fmt.Errorf("column %d is %q, expected %q", i+1, got, want)
		}
	}
	return nil
}

func parseRow(row []string, campaignID string, now time.Time) (model.Candidate, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name := cell(1)
	email := cell(3)
	if name == "" {
		return model.Candidate{}, errors.New("candidate name is required")
	}
	if email == "" {
		return model.Candidate{}, errors.New("email id is required")
	}
	if !schedule.ValidEmail(email) {
		return model.Candidate{}, fmt.Errorf("invalid email %q", email)
	}

	return model.Candidate{
		ID:                uuid.New().String(),
		Name:              name,
		Phone:             cell(2),
		Email:             email,
		TotalExperience:   cell(4),
		Company:           cell(5),
		CTC:               cell(6),
		ECTC:              cell(7),
		OfferInHand:       cell(8),
		NoticePeriod:      cell(9),
		CurrentLocation:   cell(10),
		PreferredLocation: cell(11),
		Availability:      cell(12),
		CampaignID:        campaignID,
		CreatedAt:         now,
	}, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
