package main

import (
	"time"

	"github.com/nedpals/hlasmls/journal"
	"github.com/tealeg/xlsx"
)

// buildReport summarizes the journals found in paths into a workbook with a
// summary sheet and a sheet listing every recorded diagnostic.
func buildReport(paths []string) (*xlsx.File, error) {
	wb := xlsx.NewFile()

	summarySheet, err := wb.AddSheet("Summary")
	if err != nil {
		return nil, err
	}

	// write the header
	row := summarySheet.AddRow()
	row.AddCell().SetValue("Journal")
	row.AddCell().SetValue("Document")
	row.AddCell().SetValue("Diagnostics")
	row.AddCell().SetValue("Lines")
	row.AddCell().SetValue("Sessions")

	entriesSheet, err := wb.AddSheet("Diagnostics")
	if err != nil {
		return nil, err
	}

	row = entriesSheet.AddRow()
	row.AddCell().SetValue("Journal")
	row.AddCell().SetValue("Session")
	row.AddCell().SetValue("Document")
	row.AddCell().SetValue("Version")
	row.AddCell().SetValue("Line")
	row.AddCell().SetValue("Start Column")
	row.AddCell().SetValue("End Column")
	row.AddCell().SetValue("Message")
	row.AddCell().SetValue("Recorded At")

	for _, path := range paths {
		if err := appendJournal(summarySheet, entriesSheet, path); err != nil {
			return nil, err
		}
	}

	return wb, nil
}

func appendJournal(summarySheet, entriesSheet *xlsx.Sheet, path string) error {
	j, err := journal.NewJournalFromPath(path)
	if err != nil {
		return err
	}
	defer j.Close()

	summaries, err := j.Summarize()
	if err != nil {
		return err
	}

	for _, summary := range summaries {
		row := summarySheet.AddRow()
		row.AddCell().SetValue(path)
		row.AddCell().SetValue(summary.URI)
		row.AddCell().SetValue(summary.Diagnostics)
		row.AddCell().SetValue(summary.Lines)
		row.AddCell().SetValue(summary.Sessions)
	}

	entries, err := j.Entries(journal.Filter{})
	if err != nil {
		return err
	}

	for _, entry := range entries {
		row := entriesSheet.AddRow()
		row.AddCell().SetValue(path)
		row.AddCell().SetValue(entry.SessionId)
		row.AddCell().SetValue(entry.URI)
		row.AddCell().SetValue(entry.Version)
		// 1-based like the check command, end column inclusive
		row.AddCell().SetValue(entry.Line + 1)
		row.AddCell().SetValue(entry.StartColumn + 1)
		row.AddCell().SetValue(entry.EndColumn)
		row.AddCell().SetValue(entry.Message)

		recordedAt := ""
		if entry.CreatedAt.Valid {
			recordedAt = entry.CreatedAt.Time.Format(time.RFC3339)
		}
		row.AddCell().SetValue(recordedAt)
	}

	return nil
}
