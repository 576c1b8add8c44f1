// READMIT: Hospital Readmission Data Preparation Library
// Copyright (c) 2022 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/readmit/blob/master/LICENSE.txt>.

package admission

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Writing and printing of the joined relation.

const timestampLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timestampLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timestampLayout)
}

func formatDays(d *float64) string {
	if d == nil {
		return ""
	}
	return strconv.FormatFloat(*d, 'f', -1, 64)
}

// WriteJoinedAdmissions writes the joined relation to a csv file, one row per
// admission. Note text contains newlines and commas, so the rows go through a
// csv writer rather than plain tab-separated prints. Empty fields encode
// missing values.
func WriteJoinedAdmissions(joined []*Admission, patients *PatientMap, name string) {
	file, err := os.Create(name)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			panic(err)
		}
	}()
	writer := csv.NewWriter(file)
	defer writer.Flush()
	header := []string{"patient_id", "admission_id", "admit_time", "discharge_time",
		"days_until_next_admission", "next_admit_time", "admission_type", "death_time", "note_text"}
	if err := writer.Write(header); err != nil {
		panic(err)
	}
	for _, a := range joined {
		p := patients.PIDMap[a.PID]
		noteText := ""
		if a.Note != nil {
			noteText = a.Note.Text
		}
		record := []string{
			p.PIDString,
			a.HadmID,
			formatTime(a.AdmitTime),
			formatTime(a.DischTime),
			formatDays(a.DaysToNext),
			formatTimePtr(a.NextAdmitTime),
			AdmissionTypeString(a.Type),
			formatTimePtr(a.DeathTime),
			noteText,
		}
		if err := writer.Write(record); err != nil {
			panic(err)
		}
	}
	fmt.Println("Wrote ", len(joined), " joined admissions to ", name)
}

// PrintAdmission prints a one-line summary of a joined admission to standard
// output.
func PrintAdmission(a *Admission, patients *PatientMap) {
	p := patients.PIDMap[a.PID]
	fmt.Print("Patient ", p.PIDString, " admission ", a.HadmID, " (", AdmissionTypeString(a.Type), ") ")
	fmt.Print("admitted ", formatTime(a.AdmitTime), " discharged ", formatTime(a.DischTime))
	if a.NextAdmitTime != nil {
		fmt.Print(" -- ", formatDays(a.DaysToNext), " days --> ", formatTimePtr(a.NextAdmitTime),
			" (", AdmissionTypeString(a.NextType), ")")
	}
	if a.Note != nil {
		fmt.Print(" note: ", len(a.Note.Text), " chars")
	} else {
		fmt.Print(" note: missing")
	}
	fmt.Println(" ")
}
