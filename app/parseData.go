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

package app

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"readmit/admission"
)

//Package readmit implements a data preparation tool for hospital readmission
//prediction. The readmit program has 2 data inputs:
//A file with hospital admissions, associating a patient ID with an admission
//ID, admit/discharge/death timestamps, and an admission type.
//A file with clinical notes, associating a patient ID and admission ID with a
//note category, chart date, and free text body.
//Both inputs are csv extracts in the MIMIC-III layout, with a header row that
//names the columns. Columns are located by name rather than position, because
//the extracts circulate with varying column orders and casings.

// timestamp layouts that occur in the extracts; "2006-01-02" occurs for
// date-only columns such as the note chart date
var timestampLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// parseTimestamp turns a timestamp string from the input into a time value.
// Malformed or empty strings coerce to nil rather than raising, to tolerate
// upstream inconsistency; the callers count the coercions for logging.
func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// headerIndex maps the lower-cased column names of a header record onto their
// positions.
func headerIndex(header []string) map[string]int {
	index := map[string]int{}
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return index
}

// columnIndexes looks up the positions of the required columns in a header
// index. A missing required column is a fatal input error.
func columnIndexes(index map[string]int, file string, columns ...string) []int {
	result := make([]int, len(columns))
	for i, name := range columns {
		idx, ok := index[name]
		if !ok {
			log.Panic("Error: required column ", name, " not found in ", file)
		}
		result[i] = idx
	}
	return result
}

// parseAdmissions parses a csv file with hospital admissions. It returns a
// patient map with the admissions grouped per patient, in original file
// order. Rows without a parseable admit time are skipped because they cannot
// be ordered; malformed discharge and death times coerce to missing values.
func parseAdmissions(file string) *admission.PatientMap {
	csvFile, err := os.Open(file)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := csvFile.Close(); err != nil {
			panic(err)
		}
	}()
	patientMap := &admission.PatientMap{PIDMap: map[int]*admission.Patient{}, PIDStringMap: map[string]int{}}
	reader := csv.NewReader(csvFile)
	header, err := reader.Read()
	if err != nil {
		log.Panic("Error: cannot read header of ", file, ": ", err)
	}
	cols := columnIndexes(headerIndex(header), file,
		"subject_id", "hadm_id", "admittime", "dischtime", "deathtime", "admission_type")
	row := 0
	skipped := 0
	badDischarge := 0
	typeCtr := map[int]int{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			panic(err)
		}
		row++
		admitTime := parseTimestamp(record[cols[2]])
		if admitTime == nil {
			skipped++ //skip admissions that cannot be ordered in time
			continue
		}
		var dischTime time.Time
		if t := parseTimestamp(record[cols[3]]); t != nil {
			dischTime = *t
		} else {
			badDischarge++
		}
		deathTime := parseTimestamp(record[cols[4]])
		admissionType := admission.ParseAdmissionType(record[cols[5]])
		typeCtr[admissionType]++
		pidString := strings.TrimSpace(record[cols[0]])
		patient, ok := admission.GetPatient(pidString, patientMap)
		if !ok {
			patientMap.Ctr++ // avoid using 0 as PID
			pid := patientMap.Ctr
			patient = &admission.Patient{PID: pid, PIDString: pidString, Admissions: []*admission.Admission{}}
			patientMap.PIDMap[pid] = patient
			patientMap.PIDStringMap[pidString] = pid
		}
		a := &admission.Admission{
			PID:       patient.PID,
			HadmID:    strings.TrimSpace(record[cols[1]]),
			Row:       row,
			AdmitTime: *admitTime,
			DischTime: dischTime,
			DeathTime: deathTime,
			Type:      admissionType,
			NextType:  admission.NoType,
		}
		admission.AddAdmission(patient, a)
		patientMap.AdmissionCtr++
		if deathTime != nil {
			patientMap.DeceasedCtr++
		}
	}
	fmt.Println("Parsed admission data.")
	fmt.Print("Parsed ", patientMap.AdmissionCtr, " admissions for ", patientMap.Ctr, " patients ")
	fmt.Println("of which ", patientMap.DeceasedCtr, " with an in-hospital death.")
	fmt.Println("Skipped ", skipped, " admissions without a parseable admit time; ", badDischarge,
		" admissions have no parseable discharge time.")
	for t, ctr := range typeCtr {
		fmt.Print(admission.AdmissionTypeString(t), ": ", ctr, ", ")
	}
	fmt.Println("")
	return patientMap
}

// parseNotes parses a csv file with clinical notes. All categories are
// retained at this point; selection down to one discharge summary per
// admission happens in admission.SelectNotes.
func parseNotes(file string) []*admission.Note {
	csvFile, err := os.Open(file)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := csvFile.Close(); err != nil {
			panic(err)
		}
	}()
	reader := csv.NewReader(csvFile)
	header, err := reader.Read()
	if err != nil {
		log.Panic("Error: cannot read header of ", file, ": ", err)
	}
	cols := columnIndexes(headerIndex(header), file,
		"subject_id", "hadm_id", "chartdate", "category", "text")
	notes := []*admission.Note{}
	row := 0
	badChartDate := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			panic(err)
		}
		row++
		chartDate := parseTimestamp(record[cols[2]])
		if chartDate == nil {
			badChartDate++
		}
		notes = append(notes, &admission.Note{
			PIDString: strings.TrimSpace(record[cols[0]]),
			HadmID:    strings.TrimSpace(record[cols[1]]),
			Row:       row,
			ChartDate: chartDate,
			Category:  record[cols[3]],
			Text:      record[cols[4]],
		})
	}
	fmt.Println("Parsed note data.")
	fmt.Println("Parsed ", len(notes), " notes of which ", badChartDate, " without a parseable chart date.")
	return notes
}

// ParseMimicData parses the admissions and notes extracts and applies the
// given patient filters to the admissions. The notes are returned unselected;
// selection and joining are separate passes.
func ParseMimicData(admissionsFile, notesFile string, filters []admission.PatientFilter) (*admission.PatientMap, []*admission.Note) {
	patients := parseAdmissions(admissionsFile)
	patients = admission.ApplyPatientFilters(filters, patients)
	fmt.Println("Filtered down to: ", len(patients.PIDMap), " patients with ", patients.AdmissionCtr, " admissions.")
	notes := parseNotes(notesFile)
	return patients, notes
}
