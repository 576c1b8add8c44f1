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
	"sort"
	"strings"
	"time"
)

// Admission types as they occur in the admissions extract. NoType marks the
// absence of a next admission.
const (
	Elective = iota
	Emergency
	Newborn
	Urgent
	Unknown
	NoType = -1
)

// ParseAdmissionType maps the admission type string from the input onto one of
// the admission type constants. Unrecognized strings map to Unknown rather
// than failing, to tolerate upstream inconsistency.
func ParseAdmissionType(s string) int {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ELECTIVE":
		return Elective
	case "EMERGENCY":
		return Emergency
	case "NEWBORN":
		return Newborn
	case "URGENT":
		return Urgent
	default:
		return Unknown
	}
}

// AdmissionTypeString returns the name of an admission type constant, for
// printing and for the output file.
func AdmissionTypeString(t int) string {
	switch t {
	case Elective:
		return "ELECTIVE"
	case Emergency:
		return "EMERGENCY"
	case Newborn:
		return "NEWBORN"
	case Urgent:
		return "URGENT"
	case NoType:
		return ""
	default:
		return "UNKNOWN"
	}
}

// Admission represents a single hospital admission of a patient. The Next*
// and DaysToNext fields are derived by LabelReadmissions; Note is filled in
// by JoinNotes. Optional fields are pointers and nil when absent.
type Admission struct {
	PID       int        //analysis ID of the patient
	HadmID    string     //admission ID from the input
	Row       int        //original row order in the input, breaks sorting ties
	AdmitTime time.Time  //admission timestamp
	DischTime time.Time  //discharge timestamp, zero when unparseable
	DeathTime *time.Time //in-hospital death timestamp
	Type      int        //one of the admission type constants

	NextAdmitTime *time.Time //admit time of the next non-elective admission of the same patient
	NextType      int        //admission type of that next admission, NoType when none
	DaysToNext    *float64   //days between discharge and next admit, may be negative

	Note *Note //the discharge summary attached to this admission, nil when missing
}

// Patient groups all admissions of a single patient.
type Patient struct {
	PID        int          //analysis ID
	PIDString  string       //ID from the input
	Admissions []*Admission //the patient's admissions, sorted by admit time after labeling
}

// AddAdmission appends an admission to a patient's list of admissions.
func AddAdmission(p *Patient, a *Admission) {
	p.Admissions = append(p.Admissions, a)
}

// SortAdmissions modifies a given patient's list of admissions to be ordered
// by admit time. The sort is stable so that equal admit times keep the
// original row order from the input, which makes the tie-break deterministic.
func SortAdmissions(p *Patient) {
	admissions := p.Admissions
	sort.SliceStable(admissions, func(i, j int) bool {
		return admissions[i].AdmitTime.Before(admissions[j].AdmitTime)
	})
}

// PatientMap contains all patient information parsed from the input.
type PatientMap struct {
	PIDStringMap map[string]int   //maps patient string id onto an int PID
	Ctr          int              //total nr of patients parsed, also used for creating PIDs
	PIDMap       map[int]*Patient //maps PID onto a patient object holding the admissions
	// optional info for logging
	AdmissionCtr int //total nr of admissions parsed
	DeceasedCtr  int //nr of admissions with an in-hospital death time
}

// GetPatient retrieves from a patient map the patient object associated with a
// given patient ID. The patient ID is passed as a string and refers to the ID
// that occurs in the input.
func GetPatient(pidString string, patients *PatientMap) (*Patient, bool) {
	pid, ok := patients.PIDStringMap[pidString]
	if !ok {
		return &Patient{}, false
	}
	patient, ok := patients.PIDMap[pid]
	return patient, ok
}

// Patients returns the patients of a patient map as a slice, ordered by PID.
// Iteration over the PIDMap itself is randomized by the runtime; the slice
// gives deterministic processing and output order.
func (patients *PatientMap) Patients() []*Patient {
	plist := make([]*Patient, 0, len(patients.PIDMap))
	for _, p := range patients.PIDMap {
		plist = append(plist, p)
	}
	sort.Slice(plist, func(i, j int) bool {
		return plist[i].PID < plist[j].PID
	})
	return plist
}
