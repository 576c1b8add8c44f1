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
	"fmt"
	"time"

	"github.com/exascience/pargo/parallel"
)

// Readmission labeling. For each admission, derive the admit time and type of
// the chronologically next non-elective admission of the same patient, and
// the number of days between discharge and that next admission. Elective
// readmissions are planned and are not a prediction target, so they are
// skipped over: an admission followed only by elective admissions and then an
// emergency one is labeled with the emergency one.

// labelPatient computes the readmission labels for a single patient. The
// labeling is a forward shift over the patient's chronologically sorted
// admissions, followed by a null-out of elective next admissions, and a
// backward fill pass that replaces the nulled entries with the nearest
// following non-null value.
func labelPatient(p *Patient) {
	SortAdmissions(p)
	admissions := p.Admissions
	// forward shift: each admission takes the admit time and type of the
	// following admission; the last admission of the patient gets nil
	for i, a := range admissions {
		if i+1 < len(admissions) {
			next := admissions[i+1]
			t := next.AdmitTime
			a.NextAdmitTime = &t
			a.NextType = next.Type
		} else {
			a.NextAdmitTime = nil
			a.NextType = NoType
		}
	}
	// null out planned readmissions
	for _, a := range admissions {
		if a.NextType == Elective {
			a.NextAdmitTime = nil
			a.NextType = NoType
		}
	}
	// re-sort before the backward pass instead of trusting that the
	// null-out step left the order intact
	SortAdmissions(p)
	// back-fill: a nulled entry takes the value of the nearest following
	// non-null entry, which is the admit time of the next non-elective
	// admission past any intervening elective ones
	var fillTime *time.Time
	fillType := NoType
	for i := len(admissions) - 1; i >= 0; i-- {
		a := admissions[i]
		if a.NextAdmitTime != nil {
			fillTime = a.NextAdmitTime
			fillType = a.NextType
			continue
		}
		a.NextAdmitTime = fillTime
		a.NextType = fillType
	}
	// days between discharge and next admission; negative values occur in
	// the data when the next admission is recorded before discharge and
	// are passed through unmodified
	for _, a := range admissions {
		if a.NextAdmitTime == nil || a.DischTime.IsZero() {
			continue
		}
		d := a.NextAdmitTime.Sub(a.DischTime).Hours() / 24.0
		a.DaysToNext = &d
	}
}

// LabelReadmissions computes the readmission labels for all patients in the
// given patient map. Patients are independent, so the labeling runs over the
// patients in parallel.
func LabelReadmissions(patients *PatientMap) {
	fmt.Println("Labeling readmissions...")
	plist := patients.Patients()
	parallel.Range(0, len(plist), 0, func(low, high int) {
		for _, p := range plist[low:high] {
			labelPatient(p)
		}
	})
	labeled := 0
	negative := 0
	for _, p := range plist {
		for _, a := range p.Admissions {
			if a.NextAdmitTime != nil {
				labeled++
				if a.DaysToNext != nil && *a.DaysToNext < 0 {
					negative++
				}
			}
		}
	}
	fmt.Println("Labeled ", len(plist), " patients; ", labeled, " admissions have a next non-elective admission ")
	fmt.Println("of which ", negative, " with a negative time to readmission (next admission recorded before discharge).")
}
