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
)

// JoinNotes left-joins the labeled admissions with the selected notes on the
// admission ID. The result contains one row per admission, in patient and
// admit time order, with the note attached where one exists.
//
// A duplicate admission ID across the admissions input, or a note whose
// patient ID disagrees with the admission it joins to, indicates a
// key-uniqueness violation upstream. The join fails with an error in that
// case instead of silently duplicating or misattributing rows. The row count
// of the result always equals the admissions row count.
func JoinNotes(patients *PatientMap, notes *NoteMap) ([]*Admission, error) {
	joined := []*Admission{}
	seen := map[string]bool{}
	for _, p := range patients.Patients() {
		for _, a := range p.Admissions {
			if seen[a.HadmID] {
				return nil, fmt.Errorf("duplicate admission ID %s in admissions input", a.HadmID)
			}
			seen[a.HadmID] = true
			if n, ok := notes.Notes[a.HadmID]; ok {
				if n.PIDString != p.PIDString {
					return nil, fmt.Errorf("note for admission %s belongs to patient %s, admission belongs to patient %s",
						a.HadmID, n.PIDString, p.PIDString)
				}
				a.Note = n
			}
			joined = append(joined, a)
		}
	}
	if len(joined) != patients.AdmissionCtr {
		return nil, fmt.Errorf("join produced %d rows for %d admissions", len(joined), patients.AdmissionCtr)
	}
	fmt.Println("Joined ", len(joined), " admissions with ", len(notes.Notes), " notes.")
	return joined, nil
}
