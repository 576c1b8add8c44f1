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
	"readmit/admission"
)

// periodAggregator filters a set of patients to only include those with at
// least one admission that satisfies a given predicate on the admit year, and
// trims the other admissions from their lists. Trimming before labeling keeps
// the derived next-admission fields consistent with the selected period.
func periodAggregator(predicate func(year int) bool) admission.PatientFilter {
	return func(p *admission.Patient) bool {
		newA := []*admission.Admission{}
		for _, a := range p.Admissions {
			if predicate(a.AdmitTime.Year()) {
				newA = append(newA, a)
			}
		}
		p.Admissions = newA
		return len(newA) > 0
	}
}

// AdmittedBeforeAggregator keeps only admissions with an admit year strictly
// before the given year.
func AdmittedBeforeAggregator(year int) admission.PatientFilter {
	return periodAggregator(func(y int) bool { return y < year })
}

// AdmittedAfterAggregator keeps only admissions with an admit year no earlier
// than the given year.
func AdmittedAfterAggregator(year int) admission.PatientFilter {
	return periodAggregator(func(y int) bool { return y >= year })
}
