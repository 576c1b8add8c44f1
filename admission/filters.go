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

// PatientFilter prescribes a function type for implementing filters on
// patients, to be able to prepare data for specific cohorts. E.g. patients
// with multiple admissions, patients admitted in a specific period, etc.
type PatientFilter func(patient *Patient) bool

// AdmissionFilter is a type to define a filter over individual admissions.
// Such filters take an admission as input and return a bool that determines
// if the admission passes the filter or not.
type AdmissionFilter func(a *Admission) bool

func ApplyPatientFilters(filters []PatientFilter, pMap *PatientMap) *PatientMap {
	newPMap := &PatientMap{PIDStringMap: map[string]int{}, PIDMap: map[int]*Patient{}, Ctr: pMap.Ctr}
	for pid, p := range pMap.PIDMap {
		res := true
		for _, filter := range filters {
			res = filter(p) && res
			if !res {
				break
			}
		}
		if res {
			newPMap.PIDStringMap[p.PIDString] = pid
			newPMap.PIDMap[pid] = p
			newPMap.AdmissionCtr += len(p.Admissions)
			for _, a := range p.Admissions {
				if a.DeathTime != nil {
					newPMap.DeceasedCtr++
				}
			}
		}
	}
	return newPMap
}

// MultipleAdmissionsFilter keeps only patients with at least two admissions.
func MultipleAdmissionsFilter() PatientFilter {
	return func(p *Patient) bool {
		return len(p.Admissions) >= 2
	}
}

// DeceasedFilter keeps only patients with an in-hospital death on record.
func DeceasedFilter() PatientFilter {
	return func(p *Patient) bool {
		for _, a := range p.Admissions {
			if a.DeathTime != nil {
				return true
			}
		}
		return false
	}
}

// AliveFilter removes all patients with an in-hospital death on record.
func AliveFilter() PatientFilter {
	deceased := DeceasedFilter()
	return func(p *Patient) bool {
		return !deceased(p)
	}
}

// TypeFilter keeps only admissions of the given type.
func TypeFilter(admissionType int) AdmissionFilter {
	return func(a *Admission) bool {
		return a.Type == admissionType
	}
}

// NewbornFilter removes all newborn admissions. Newborn encounters
// structurally lack discharge summaries.
func NewbornFilter() AdmissionFilter {
	return func(a *Admission) bool {
		return a.Type != Newborn
	}
}

// FilterAdmissions returns the admissions of the joined relation that pass
// all given filters.
func FilterAdmissions(admissions []*Admission, filters []AdmissionFilter) []*Admission {
	result := []*Admission{}
	for _, a := range admissions {
		keep := true
		for _, filter := range filters {
			if !filter(a) {
				keep = false
				break
			}
		}
		if keep {
			result = append(result, a)
		}
	}
	return result
}
