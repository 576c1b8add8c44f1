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

package admission_test

import (
	"path/filepath"
	"testing"

	"readmit/admission"
)

func makeNoteMap(notes ...*admission.Note) *admission.NoteMap {
	nMap := &admission.NoteMap{Notes: map[string]*admission.Note{}}
	for _, n := range notes {
		nMap.Notes[n.HadmID] = n
		nMap.Total++
	}
	return nMap
}

func TestJoinPreservesRowCount(t *testing.T) {
	a1 := makeAdmission(1, 1, admission.Emergency, date(2010, 1, 1), date(2010, 1, 5))
	a2 := makeAdmission(1, 2, admission.Urgent, date(2010, 2, 1), date(2010, 2, 5))
	b1 := makeAdmission(2, 3, admission.Newborn, date(2010, 3, 1), date(2010, 3, 5))
	p1 := &admission.Patient{PID: 1, PIDString: "p1", Admissions: []*admission.Admission{a1, a2}}
	p2 := &admission.Patient{PID: 2, PIDString: "p2", Admissions: []*admission.Admission{b1}}
	pMap := makePatientMap(p1, p2)
	notes := makeNoteMap(
		&admission.Note{PIDString: "p1", HadmID: a1.HadmID, Category: "Discharge summary", Text: "note a1"},
	)
	joined, err := admission.JoinNotes(pMap, notes)
	if err != nil {
		t.Fatal("join failed: ", err)
	}
	if len(joined) != 3 {
		t.Fatal("join must preserve the admissions row count, got ", len(joined), " rows for 3 admissions")
	}
	if a1.Note == nil || a1.Note.Text != "note a1" {
		t.Error("admission a1 should have its note attached")
	}
	if a2.Note != nil || b1.Note != nil {
		t.Error("admissions without a note must stay without one")
	}
}

func TestJoinRejectsDuplicateAdmissionID(t *testing.T) {
	a1 := makeAdmission(1, 1, admission.Emergency, date(2010, 1, 1), date(2010, 1, 5))
	a2 := makeAdmission(1, 2, admission.Urgent, date(2010, 2, 1), date(2010, 2, 5))
	a2.HadmID = a1.HadmID // key-uniqueness violation upstream
	p := &admission.Patient{PID: 1, PIDString: "p1", Admissions: []*admission.Admission{a1, a2}}
	pMap := makePatientMap(p)
	if _, err := admission.JoinNotes(pMap, makeNoteMap()); err == nil {
		t.Error("join must fail on a duplicate admission ID")
	}
}

func TestJoinRejectsPatientMismatch(t *testing.T) {
	a1 := makeAdmission(1, 1, admission.Emergency, date(2010, 1, 1), date(2010, 1, 5))
	p := &admission.Patient{PID: 1, PIDString: "p1", Admissions: []*admission.Admission{a1}}
	pMap := makePatientMap(p)
	notes := makeNoteMap(
		&admission.Note{PIDString: "someone-else", HadmID: a1.HadmID, Category: "Discharge summary", Text: "note"},
	)
	if _, err := admission.JoinNotes(pMap, notes); err == nil {
		t.Error("join must fail when a note's patient ID disagrees with the admission")
	}
}

func TestJoinDiagnostics(t *testing.T) {
	a1 := makeAdmission(1, 1, admission.Emergency, date(2010, 1, 1), date(2010, 1, 5))
	a2 := makeAdmission(1, 2, admission.Urgent, date(2010, 2, 1), date(2010, 2, 5))
	b1 := makeAdmission(2, 3, admission.Newborn, date(2010, 3, 1), date(2010, 3, 5))
	b2 := makeAdmission(2, 4, admission.Newborn, date(2010, 4, 1), date(2010, 4, 5))
	p1 := &admission.Patient{PID: 1, PIDString: "p1", Admissions: []*admission.Admission{a1, a2}}
	p2 := &admission.Patient{PID: 2, PIDString: "p2", Admissions: []*admission.Admission{b1, b2}}
	pMap := makePatientMap(p1, p2)
	notes := makeNoteMap(
		&admission.Note{PIDString: "p1", HadmID: a1.HadmID, Category: "Discharge summary",
			Text: "line one\nline two\r\nsigned [**Doctor**]"},
		&admission.Note{PIDString: "p1", HadmID: a2.HadmID, Category: "Discharge summary",
			Text: "single line"},
	)
	joined, err := admission.JoinNotes(pMap, notes)
	if err != nil {
		t.Fatal("join failed: ", err)
	}
	diag := admission.ComputeJoinDiagnostics(joined, false)
	if diag.NofAdmissions != 4 || diag.NofWithNote != 2 {
		t.Error("expected 4 admissions with 2 notes, got ", diag.NofAdmissions, " and ", diag.NofWithNote)
	}
	if diag.MissingRate != 0.5 {
		t.Error("expected missing rate 0.5, got ", diag.MissingRate)
	}
	if diag.NewlineRate != 0.5 || diag.CarriageRate != 0.5 || diag.DeidRate != 0.5 {
		t.Error("expected formatting rates 0.5, got ", diag.NewlineRate, diag.CarriageRate, diag.DeidRate)
	}
	// newborn admissions structurally lack discharge summaries; excluding
	// them removes all missing notes here
	diag = admission.ComputeJoinDiagnostics(joined, true)
	if diag.NofAdmissions != 2 || diag.NofWithNote != 2 {
		t.Error("expected 2 admissions with 2 notes after newborn exclusion, got ",
			diag.NofAdmissions, " and ", diag.NofWithNote)
	}
	if diag.MissingRate != 0.0 {
		t.Error("expected missing rate 0 after newborn exclusion, got ", diag.MissingRate)
	}
}

func TestSampleJoined(t *testing.T) {
	joined := []*admission.Admission{}
	for i := 0; i < 50; i++ {
		joined = append(joined, makeAdmission(1, i+1, admission.Emergency, date(2010, 1, 1), date(2010, 1, 2)))
	}
	sample := admission.SampleJoined(joined, 10)
	if len(sample) != 10 {
		t.Error("expected a sample of 10 records, got ", len(sample))
	}
	seen := map[*admission.Admission]bool{}
	for _, a := range sample {
		if seen[a] {
			t.Error("sampling must be without replacement")
		}
		seen[a] = true
	}
	if len(admission.SampleJoined(joined, 100)) != 50 {
		t.Error("a sample larger than the input should return the input")
	}
}

func TestPlotDaysToReadmission(t *testing.T) {
	a1 := makeAdmission(1, 1, admission.Emergency, date(2010, 1, 1), date(2010, 1, 5))
	a2 := makeAdmission(1, 2, admission.Urgent, date(2010, 2, 1), date(2010, 2, 5))
	a3 := makeAdmission(1, 3, admission.Emergency, date(2010, 4, 1), date(2010, 4, 5))
	p := &admission.Patient{PID: 1, PIDString: "p1", Admissions: []*admission.Admission{a1, a2, a3}}
	pMap := makePatientMap(p)
	admission.LabelReadmissions(pMap)
	name := filepath.Join(t.TempDir(), "days.png")
	if err := admission.PlotDaysToReadmission([]*admission.Admission{a1, a2, a3}, 10, name); err != nil {
		t.Error("plotting failed: ", err)
	}
	if err := admission.PlotDaysToReadmission([]*admission.Admission{a3}, 10, name); err == nil {
		t.Error("plotting without any labeled admissions should fail")
	}
}
