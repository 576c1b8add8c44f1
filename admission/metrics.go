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
	"strings"

	"github.com/valyala/fastrand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Diagnostics over the joined relation. Missing note text is not an error;
// it is summarized here and surfaced for manual judgment.

// nofAdmissionTypes is the number of admission type constants, for counter
// vectors indexed by type.
const nofAdmissionTypes = Unknown + 1

// JoinDiagnostics summarizes the joined relation: how many admissions have a
// note, how missingness distributes over admission types, and how the note
// text is formatted.
type JoinDiagnostics struct {
	NofAdmissions   int     //nr of admissions considered
	NofWithNote     int     //nr of admissions with a note attached
	MissingRate     float64 //fraction of admissions without a note
	TypeCtr         [nofAdmissionTypes]int
	TypeMissingCtr  [nofAdmissionTypes]int
	TypeMissingTail [nofAdmissionTypes]float64 //upper tail probability of the observed missing count under the overall rate
	NewlineRate     float64                    //fraction of notes containing newlines
	CarriageRate    float64                    //fraction of notes containing carriage returns
	DeidRate        float64                    //fraction of notes containing de-identification brackets
}

// ComputeJoinDiagnostics computes the missing-text and formatting statistics
// for a joined relation. When excludeNewborn is set, newborn admissions are
// left out before computing the statistics, since newborn encounters
// structurally lack discharge summaries and would inflate the missing rate.
// The per-type tail probabilities come from a binomial with the overall
// missing rate; a probability near 0 flags a type that misses notes far more
// often than the population does.
func ComputeJoinDiagnostics(joined []*Admission, excludeNewborn bool) *JoinDiagnostics {
	diag := &JoinDiagnostics{}
	withNewlines := 0
	withCarriage := 0
	withDeid := 0
	for _, a := range joined {
		if excludeNewborn && a.Type == Newborn {
			continue
		}
		diag.NofAdmissions++
		diag.TypeCtr[a.Type]++
		if a.Note == nil {
			diag.TypeMissingCtr[a.Type]++
			continue
		}
		diag.NofWithNote++
		if strings.Contains(a.Note.Text, "\n") {
			withNewlines++
		}
		if strings.Contains(a.Note.Text, "\r") {
			withCarriage++
		}
		if strings.Contains(a.Note.Text, "[**") {
			withDeid++
		}
	}
	if diag.NofAdmissions == 0 {
		return diag
	}
	diag.MissingRate = float64(diag.NofAdmissions-diag.NofWithNote) / float64(diag.NofAdmissions)
	for t := 0; t < nofAdmissionTypes; t++ {
		if diag.TypeCtr[t] == 0 {
			diag.TypeMissingTail[t] = 1.0
			continue
		}
		if diag.TypeMissingCtr[t] == 0 {
			diag.TypeMissingTail[t] = 1.0
			continue
		}
		b := distuv.Binomial{N: float64(diag.TypeCtr[t]), P: diag.MissingRate}
		diag.TypeMissingTail[t] = b.Survival(float64(diag.TypeMissingCtr[t]) - 0.5)
	}
	if diag.NofWithNote > 0 {
		diag.NewlineRate = float64(withNewlines) / float64(diag.NofWithNote)
		diag.CarriageRate = float64(withCarriage) / float64(diag.NofWithNote)
		diag.DeidRate = float64(withDeid) / float64(diag.NofWithNote)
	}
	return diag
}

// PrintJoinDiagnostics prints a diagnostics summary to standard output.
func PrintJoinDiagnostics(diag *JoinDiagnostics) {
	fmt.Println("Join diagnostics: ")
	fmt.Println("Admissions: ", diag.NofAdmissions, " with note: ", diag.NofWithNote, " missing rate: ", diag.MissingRate)
	for t := 0; t < nofAdmissionTypes; t++ {
		if diag.TypeCtr[t] == 0 {
			continue
		}
		fmt.Println(AdmissionTypeString(t), ": ", diag.TypeCtr[t], " admissions, ", diag.TypeMissingCtr[t],
			" without note, tail probability: ", diag.TypeMissingTail[t])
	}
	fmt.Println("Notes with newlines: ", diag.NewlineRate, " with carriage returns: ", diag.CarriageRate,
		" with de-identification brackets: ", diag.DeidRate)
}

// SampleJoined randomly selects up to n records from the joined relation for
// manual inspection. Selection is without replacement and does not shuffle
// the input.
func SampleJoined(joined []*Admission, n int) []*Admission {
	if n >= len(joined) {
		return joined
	}
	picked := map[uint32]bool{}
	sample := []*Admission{}
	for len(sample) < n {
		i := fastrand.Uint32n(uint32(len(joined)))
		if picked[i] {
			continue
		}
		picked[i] = true
		sample = append(sample, joined[i])
	}
	return sample
}
