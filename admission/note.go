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
	"time"
)

// DischargeSummary is the note category used as the text source for
// readmission prediction.
const DischargeSummary = "Discharge summary"

// Note represents a clinical note from the notes extract.
type Note struct {
	PIDString string     //patient ID from the input
	HadmID    string     //admission ID from the input
	Row       int        //original row order in the input, breaks selection ties
	Category  string     //note category, e.g. "Discharge summary"
	ChartDate *time.Time //date the note was charted, nil when unparseable
	Text      string     //free text body
}

// NoteMap holds the selected notes, at most one per admission ID.
type NoteMap struct {
	Notes map[string]*Note //maps admission ID onto the selected note
	// info for logging
	Total      int //nr of notes in the requested category
	Duplicates int //nr of notes discarded because their admission already had one
}

// SelectNotes filters the notes down to the requested category and collapses
// them to at most one note per admission ID. Multiple notes in the category
// for the same admission are a data-quality condition that occurs in real
// extracts; the note that comes last in the original file order wins. The
// result is unique per admission ID by construction.
func SelectNotes(notes []*Note, category string) *NoteMap {
	selected := map[string]*Note{}
	total := 0
	duplicates := 0
	for _, n := range notes {
		if !strings.EqualFold(strings.TrimSpace(n.Category), category) {
			continue
		}
		total++
		prev, ok := selected[n.HadmID]
		if !ok {
			selected[n.HadmID] = n
			continue
		}
		duplicates++
		if n.Row > prev.Row {
			selected[n.HadmID] = n
		}
	}
	fmt.Println("Selected ", len(selected), " notes of category ", category, " out of ", total, " candidates ")
	fmt.Println("of which ", duplicates, " discarded as duplicates for their admission.")
	return &NoteMap{Notes: selected, Total: total, Duplicates: duplicates}
}
