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

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotDaysToReadmission plots a histogram of the days-until-readmission
// feature over the joined relation and saves it to file. Admissions without a
// next admission are left out. Negative values are plotted as they are; they
// are a known upstream artifact worth seeing in the histogram.
func PlotDaysToReadmission(joined []*Admission, bins int, name string) error {
	values := plotter.Values{}
	for _, a := range joined {
		if a.DaysToNext == nil {
			continue
		}
		values = append(values, *a.DaysToNext)
	}
	if len(values) == 0 {
		return fmt.Errorf("no admissions with a days-until-readmission value to plot")
	}
	p := plot.New()
	p.Title.Text = "Days until next non-elective admission"
	p.X.Label.Text = "days"
	p.Y.Label.Text = "admissions"
	hist, err := plotter.NewHist(values, bins)
	if err != nil {
		return err
	}
	p.Add(hist)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, name); err != nil {
		return err
	}
	fmt.Println("Plotted ", len(values), " days-until-readmission values to ", name)
	return nil
}
