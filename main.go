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

package main

import (
	"bytes"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"readmit/admission"
	"readmit/app"
	"readmit/utils"
)

/*
Readmit is a tool for preparing hospital extracts for readmission prediction.

Usage:
	readmit admissionsFile notesFile outputPath [flags]

Example:
	readmit ADMISSIONS.csv NOTEEVENTS.csv ./prep/ --name prep1 --excludeNewborn
	--histogram --bins 50 --sample 5 --pfilters multi

The flags are:

--noteCategory string
	The note category to keep as the text source. Only one note of this
	category is retained per admission; when an admission has multiple, the
	one that comes last in the original file order wins. Defaults to
	"Discharge summary".
--excludeNewborn
	Exclude newborn admissions before computing the missing-text diagnostics.
	Newborn encounters structurally lack discharge summaries and would
	inflate the missing rate. The joined output file is never affected.
--histogram
	Plot a histogram of the days-until-readmission feature to a png file next
	to the joined output.
--bins nr
	The number of bins for the histogram.
--sample nr
	Print nr randomly selected joined records to standard output for manual
	inspection of note formatting.
--name string
	Sets the name of the run. This name is used to generate names for output
	files.
--pfilters id | multi | alive | deceased | beforeYYYY | afterYYYY
	A list of filters for selecting patients before labeling. multi keeps
	only patients with at least two admissions; beforeYYYY and afterYYYY
	restrict the admit years considered.
--nrOfThreads nr
	The number of threads readmit uses.
*/

const (
	programVersion = 0.1
	programName    = "readmit"
)

func programMessage() string {
	return fmt.Sprint(programName, " version ", programVersion, " compiled with ", runtime.Version())
}

const readmitHelp = "\nreadmit parameters:\n" +
	"readmit admissionsFile notesFile outputPath \n" +
	"[--noteCategory string]\n" +
	"[--excludeNewborn]\n" +
	"[--histogram]\n" +
	"[--bins nr]\n" +
	"[--sample nr]\n" +
	"[--name string]\n" +
	"[--pfilters id | multi | alive | deceased | beforeYYYY | afterYYYY]\n" +
	"[--nrOfThreads nr]\n"

func parseFlags(flags flag.FlagSet, requiredArgs int, help string) {
	if len(os.Args) < requiredArgs {
		fmt.Fprintln(os.Stderr, "Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
	flags.SetOutput(ioutil.Discard)
	if err := flags.Parse(os.Args[requiredArgs:]); err != nil {
		x := 0
		if err != flag.ErrHelp {
			fmt.Fprint(os.Stderr, err)
		}
		fmt.Fprint(os.Stderr, help)
		os.Exit(x)
	}
	if flags.NArg() > 0 {
		fmt.Fprint(os.Stderr, "Cannot parse remaining parameters:", flags.Args())
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
}

func getFileName(s, help string) string {
	switch s {
	case "-h", "--h", "-help", "--help":
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
	return s
}

func getPatientFilter(s string) admission.PatientFilter {
	id := func(p *admission.Patient) bool { return true }
	switch {
	case s == "id":
		return id
	case s == "multi":
		return admission.MultipleAdmissionsFilter()
	case s == "alive":
		return admission.AliveFilter()
	case s == "deceased":
		return admission.DeceasedFilter()
	case strings.HasPrefix(s, "before"):
		if year, err := strconv.Atoi(strings.TrimPrefix(s, "before")); err == nil {
			return app.AdmittedBeforeAggregator(year)
		}
		return id
	case strings.HasPrefix(s, "after"):
		if year, err := strconv.Atoi(strings.TrimPrefix(s, "after")); err == nil {
			return app.AdmittedAfterAggregator(year)
		}
		return id
	default:
		return id
	}
}

func getPatientFilters(f string) []admission.PatientFilter {
	fs := strings.Split(f, ",")
	result := []admission.PatientFilter{}
	for _, f := range fs {
		result = append(result, getPatientFilter(f))
	}
	return result
}

func main() {
	var (
		// required parameters
		admissionsFile string //The file with hospital admissions.
		notesFile      string //The file with clinical notes.
		outputPath     string //The path where output files are written.
		// optional flags
		noteCategory   string
		excludeNewborn bool
		histogram      bool
		bins           int
		sample         int
		name           string
		pfilters       string
		nrOfThreads    int
	)
	var flags flag.FlagSet
	// options for the readmit command
	flags.StringVar(&noteCategory, "noteCategory", admission.DischargeSummary, "The note category to "+
		"keep as the text source for each admission.")
	flags.BoolVar(&excludeNewborn, "excludeNewborn", false, "Exclude newborn admissions before "+
		"computing the missing-text diagnostics.")
	flags.BoolVar(&histogram, "histogram", false, "Plot a histogram of the days-until-readmission "+
		"feature.")
	flags.IntVar(&bins, "bins", 50, "The number of bins for the histogram.")
	flags.IntVar(&sample, "sample", 0, "The number of randomly selected joined records to print for "+
		"manual inspection.")
	flags.StringVar(&name, "name", "prep1", "The name of the run. This is used to generate the "+
		"names of the output files.")
	flags.StringVar(&pfilters, "pfilters", "id", "A list of pfilters to restrict preparation to "+
		"specific patients.")
	flags.IntVar(&nrOfThreads, "nrOfThreads", 0, "The number of threads readmit uses.")
	// parse optional arguments
	parseFlags(flags, 4, readmitHelp)
	// parse required arguments
	admissionsFile = getFileName(os.Args[1], readmitHelp)
	notesFile = getFileName(os.Args[2], readmitHelp)
	outputPath, _ = filepath.Abs(getFileName(os.Args[3], readmitHelp))
	outputPath = outputPath + string(filepath.Separator)
	fmt.Println("Output path: ", outputPath)
	// create output directory
	err := os.MkdirAll(filepath.Dir(outputPath), 0700)
	if err != nil {
		panic(err)
	}
	// build an output command line
	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " ", admissionsFile, " ", notesFile, " ", outputPath)
	fmt.Fprint(&command, " --noteCategory ", noteCategory)
	if excludeNewborn {
		fmt.Fprint(&command, " --excludeNewborn")
	}
	if histogram {
		fmt.Fprint(&command, " --histogram")
		fmt.Fprint(&command, " --bins ", bins)
	}
	fmt.Fprint(&command, " --sample ", sample)
	fmt.Fprint(&command, " --name ", name)
	fmt.Fprint(&command, " --pfilters ", pfilters)
	if nrOfThreads > 0 {
		runtime.GOMAXPROCS(nrOfThreads)
		fmt.Fprint(&command, " --nrOfThreads ", nrOfThreads)
	}
	// start execution
	log.Println(programMessage())
	log.Println("Executing command:\n", command.String())
	//1. Parse the admissions and notes extracts
	patients, notes := app.ParseMimicData(admissionsFile, notesFile, getPatientFilters(pfilters))
	//2. Label each admission with the next non-elective admission
	admission.LabelReadmissions(patients)
	//3. Select one note per admission
	selected := admission.SelectNotes(notes, noteCategory)
	//4. Join the notes onto the labeled admissions
	joined, err := admission.JoinNotes(patients, selected)
	if err != nil {
		log.Fatal("Join failed: ", err)
	}
	//5. Report missing-text and formatting diagnostics
	diag := admission.ComputeJoinDiagnostics(joined, excludeNewborn)
	admission.PrintJoinDiagnostics(diag)
	//6. Write the joined relation and the optional histogram
	admission.WriteJoinedAdmissions(joined, patients, filepath.Join(outputPath, name+".joined.csv"))
	if histogram {
		if err := admission.PlotDaysToReadmission(joined, bins, filepath.Join(outputPath, name+".days.png")); err != nil {
			log.Println("Histogram not plotted: ", err)
		}
	}
	//7. Print sampled records for manual inspection
	if sample > 0 {
		fmt.Println("Sampled joined records: ")
		for _, a := range admission.SampleJoined(joined, utils.MinInt(sample, len(joined))) {
			admission.PrintAdmission(a, patients)
		}
	}
}
