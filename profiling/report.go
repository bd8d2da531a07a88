package profiling

import (
	"fmt"
	"io"
)

// Header is the column header line preceding a table of rows.
const Header = "\nfunction                          #runs   sum us   avg us   min us   max us\n"

// WriteSingle writes the multi-line record for p.
func (p *Profile) WriteSingle(w io.Writer) error {
	s := p.Stats()
	_, err := fmt.Fprintf(w, "%s:\n\truns\t%d\n\tsum\t%d mus\n\tavg\t%d mus\n\tmin\t%d mus\n\tmax\t%d mus\n",
		s.Label, s.Runs, s.Sum, s.Mean, s.Min, s.Max)
	return err
}

// WriteHeader writes the table header line.
func WriteHeader(w io.Writer) error {
	_, err := io.WriteString(w, Header)
	return err
}

// WriteRow writes p as one fixed-width table row.
func (p *Profile) WriteRow(w io.Writer) error {
	return writeRow(w, p.Stats())
}

func writeRow(w io.Writer, s Stats) error {
	_, err := fmt.Fprintf(w, "%-30s %8d %8d %8d %8d %8d\n", s.Label, s.Runs, s.Sum, s.Mean, s.Min, s.Max)
	return err
}
