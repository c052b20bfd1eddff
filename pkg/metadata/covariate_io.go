package metadata

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
)

// WriteTable writes the covariate file as a delimited table with a header line.
func (cf *CovariateFile) WriteTable(w io.Writer, sep rune) error {
	if sep == AutoSeparator {
		sep = DefaultSeparator
	}
	cw := csv.NewWriter(w)
	cw.Comma = sep

	err := cw.Write(cf.Columns())
	if err != nil {
		return errors.Wrap(err, "unable to write covariate header")
	}
	for _, r := range cf.rows {
		err = cw.Write(r.values())
		if err != nil {
			return errors.Wrapf(err, "unable to write covariate row %s", r.Label)
		}
	}
	cw.Flush()

	return errors.Wrap(cw.Error(), "unable to write covariate file")
}

// ReadCovariateTable reads a covariate file written by WriteTable.
func ReadCovariateTable(r io.Reader, sep rune) (*CovariateFile, error) {
	r, sep, err := resolveSeparator(r, sep)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(r)
	cr.Comma = sep

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, parseErrorf("empty covariate file")
	}
	if err != nil {
		return nil, parseErrorf("covariate header: %s", err)
	}
	mandatory := MandatoryColumns()
	if len(header) < len(mandatory) {
		return nil, parseErrorf("covariate header has %d columns, expected at least %d", len(header), len(mandatory))
	}
	for i, c := range mandatory {
		if header[i] != c {
			return nil, parseErrorf("covariate column %d is %q, expected %q", i+1, header[i], c)
		}
	}

	cf := &CovariateFile{}
	for _, c := range header[len(mandatory):] {
		if c == "" || isMandatory(c) {
			return nil, parseErrorf("invalid covariate column %q", c)
		}
		for _, prev := range cf.extra {
			if prev == c {
				return nil, parseErrorf("covariate column %q listed twice", c)
			}
		}
		cf.extra = append(cf.extra, c)
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseErrorf("covariate row: %s", err)
		}
		row := CovariateRow{
			MD5:       record[0],
			Filename:  record[1],
			Label:     record[2],
			Sample:    record[3],
			Replicate: record[4],
		}
		if row.Sample == "" || row.Filename == "" {
			return nil, parseErrorf("covariate row %d: missing sample or filename", len(cf.rows)+1)
		}
		if len(record) > len(mandatory) {
			row.Extra = append([]string(nil), record[len(mandatory):]...)
		}
		cf.rows = append(cf.rows, row)
	}

	return cf, nil
}
