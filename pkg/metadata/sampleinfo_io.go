package metadata

import (
	"encoding/csv"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type sampleInfoDocument struct {
	Samples []Sample `yaml:"samples"`
}

// sampleRow is one line of the sample info table: one input file of one sample.
type sampleRow struct {
	Sample    string `csv:"sample"`
	Stranded  string `csv:"stranded"`
	ReadGroup string `csv:"read_group"`
	Path      string `csv:"path"`
}

// WriteYAML writes the sample info as a YAML document.
func (si *SampleInfo) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err := enc.Encode(sampleInfoDocument{Samples: si.Samples()})
	if err != nil {
		return errors.Wrap(err, "unable to encode sample info")
	}

	return errors.Wrap(enc.Close(), "unable to encode sample info")
}

// WriteTable writes one row per input file, separated by sep.
func (si *SampleInfo) WriteTable(w io.Writer, sep rune) error {
	if sep == AutoSeparator {
		sep = DefaultSeparator
	}
	rows := []*sampleRow{}
	for _, s := range si.samples {
		for _, rg := range s.ReadGroups {
			for _, p := range rg.Paths {
				rows = append(rows, &sampleRow{Sample: s.ID, Stranded: string(s.Stranded), ReadGroup: rg.Name, Path: p})
			}
		}
	}

	cw := csv.NewWriter(w)
	cw.Comma = sep
	sw := gocsv.NewSafeCSVWriter(cw)
	err := gocsv.MarshalCSV(&rows, sw)
	if err != nil {
		return errors.Wrap(err, "unable to write sample info table")
	}
	sw.Flush()

	return errors.Wrap(sw.Error(), "unable to write sample info table")
}

// ReadSampleInfoYAML imports a document written by WriteYAML. Samples without a strandedness
// get def.
func ReadSampleInfoYAML(r io.Reader, def Strandedness) (*SampleInfo, error) {
	doc := sampleInfoDocument{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&doc)
	if errors.Is(err, io.EOF) {
		return nil, parseErrorf("empty sample info document")
	}
	if err != nil {
		return nil, parseErrorf("sample info document: %s", err)
	}

	si := NewSampleInfo()
	for i, s := range doc.Samples {
		if s.ID == "" {
			return nil, parseErrorf("sample %d: missing sample id", i+1)
		}
		if _, ok := si.index[s.ID]; ok {
			return nil, parseErrorf("sample %q listed twice", s.ID)
		}
		stranded, err := strandednessOrDefault(string(s.Stranded), def)
		if err != nil {
			return nil, errors.Wrapf(err, "sample %q", s.ID)
		}
		for _, rg := range s.ReadGroups {
			name := rg.Name
			if name == "" {
				name = DefaultReadGroup
			}
			for _, p := range rg.Paths {
				if p == "" {
					return nil, parseErrorf("sample %q: empty path", s.ID)
				}
				si.addPath(s.ID, name, p, stranded)
			}
		}
		if _, ok := si.index[s.ID]; !ok {
			return nil, parseErrorf("sample %q: missing path", s.ID)
		}
	}

	return si, nil
}

// ReadSampleInfoTable imports a table written by WriteTable. Rows of the same sample are merged
// in order of appearance.
func ReadSampleInfoTable(r io.Reader, sep rune, def Strandedness) (*SampleInfo, error) {
	r, sep, err := resolveSeparator(r, sep)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(r)
	cr.Comma = sep

	rows := []*sampleRow{}
	err = gocsv.UnmarshalCSV(cr, &rows)
	if err != nil {
		return nil, parseErrorf("sample info table: %s", err)
	}

	si := NewSampleInfo()
	for i, row := range rows {
		line := i + 2
		if row.Sample == "" {
			return nil, parseErrorf("line %d: missing sample id", line)
		}
		if row.Path == "" {
			return nil, parseErrorf("line %d: missing path for sample %q", line, row.Sample)
		}
		stranded, err := strandednessOrDefault(row.Stranded, def)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if s, ok := si.index[row.Sample]; ok && s.Stranded != stranded {
			return nil, parseErrorf("line %d: sample %q is both %s and %s", line, row.Sample, s.Stranded, stranded)
		}
		group := row.ReadGroup
		if group == "" {
			group = DefaultReadGroup
		}
		si.addPath(row.Sample, group, row.Path, stranded)
	}
	if si.Len() == 0 {
		return nil, parseErrorf("sample info table has no rows")
	}

	return si, nil
}

func strandednessOrDefault(s string, def Strandedness) (Strandedness, error) {
	if s == "" {
		s = string(def)
	}
	if s == "" {
		return Unstranded, nil
	}

	return ParseStrandedness(s)
}
