package metadata

import (
	"sort"
	"strings"
)

// Column is a user defined grouping column: one label per sample.
type Column struct {
	Name   string
	Labels map[string]string
}

type columnItem struct {
	key    string
	values []string
}

// ParseColumnArg splits the command line form of a column, "NAME:item item ..." or
// "NAME item item ...", into the column name and its items.
func ParseColumnArg(arg string) (string, []string, error) {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return "", nil, parseErrorf("empty column specification")
	}
	name, first, hasItem := strings.Cut(fields[0], ":")
	if name == "" {
		return "", nil, parseErrorf("column specification %q has no name", arg)
	}
	items := []string{}
	if hasItem {
		items = append(items, first)
	}
	items = append(items, fields[1:]...)

	return name, items, nil
}

func parseColumnItem(name, item string) (columnItem, error) {
	key, rest, ok := strings.Cut(item, ":")
	if !ok || key == "" || strings.Contains(rest, ":") {
		return columnItem{}, parseErrorf("column %q: item %q must look like key:value", name, item)
	}
	values := []string{}
	for _, v := range strings.Split(rest, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return columnItem{}, parseErrorf("column %q: item %q has no value", name, item)
	}

	return columnItem{key: key, values: values}, nil
}

// ParseColumnSpec normalises a column given either as sample:label pairs
// ("gr1:lvl1 gr2:lvl1 gr3:lvl2") or as label:samples groupings ("lvl1:gr1,gr2 lvl2:gr3")
// into one label per sample. Pairs are assumed when every item maps a single value and every
// key is a known sample.
//
// An unknown sample is a parse error; a sample labelled twice or not at all is a contract
// violation.
func ParseColumnSpec(name string, items []string, samples []string) (Column, error) {
	if name == "" {
		return Column{}, parseErrorf("column without name")
	}
	known := make(map[string]struct{}, len(samples))
	for _, s := range samples {
		known[s] = struct{}{}
	}

	parsed := make([]columnItem, 0, len(items))
	pairs, knownKeys := true, 0
	for _, item := range items {
		ci, err := parseColumnItem(name, item)
		if err != nil {
			return Column{}, err
		}
		if len(ci.values) != 1 {
			pairs = false
		}
		if _, ok := known[ci.key]; ok {
			knownKeys++
		}
		parsed = append(parsed, ci)
	}
	pairs = pairs && len(parsed) > 0 && knownKeys == len(parsed)

	col := Column{Name: name, Labels: make(map[string]string, len(samples))}
	assign := func(sample, label string) error {
		if _, ok := known[sample]; !ok {
			return parseErrorf("column %q: unknown sample %q", name, sample)
		}
		if prev, ok := col.Labels[sample]; ok {
			return contractErrorf("column %q: sample %q labelled both %q and %q", name, sample, prev, label)
		}
		col.Labels[sample] = label

		return nil
	}

	for _, ci := range parsed {
		if pairs {
			err := assign(ci.key, ci.values[0])
			if err != nil {
				return Column{}, err
			}

			continue
		}
		for _, sample := range ci.values {
			err := assign(sample, ci.key)
			if err != nil {
				return Column{}, err
			}
		}
	}

	err := col.checkCoverage(samples)
	if err != nil {
		return Column{}, err
	}

	return col, nil
}

// checkCoverage verifies the column labels exactly the given samples.
func (c Column) checkCoverage(samples []string) error {
	known := make(map[string]struct{}, len(samples))
	missing := []string{}
	for _, s := range samples {
		known[s] = struct{}{}
		if label, ok := c.Labels[s]; !ok || label == "" {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		return contractErrorf("column %q: no label for sample(s) %s", c.Name, strings.Join(missing, ", "))
	}

	unknown := []string{}
	for s := range c.Labels {
		if _, ok := known[s]; !ok {
			unknown = append(unknown, s)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)

		return parseErrorf("column %q: unknown sample(s) %s", c.Name, strings.Join(unknown, ", "))
	}

	return nil
}
