// Package matrix prints the model matrix of a DE design with the statistical runtime.
package matrix

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/askiada/seasnap/internal/config"
	"github.com/askiada/seasnap/internal/runner"
	"github.com/askiada/seasnap/pkg/metadata"
)

// ErrNoFormula is returned when the DE config has no experiment.design_formula.
var ErrNoFormula = errors.New("no design formula")

var termRe = regexp.MustCompile(`[^~()/:*+\s]+`)

// FormulaColumns returns the covariate columns a design formula refers to, in order of first
// use. Numeric terms such as the 0 of "~ 0 + group" are skipped.
func FormulaColumns(formula string) []string {
	res := []string{}
	seen := map[string]struct{}{}
	for _, term := range termRe.FindAllString(formula, -1) {
		if _, err := strconv.ParseFloat(term, 64); err == nil {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		res = append(res, term)
	}

	return res
}

func rVector(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
	}

	return "c(" + strings.Join(quoted, ",") + ")"
}

// Command returns the statistical runtime invocation printing model.matrix(formula) with one
// vector per formula column, filled from the covariate file.
func Command(cfg config.Config, formula string, cf *metadata.CovariateFile) ([]string, error) {
	if strings.TrimSpace(formula) == "" {
		return nil, ErrNoFormula
	}
	cmd := []string{cfg.StatsRuntime, "--vanilla"}
	for _, col := range FormulaColumns(formula) {
		values, err := cf.Values(col)
		if err != nil {
			return nil, errors.Wrap(err, "design formula")
		}
		cmd = append(cmd, "-e", fmt.Sprintf("%s <- %s", col, rVector(values)))
	}

	return append(cmd, "-e", fmt.Sprintf("model.matrix(%s)", formula)), nil
}

// Show reads the design formula from the DE config at configPath and the covariate file at
// covariatePath, echoes the command to stdout and runs it.
func Show(ctx context.Context, cfg config.Config, exe runner.Executor, configPath, covariatePath string, stdout io.Writer, logger logrus.FieldLogger) error {
	pc, err := config.LoadPipelineConfig(configPath)
	if err != nil {
		return err
	}
	if pc.Experiment.DesignFormula == "" {
		return errors.Wrapf(ErrNoFormula, "%s", configPath)
	}

	f, err := metadata.OpenFile(covariatePath)
	if err != nil {
		return err
	}
	defer f.Close()
	cf, err := metadata.ReadCovariateTable(f, metadata.DefaultSeparator)
	if err != nil {
		return errors.Wrapf(err, "unable to read %s", covariatePath)
	}

	cmd, err := Command(cfg, pc.Experiment.DesignFormula, cf)
	if err != nil {
		return err
	}
	logger.WithField("formula", pc.Experiment.DesignFormula).Debug("printing model matrix")
	fmt.Fprintln(stdout, shellquote.Join(cmd...))

	return exe.Execute(ctx, cmd[0], cmd[1:]...)
}
