package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/seasnap/internal/store"
	"github.com/askiada/seasnap/pkg/pipeline/measure"
)

// DOTDrawer renders the pipeline graph in the Graphviz DOT language.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	store    store.AttributeStore[string, string]
	fileName string
}

// NewDOTDrawer creates a drawer writing to fileName when Draw is called.
func NewDOTDrawer(fileName string) *DOTDrawer {
	s := store.NewMemoryStore[string, string]()

	return &DOTDrawer{
		fileName: fileName,
		store:    s,
		graph:    graph.NewWithStore(graph.StringHash, graph.Store[string, string](s), graph.Directed(), graph.PreventCycles()),
	}
}

// AddStep adds a step to the pipeline graph.
func (d *DOTDrawer) AddStep(name string) error {
	err := d.graph.AddVertex(name)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds a link between parent and children steps.
func (d *DOTDrawer) AddLink(parentName, childrenName string) error {
	err := d.graph.AddEdge(parentName, childrenName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childrenName)
	}

	return nil
}

// Draw writes the DOT file.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}
	defer file.Close()

	err = d.Render(file)
	if err != nil {
		return errors.Wrapf(err, "unable to write dot file %s", d.fileName)
	}

	return file.Close()
}

// Render writes the DOT description of the graph to wrt.
func (d *DOTDrawer) Render(wrt io.Writer) error {
	return dot(d.graph, wrt)
}

// SetTotalTime sets the total time for the step.
func (d *DOTDrawer) SetTotalTime(stepName string, startTime time.Time) error {
	err := d.store.SetVertexAttribute(stepName, "xlabel", round(time.Since(startTime)).String())
	if err != nil {
		return errors.Wrapf(err, "unable to set %s total time", stepName)
	}

	return nil
}

const maxRGB = 240

// AddMeasure labels steps with their average duration and colours every edge from blue (fast)
// to red (slow) by average transport time.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	allChanElapsed := make(map[time.Duration]string)
	sortedAllChanElapsed := []time.Duration{}

	for _, step := range msr.AllMetrics() {
		for _, info := range step.AVGTransportDuration() {
			if info.Elapsed == 0 {
				continue
			}
			if _, ok := allChanElapsed[info.Elapsed]; ok {
				continue
			}
			allChanElapsed[info.Elapsed] = ""
			sortedAllChanElapsed = append(sortedAllChanElapsed, info.Elapsed)
		}
	}

	if len(sortedAllChanElapsed) > 0 {
		sort.Slice(sortedAllChanElapsed, func(i, j int) bool {
			return sortedAllChanElapsed[i] > sortedAllChanElapsed[j]
		})

		maxValue := sortedAllChanElapsed[0]
		minValue := sortedAllChanElapsed[len(sortedAllChanElapsed)-1]

		for curr := range allChanElapsed {
			fraction := 1.0
			if maxValue > minValue {
				fraction = float64(curr-minValue) / float64(maxValue-minValue)
			}

			red := maxRGB * fraction
			blue := -maxRGB*fraction + maxRGB

			edgeColor, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
			if err != nil {
				return errors.Wrap(err, "unable to get colour")
			}

			allChanElapsed[curr] = edgeColor.ToHEX().String()
		}
	}

	err := d.updateMetrics(msr, allChanElapsed)
	if err != nil {
		return errors.Wrap(err, "unable to update metrics")
	}

	return nil
}

func (d *DOTDrawer) updateMetrics(msr measure.Measure, allChanElapsed map[time.Duration]string) error {
	for name, step := range msr.AllMetrics() {
		label, _ := d.store.VertexAttribute(name, "xlabel")
		if stepAvg := step.AVGDuration(); stepAvg != 0 {
			label = stepAvg.String()
		}
		if step.GetTotalDuration() > 0 {
			label += ", end: " + round(step.GetTotalDuration()).String()
		}
		if label != "" {
			err := d.store.SetVertexAttribute(name, "xlabel", label)
			if err != nil {
				return errors.Wrap(err, "unable to set step label")
			}
		}

		for inputStep, info := range step.AVGTransportDuration() {
			if info.Elapsed == 0 {
				continue
			}

			err := d.graph.UpdateEdge(inputStep, name,
				graph.EdgeAttribute("label", info.Elapsed.String()),
				graph.EdgeAttribute("fontcolor", "blue"),
				graph.EdgeAttribute("color", allChanElapsed[info.Elapsed]), //nolint
			)
			if err != nil {
				return errors.Wrapf(err, "unable to update edge %s -> %s", inputStep, name)
			}
		}
	}

	return nil
}

func round(d time.Duration) time.Duration {
	if d > time.Millisecond {
		return d.Round(time.Millisecond)
	}

	return d.Round(time.Microsecond)
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
{{range $k, $v := .Attributes}}	{{$k}}="{{$v}}";
{{end}}{{range $s := .Statements}}	"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}}{{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.SourceWeight}} ]{{end}};
{{end}}}
`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot(g graph.Graph[string, string], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

// GraphAttribute is a functional option for the DOT rendering.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

// generateDOT lists vertices and their edges sorted by name so the output is stable.
func generateDOT(gra graph.Graph[string, string], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	vertices := make([]string, 0, len(adjacencyMap))
	for vertex := range adjacencyMap {
		vertices = append(vertices, vertex)
	}
	sort.Strings(vertices)

	for _, vertex := range vertices {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)
		sourceAttributes := make(map[string]string, len(sourceProperties.Attributes))
		for k, v := range sourceProperties.Attributes {
			if k == "xlabel" {
				htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, v)

				continue
			}
			sourceAttributes[k] = v
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceAttributes,
			HTMLAttributes:   htmlAttributes,
		})

		targets := make([]string, 0, len(adjacencyMap[vertex]))
		for target := range adjacencyMap[vertex] {
			targets = append(targets, target)
		}
		sort.Strings(targets)

		for _, target := range targets {
			edge := adjacencyMap[vertex][target]
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         target,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
