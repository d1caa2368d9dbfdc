package source

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/pmsched/core/model"
	"github.com/kilianp07/pmsched/core/network"
)

// predecessorCell accepts either a comma-separated string or a YAML list.
type predecessorCell struct {
	raw  string
	list []string
	set  bool
}

func (p *predecessorCell) UnmarshalYAML(n *yaml.Node) error {
	p.set = true
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Decode(&p.raw)
	case yaml.SequenceNode:
		return n.Decode(&p.list)
	default:
		return fmt.Errorf("line %d: predecessors must be a string or a list", n.Line)
	}
}

func (p predecessorCell) resolve(sentinel string) []string {
	if p.list != nil {
		var out []string
		for _, id := range p.list {
			out = append(out, network.ParsePredecessors(id, sentinel)...)
		}
		return out
	}
	return network.ParsePredecessors(p.raw, sentinel)
}

type yamlActivity struct {
	model.Activity `yaml:",inline"`
	Predecessors   predecessorCell `yaml:"predecessors"`
}

type yamlProject struct {
	Name       string         `yaml:"name"`
	Activities []yamlActivity `yaml:"activities"`
}

// ReadProjectYAML parses a project file. Every activity may carry its
// predecessors inline; activities without the key get no dependency row.
func ReadProjectYAML(r io.Reader, sentinel string) (*Project, error) {
	var doc yamlProject
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, err
	}
	p := &Project{Name: doc.Name}
	for _, a := range doc.Activities {
		p.Activities = append(p.Activities, a.Activity)
		if a.Predecessors.set {
			p.Dependencies = append(p.Dependencies, network.Dependency{
				Activity:     a.ID,
				Predecessors: a.Predecessors.resolve(sentinel),
			})
		}
	}
	return p, nil
}
