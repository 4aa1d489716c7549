package mathmodel

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/stafkit/bayesumis/umis"
)

// Prior is the distribution placed over one latent variable, in the
// shape a sampling engine consumes. Exactly one parameterization is
// populated: Params for scalar families, Concentration (with its
// Categories ordering) for Dirichlet vectors.
type Prior struct {
	// Dist is the family tag: "uniform", "normal", "lognormal",
	// "dirichlet" or "deterministic".
	Dist string `yaml:"dist"`

	// Params holds the scalar parameters, keyed by conventional name
	// ("lower"/"upper", "mu"/"sigma", "value").
	Params map[string]float64 `yaml:"params,omitempty"`

	// Concentration is the Dirichlet concentration vector, aligned with
	// Categories.
	Concentration []float64 `yaml:"concentration,omitempty"`

	// Categories names the outflow destination behind each concentration
	// entry.
	Categories []string `yaml:"categories,omitempty"`
}

// Variable is one latent quantity of the model: a flow magnitude, a
// storage leg, or a transfer-coefficient vector.
type Variable struct {
	Name  string `yaml:"name"`
	Prior Prior  `yaml:"prior"`
}

// Observation ties a measured magnitude to its variable and to the cell
// of the process grid it was observed in.
type Observation struct {
	// Variable names the latent the measurement informs.
	Variable string `yaml:"variable"`

	// Dist is the error family: "normal" or "lognormal".
	Dist string `yaml:"dist"`

	Mean   float64 `yaml:"mean"`
	Stddev float64 `yaml:"stddev"`

	// Row and Col are the origin and destination process indices.
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// Constraint is the mass balance of one process: the named inflow
// variables must sum to the named outflow variables.
type Constraint struct {
	Process  string   `yaml:"process"`
	Inflows  []string `yaml:"inflows"`
	Outflows []string `yaml:"outflows"`
}

// Model is the compiled probabilistic model. It is immutable: accessors
// return copies, and nothing mutates it after Build returns, so one
// Model may feed any number of concurrent sampler chains.
type Model struct {
	refMaterial  umis.Material
	refTimeframe umis.Timeframe

	variables    []Variable
	observations []Observation
	constraints  []Constraint
}

// ReferenceMaterial returns the material every magnitude is expressed in.
func (m *Model) ReferenceMaterial() umis.Material { return m.refMaterial }

// ReferenceTimeframe returns the timeframe the model describes.
func (m *Model) ReferenceTimeframe() umis.Timeframe { return m.refTimeframe }

// Variables returns the latent variables, sorted by name.
func (m *Model) Variables() []Variable {
	out := make([]Variable, len(m.variables))
	copy(out, m.variables)

	return out
}

// Variable looks up one latent by name.
func (m *Model) Variable(name string) (Variable, bool) {
	for _, v := range m.variables {
		if v.Name == name {
			return v, true
		}
	}

	return Variable{}, false
}

// Observations returns the measurement entries in emission order.
func (m *Model) Observations() []Observation {
	out := make([]Observation, len(m.observations))
	copy(out, m.observations)

	return out
}

// Constraints returns one mass-balance constraint per balanced process,
// sorted by process id.
func (m *Model) Constraints() []Constraint {
	out := make([]Constraint, len(m.constraints))
	copy(out, m.constraints)

	return out
}

// document is the YAML shape of a compiled model.
type document struct {
	ReferenceMaterial  string        `yaml:"reference_material"`
	ReferenceTimeframe [2]int        `yaml:"reference_timeframe"`
	Variables          []Variable    `yaml:"variables"`
	Observations       []Observation `yaml:"observations,omitempty"`
	Constraints        []Constraint  `yaml:"constraints"`
}

// MarshalYAML renders the model as a plain document.
func (m *Model) MarshalYAML() (interface{}, error) {
	return document{
		ReferenceMaterial:  m.refMaterial.ID,
		ReferenceTimeframe: m.refTimeframe.Bounds(),
		Variables:          m.Variables(),
		Observations:       m.Observations(),
		Constraints:        m.Constraints(),
	}, nil
}

// WriteYAML streams the model to w in the engine handoff format.
func (m *Model) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("mathmodel: encode model: %w", err)
	}

	return enc.Close()
}
