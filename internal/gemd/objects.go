package gemd

// SampleType classifies a material run.
type SampleType string

const (
	SampleExperimental SampleType = "experimental"
	SampleVirtual      SampleType = "virtual"
	SampleProduction   SampleType = "production"
	SampleUnknown      SampleType = "unknown"
)

// Valid reports whether s is a known sample type.
func (s SampleType) Valid() bool {
	switch s {
	case SampleExperimental, SampleVirtual, SampleProduction, SampleUnknown:
		return true
	}
	return false
}

// FileLink points at an externally stored file. It is never dereferenced.
type FileLink struct {
	URL      string
	Filename string
}

// PerformedSource records who performed a run and when.
type PerformedSource struct {
	PerformedBy   string
	PerformedDate string
}

// ProcessSpec is the nominal description of a process.
type ProcessSpec struct {
	Common
	Template   *ObjectTemplate
	Parameters []Attribute
	Conditions []Attribute
}

// NewProcessSpec constructs an empty process spec with a fresh UID.
func NewProcessSpec(name string, tmpl *ObjectTemplate) *ProcessSpec {
	return &ProcessSpec{Common: newCommon(name), Template: tmpl}
}

func (s *ProcessSpec) TypeName() string { return "process_spec" }

// ProcessRun is a performed process.
type ProcessRun struct {
	Common
	Spec       *ProcessSpec
	Parameters []Attribute
	Conditions []Attribute
	Source     *PerformedSource
}

// NewProcessRun constructs an empty run bound to spec.
func NewProcessRun(name string, spec *ProcessSpec) *ProcessRun {
	return &ProcessRun{Common: newCommon(name), Spec: spec}
}

func (r *ProcessRun) TypeName() string { return "process_run" }

// MaterialSpec is the nominal description of a material produced by a
// process.
type MaterialSpec struct {
	Common
	Template   *ObjectTemplate
	Process    *ProcessSpec
	Properties []PropertyAndConditions
}

// NewMaterialSpec constructs an empty material spec with a fresh UID.
func NewMaterialSpec(name string, tmpl *ObjectTemplate, process *ProcessSpec) *MaterialSpec {
	return &MaterialSpec{Common: newCommon(name), Template: tmpl, Process: process}
}

func (s *MaterialSpec) TypeName() string { return "material_spec" }

// MaterialRun is a produced material sample.
type MaterialRun struct {
	Common
	Spec       *MaterialSpec
	Process    *ProcessRun
	SampleType SampleType
}

// NewMaterialRun constructs a run bound to spec with an unknown sample type.
func NewMaterialRun(name string, spec *MaterialSpec, process *ProcessRun) *MaterialRun {
	return &MaterialRun{Common: newCommon(name), Spec: spec, Process: process, SampleType: SampleUnknown}
}

func (r *MaterialRun) TypeName() string { return "material_run" }

// IngredientSpec declares that a process consumes a material in a nominal
// quantity.
type IngredientSpec struct {
	Common
	Material         *MaterialSpec
	Process          *ProcessSpec
	AbsoluteQuantity Value
	Labels           []string
}

// NewIngredientSpec constructs an ingredient spec with a fresh UID.
func NewIngredientSpec(name string, material *MaterialSpec, process *ProcessSpec, quantity Value) *IngredientSpec {
	return &IngredientSpec{Common: newCommon(name), Material: material, Process: process, AbsoluteQuantity: quantity}
}

func (s *IngredientSpec) TypeName() string { return "ingredient_spec" }

// IngredientRun records the quantity actually consumed.
type IngredientRun struct {
	Common
	Spec             *IngredientSpec
	Material         *MaterialRun
	Process          *ProcessRun
	AbsoluteQuantity Value
}

// NewIngredientRun constructs an ingredient run bound to spec.
func NewIngredientRun(name string, spec *IngredientSpec) *IngredientRun {
	return &IngredientRun{Common: newCommon(name), Spec: spec}
}

func (r *IngredientRun) TypeName() string { return "ingredient_run" }

// MeasurementSpec is the nominal description of a measurement.
type MeasurementSpec struct {
	Common
	Template   *ObjectTemplate
	Parameters []Attribute
	Conditions []Attribute
	FileLinks  []FileLink
}

// NewMeasurementSpec constructs an empty measurement spec with a fresh UID.
func NewMeasurementSpec(name string, tmpl *ObjectTemplate) *MeasurementSpec {
	return &MeasurementSpec{Common: newCommon(name), Template: tmpl}
}

func (s *MeasurementSpec) TypeName() string { return "measurement_spec" }

// MeasurementRun is a measurement taken on a material run.
type MeasurementRun struct {
	Common
	Spec       *MeasurementSpec
	Material   *MaterialRun
	Parameters []Attribute
	Conditions []Attribute
	Properties []Attribute
	FileLinks  []FileLink
	Source     *PerformedSource
}

// NewMeasurementRun constructs an empty run bound to spec.
func NewMeasurementRun(name string, spec *MeasurementSpec) *MeasurementRun {
	return &MeasurementRun{Common: newCommon(name), Spec: spec}
}

func (r *MeasurementRun) TypeName() string { return "measurement_run" }
