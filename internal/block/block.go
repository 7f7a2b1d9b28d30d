package block

import (
	"fmt"
	"strconv"

	"labbook/internal/entity"
	"labbook/internal/faults"
	"labbook/internal/gemd"
	"labbook/internal/textutil"
)

const component = "block"

// Block is one notebook entry.
type Block struct {
	Name         string
	Process      *entity.Process
	Material     *entity.Material
	Ingredients  []*entity.Ingredient
	Measurements []*entity.Measurement
}

// New stores the given entities as they are. Call LinkWithin before
// encoding.
func New(name string, process *entity.Process, material *entity.Material, ingredients []*entity.Ingredient, measurements []*entity.Measurement) (*Block, error) {
	if process == nil || material == nil {
		return nil, faults.Wrap(faults.ErrConstruction, component, "new", fmt.Sprintf("block %q needs a process and a material", name), nil)
	}
	for i, ing := range ingredients {
		if ing == nil {
			return nil, faults.Wrap(faults.ErrConstruction, component, "new", fmt.Sprintf("block %q ingredient %d is nil", name, i), nil)
		}
	}
	for i, meas := range measurements {
		if meas == nil {
			return nil, faults.Wrap(faults.ErrConstruction, component, "new", fmt.Sprintf("block %q measurement %d is nil", name, i), nil)
		}
	}
	return &Block{
		Name:         name,
		Process:      process,
		Material:     material,
		Ingredients:  ingredients,
		Measurements: measurements,
	}, nil
}

// LinkWithin points every ingredient at the block process, the material at
// the block process, and every measurement at the block material. Running
// it again changes nothing.
func (b *Block) LinkWithin() {
	for _, ing := range b.Ingredients {
		ing.SetProcess(b.Process)
	}
	b.Material.SetProcess(b.Process)
	for _, meas := range b.Measurements {
		meas.SetMaterial(b.Material)
	}
}

// Validate reports the first cross reference that does not point at this
// block's own objects.
func (b *Block) Validate() error {
	ps, pr := b.Process.Spec(), b.Process.Run()
	if b.Material.Spec().Process != ps || b.Material.Run().Process != pr {
		return b.unlinked(fmt.Sprintf("material %q is not produced by the block process", b.Material.Name()))
	}
	for _, ing := range b.Ingredients {
		if ing.Spec().Process != ps || ing.Run().Process != pr {
			return b.unlinked(fmt.Sprintf("ingredient %q is not consumed by the block process", ing.Name()))
		}
		if ing.Run().Spec != ing.Spec() {
			return b.unlinked(fmt.Sprintf("ingredient %q run does not reference its spec", ing.Name()))
		}
	}
	for _, meas := range b.Measurements {
		if meas.Run().Material != b.Material.Run() {
			return b.unlinked(fmt.Sprintf("measurement %q is not taken on the block material", meas.Name()))
		}
	}
	if pr.Spec != ps || b.Material.Run().Spec != b.Material.Spec() {
		return b.unlinked("a run does not reference its spec")
	}
	return nil
}

func (b *Block) unlinked(detail string) error {
	return faults.Wrap(faults.ErrConstruction, component, "validate", fmt.Sprintf("block %q: %s", b.Name, detail), nil)
}

// Objects returns every template, spec, and run in the block, templates
// first, each object once.
func (b *Block) Objects() []gemd.Object {
	var out []gemd.Object
	seen := make(map[gemd.Object]struct{})
	add := func(present bool, obj gemd.Object) {
		if !present {
			return
		}
		if _, ok := seen[obj]; ok {
			return
		}
		seen[obj] = struct{}{}
		out = append(out, obj)
	}

	add(b.Process.Template() != nil, b.Process.Template())
	add(b.Material.Template() != nil, b.Material.Template())
	for _, meas := range b.Measurements {
		add(meas.Template() != nil, meas.Template())
	}
	add(true, b.Process.Spec())
	add(true, b.Process.Run())
	add(true, b.Material.Spec())
	add(true, b.Material.Run())
	for _, ing := range b.Ingredients {
		add(true, ing.Spec())
		add(true, ing.Run())
	}
	for _, meas := range b.Measurements {
		add(true, meas.Spec())
		add(true, meas.Run())
	}
	return out
}

// Documents validates the block and returns the thin document of every
// object keyed by a sanitised name and type, such as
// "grinding_y2o3_spec_process_spec". Nothing is written to disk.
func (b *Block) Documents() (map[string]map[string]any, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	objs := b.Objects()
	docs := make(map[string]map[string]any, len(objs))
	for _, obj := range objs {
		doc, err := gemd.Thin(obj)
		if err != nil {
			return nil, faults.Wrap(faults.ErrConstruction, component, "documents", obj.Base().Name, err)
		}
		key := textutil.SanitizeToken(obj.Base().Name + " " + obj.TypeName())
		if _, taken := docs[key]; taken {
			for n := 2; ; n++ {
				candidate := key + "_" + strconv.Itoa(n)
				if _, taken := docs[candidate]; !taken {
					key = candidate
					break
				}
			}
		}
		docs[key] = doc
	}
	return docs, nil
}
