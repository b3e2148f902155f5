// pre_processor.go implements the WGSL shader pre-processor. It scans shader source for
// @life: annotations, replaces them with generated WGSL declarations, injected helper
// source or constants, and collects a declarations list the simulation uses to find
// which binding each of its buffers belongs at.
//
// The pre-processor maintains three registries:
//   - structRegistry: maps type and helper keys to embedded WGSL source and the WGSL type name
//     emitted in generated declarations.
//   - addressSpaceRegistry: maps address space keys to WGSL var<> syntax strings.
//   - constants: maps constant names to the u32 values emitted by @life:const.
package shader

import (
	"fmt"
	"maps"
	"strings"

	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/life"
)

// registryEntry pairs an optional WGSL source string with the WGSL type name used in
// generated @group/@binding declarations.
type registryEntry struct {
	// Source is the raw WGSL text injected by @life:include. Empty for plain types.
	Source string

	// Type is the WGSL type name emitted in @life:group declarations (e.g. "vec2f", "u32").
	Type string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string
	constants            map[string]uint32

	// declarations accumulates group and provider annotations during a Process call.
	declarations []Annotation
}

// PreProcessor processes raw WGSL shader source containing @life: annotations, replacing
// them with their WGSL output while collecting a declarations list for buffer wiring.
type PreProcessor interface {
	// Process takes raw WGSL shader source and replaces @life: annotations with their
	// corresponding WGSL output. @life:include is replaced with helper source, @life:group
	// with a @group/@binding declaration and @life:const with a const declaration.
	// @life:provider produces no output but is recorded in the declarations list.
	//
	// The declarations list is reset at the start of each call.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing annotations to be processed
	//
	// Returns:
	//   - string: the processed WGSL shader source code with annotations replaced
	//   - error: an error if any annotation is malformed, references an unknown type or an unset constant
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations collected during the most
	// recent call to Process, in source order.
	//
	// Returns:
	//   - []Annotation: the declarations collected during the last Process call
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor with all registered types and address spaces
// pre-populated.
//
// Parameters:
//   - constants: values for @life:const annotations, keyed by name; may be nil
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(constants map[string]uint32) PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgGrid:      {Type: "vec2f"},
			AnnotationArgCellState: {Type: "u32"},
			annotationArgCellIndex: {Source: life.GPUCellIndexSource},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform:   "var<uniform>",
			annotationArgStorageTypeRead:      "var<storage, read>",
			annotationArgStorageTypeReadWrite: "var<storage, read_write>",
		},
		constants: maps.Clone(constants),
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	included := make(map[AnnotationArg]bool)

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			// a helper included twice would redeclare its functions
			if included[a.Args[0]] {
				continue
			}
			included[a.Args[0]] = true
			out = append(out, p.structRegistry[a.Args[0]].Source)
		case AnnotationTypeBindingGroup:
			addrSpace := p.addressSpaceRegistry[a.Args[0]]
			varName := string(a.Args[1])
			var wgslType string
			if inner, ok := strings.CutPrefix(string(a.Args[2]), "array<"); ok {
				inner = strings.TrimSuffix(inner, ">")
				wgslType = fmt.Sprintf("array<%s>", p.structRegistry[AnnotationArg(inner)].Type)
			} else {
				wgslType = p.structRegistry[a.Args[2]].Type
			}

			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, addrSpace, varName, wgslType))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			p.declarations = append(p.declarations, *a)
		case annotationTypeConst:
			name := string(a.Args[0])
			v, ok := p.constants[name]
			if !ok {
				return "", fmt.Errorf("line %d: no value supplied for @life:const %s", i+1, name)
			}
			out = append(out, fmt.Sprintf("const %s: u32 = %du;", name, v))
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", i+1, a.Type)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
