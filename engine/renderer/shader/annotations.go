// annotations.go defines the annotation types, argument constants and parser for the
// WGSL shader pre-processor. Annotations are single-line WGSL comments prefixed with
// @life: that drive helper injection, bind group declaration, constant injection and
// buffer provider registration. Parsed results are stored as Annotation values and
// consumed by the PreProcessor and the simulation when it wires buffers to bindings.
package shader

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an annotation within a WGSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "@life:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered helper at the annotation
	// site. It does not produce a declaration and is consumed entirely during pre-processing.
	//
	// Syntax: //@life:include <helper>
	//
	// Example: //@life:include cell_index
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a WGSL @group/@binding variable declaration
	// and appends an Annotation to the PreProcessor's declarations list. An optional
	// provider identity names the buffer that should be bound there.
	//
	// Syntax: //@life:group <group> <binding> <address_space> <var_name> <type> [provider]
	//
	// Example: //@life:group 0 1 storage_read cellStateIn array<cell_state> cells_in
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider registers a provider identity for a group and binding without
	// generating any WGSL output. The binding declaration stays hand-written directly below.
	//
	// Syntax: //@life:provider <group> <binding> <provider_identity>
	//
	// Example: //@life:provider 0 1 cells_in
	AnnotationTypeProvider AnnotationType = "provider"

	// annotationTypeConst emits a module-scope u32 constant whose value is supplied by the
	// Go side through WithConstant, so Go and WGSL agree on values such as the workgroup size.
	//
	// Syntax: //@life:const <NAME>
	//
	// Example: //@life:const WORKGROUP_SIZE
	annotationTypeConst AnnotationType = "const"
)

// Annotation represents a single parsed @life: annotation from a WGSL source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:  [0] = helper key (e.g. "cell_index")
	//   - group:    [0] = address space, [1] = var name, [2] = WGSL type key, [3] = provider identity (optional)
	//   - provider: [0] = provider identity (e.g. "grid", "cells_in")
	//   - const:    [0] = constant name
	Args []AnnotationArg

	// Line is the 1-based line number in the original WGSL source. Used for error reporting.
	Line int

	// Group is the @group index for group and provider annotations. Nil otherwise.
	Group *int

	// Binding is the @binding index for group and provider annotations. Nil otherwise.
	Binding *int
}

// Provider returns the provider identity the annotation declares, if any.
func (a Annotation) Provider() (AnnotationArg, bool) {
	switch a.Type {
	case AnnotationTypeProvider:
		return a.Args[0], true
	case AnnotationTypeBindingGroup:
		if len(a.Args) == 4 {
			return a.Args[3], true
		}
	}
	return "", false
}

// AnnotationArg is a typed string constant used as an argument in annotations.
type AnnotationArg string

// ── Type arguments ─────────────────────────────────────────────────────────────
// These identify registered WGSL types and helpers. They appear in @life:include (helpers
// with source) and @life:group (as the type field, optionally wrapped in array<>).

const (
	// AnnotationArgGrid identifies the grid dimensions uniform, a vec2f of (width, height).
	// Go side: life.GPUGridUniform
	AnnotationArgGrid AnnotationArg = "grid"

	// AnnotationArgCellState identifies a single cell state, 0 for dead and 1 for alive.
	AnnotationArgCellState AnnotationArg = "cell_state"

	// annotationArgCellIndex identifies the toroidal cellIndex helper function.
	// Source: engine/life/assets/cell_index.wgsl
	annotationArgCellIndex AnnotationArg = "cell_index"
)

// ── Address space arguments ────────────────────────────────────────────────────

const (
	// annotationArgStorageTypeUniform maps to var<uniform> in WGSL.
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"

	// annotationArgStorageTypeRead maps to var<storage, read> in WGSL.
	annotationArgStorageTypeRead AnnotationArg = "storage_read"

	// annotationArgStorageTypeReadWrite maps to var<storage, read_write> in WGSL.
	annotationArgStorageTypeReadWrite AnnotationArg = "storage_read_write"
)

// ── Provider identity arguments ────────────────────────────────────────────────
// These identify which simulation buffer belongs at a binding. The simulation resolves
// binding indices from them instead of hard-coding the shader's layout.

const (
	// AnnotationArgProviderGrid is the grid dimensions uniform buffer.
	AnnotationArgProviderGrid AnnotationArg = "grid"

	// AnnotationArgCellsIn is the cell buffer holding the generation being read.
	AnnotationArgCellsIn AnnotationArg = "cells_in"

	// AnnotationArgCellsOut is the cell buffer the next generation is written to.
	AnnotationArgCellsOut AnnotationArg = "cells_out"
)

// validStructTypes lists the type arguments accepted by @life:group.
var validStructTypes = []AnnotationArg{
	AnnotationArgGrid,
	AnnotationArgCellState,
}

// validIncludes lists the helper arguments accepted by @life:include.
var validIncludes = []AnnotationArg{
	annotationArgCellIndex,
}

// validAddressSpaces lists the address space arguments accepted by @life:group.
var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
	annotationArgStorageTypeReadWrite,
}

// validProviderIdentities lists the identities accepted by @life:provider and the optional
// trailing argument of @life:group.
var validProviderIdentities = []AnnotationArg{
	AnnotationArgProviderGrid,
	AnnotationArgCellsIn,
	AnnotationArgCellsOut,
}

var constNameRegex = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// parseAnnotation attempts to parse a single line of WGSL source as a @life: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @life annotation", lineNum)
	}

	switch args[0] {
	case string(annotationTypeInclude):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @life include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validIncludes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown helper %q in @life include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case string(AnnotationTypeBindingGroup):
		if len(args) != 6 && len(args) != 7 {
			return nil, fmt.Errorf("line %d: @life group annotation requires five or six arguments (group, binding, address space, var name, type[, provider])", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @life group annotation", lineNum, args[3])
		}
		typeArg := args[5]
		if inner, ok := strings.CutPrefix(typeArg, "array<"); ok {
			typeArg = strings.TrimSuffix(inner, ">")
		}
		if !slices.Contains(validStructTypes, AnnotationArg(typeArg)) {
			return nil, fmt.Errorf("line %d: unknown type %q in @life group annotation", lineNum, args[5])
		}
		groupArgs := []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])}
		if len(args) == 7 {
			if !slices.Contains(validProviderIdentities, AnnotationArg(args[6])) {
				return nil, fmt.Errorf("line %d: unknown provider identity %q in @life group annotation", lineNum, args[6])
			}
			groupArgs = append(groupArgs, AnnotationArg(args[6]))
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    groupArgs,
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	case string(AnnotationTypeProvider):
		if len(args) != 4 {
			return nil, fmt.Errorf("line %d: @life provider annotation requires three arguments (group, binding, provider identity)", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider identity %q in @life provider annotation", lineNum, args[3])
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    []AnnotationArg{AnnotationArg(args[3])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	case string(annotationTypeConst):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @life const annotation requires exactly one argument", lineNum)
		}
		if !constNameRegex.MatchString(args[1]) {
			return nil, fmt.Errorf("line %d: invalid constant name %q in @life const annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeConst,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @life annotation type %q", lineNum, args[0])
	}
}

func parseGroupBinding(groupArg, bindingArg string, lineNum int) (int, int, error) {
	group, err := strconv.Atoi(groupArg)
	if err != nil || group < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid group number %q", lineNum, groupArg)
	}
	binding, err := strconv.Atoi(bindingArg)
	if err != nil || binding < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid binding number %q", lineNum, bindingArg)
	}
	return group, binding, nil
}
