// Package parser loads an IPPcode23 program from its XML serialization and
// validates everything that can be checked statically: document structure,
// instruction ordering, opcode spelling, operand classes and the lexical
// form of every operand. The engine receives a fully parsed vm.Program and
// never re-reads source text at runtime.
package parser

import (
	"encoding/xml"
	"io"
	"sort"
	"strconv"
	"strings"

	"ipprun/types"
	"ipprun/vm"
)

const language = "IPPcode23"

type xmlDocument struct {
	XMLName  xml.Name
	Language string    `xml:"language,attr"`
	Children []xmlNode `xml:",any"`
}

type xmlNode struct {
	XMLName xml.Name
	Order   string    `xml:"order,attr"`
	Opcode  string    `xml:"opcode,attr"`
	Args    []xmlNode `xml:",any"`
	Type    string    `xml:"type,attr"`
	Value   string    `xml:",chardata"`
}

// Parse reads an XML program and produces an executable vm.Program.
// Malformed XML reports E_XML_PARSE; every structural or lexical problem
// reports E_XML_STRUCT.
func Parse(r io.Reader) (*vm.Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, types.NewError(types.E_INPUT, "reading source: %v", err)
	}

	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, types.NewError(types.E_XML_PARSE, "malformed XML: %v", err)
	}

	if doc.XMLName.Local != "program" {
		return nil, types.NewError(types.E_XML_STRUCT, "root element is <%s>, expected <program>", doc.XMLName.Local)
	}
	if !strings.EqualFold(doc.Language, language) {
		return nil, types.NewError(types.E_XML_STRUCT, "language attribute is %q, expected %q", doc.Language, language)
	}

	instructions := make([]vm.Instruction, 0, len(doc.Children))
	for i := range doc.Children {
		ins, err := parseInstruction(&doc.Children[i])
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, ins)
	}

	sort.SliceStable(instructions, func(i, j int) bool {
		return instructions[i].Order < instructions[j].Order
	})
	for i := 1; i < len(instructions); i++ {
		if instructions[i].Order == instructions[i-1].Order {
			return nil, types.NewError(types.E_XML_STRUCT, "duplicate instruction order %d", instructions[i].Order)
		}
	}

	return &vm.Program{Instructions: instructions}, nil
}

func parseInstruction(node *xmlNode) (vm.Instruction, error) {
	var ins vm.Instruction

	if node.XMLName.Local != "instruction" {
		return ins, types.NewError(types.E_XML_STRUCT, "unexpected element <%s> in <program>", node.XMLName.Local)
	}

	order, err := strconv.Atoi(strings.TrimSpace(node.Order))
	if err != nil || order <= 0 {
		return ins, types.NewError(types.E_XML_STRUCT, "invalid instruction order %q", node.Order)
	}

	opcode := strings.ToUpper(strings.TrimSpace(node.Opcode))
	classes, ok := vm.OperandClasses(opcode)
	if !ok {
		return ins, types.NewError(types.E_XML_STRUCT, "unknown opcode %q (order %d)", node.Opcode, order)
	}

	args, err := collectArgs(node, len(classes))
	if err != nil {
		return ins, annotate(err, opcode, order)
	}

	ins = vm.Instruction{Opcode: opcode, Order: order, Args: make([]vm.Arg, len(classes))}
	for i, raw := range args {
		arg, err := parseArg(raw, classes[i], i+1)
		if err != nil {
			return ins, annotate(err, opcode, order)
		}
		ins.Args[i] = arg
	}
	return ins, nil
}

// collectArgs gathers the argN sub-elements by tag position. Document order
// is free, but the set of tags must be exactly arg1..argN.
func collectArgs(node *xmlNode, want int) ([]*xmlNode, error) {
	args := make([]*xmlNode, want)
	for i := range node.Args {
		child := &node.Args[i]
		name := child.XMLName.Local
		if !strings.HasPrefix(name, "arg") {
			return nil, types.NewError(types.E_XML_STRUCT, "unexpected element <%s> in <instruction>", name)
		}
		pos, err := strconv.Atoi(name[3:])
		if err != nil || pos < 1 || pos > want {
			return nil, types.NewError(types.E_XML_STRUCT, "unexpected argument element <%s>", name)
		}
		if args[pos-1] != nil {
			return nil, types.NewError(types.E_XML_STRUCT, "duplicate argument element <%s>", name)
		}
		args[pos-1] = child
	}
	for i, a := range args {
		if a == nil {
			return nil, types.NewError(types.E_XML_STRUCT, "missing argument element <arg%d>", i+1)
		}
	}
	return args, nil
}

func parseArg(node *xmlNode, class vm.ArgClass, pos int) (vm.Arg, error) {
	var arg vm.Arg

	if len(node.Args) > 0 {
		return arg, types.NewError(types.E_XML_STRUCT, "unexpected element <%s> in <arg%d>", node.Args[0].XMLName.Local, pos)
	}

	kind, ok := vm.ArgKindFromString(strings.TrimSpace(node.Type))
	if !ok {
		return arg, types.NewError(types.E_XML_STRUCT, "invalid argument type %q", node.Type)
	}
	if !class.Admits(kind) {
		return arg, types.NewError(types.E_XML_STRUCT, "arg%d is %s, expected %s", pos, kind, class)
	}

	switch kind {
	case vm.ArgVar:
		frame, name, err := parseVariable(node.Value)
		if err != nil {
			return arg, err
		}
		return vm.Arg{Kind: vm.ArgVar, Frame: frame, Name: name}, nil
	case vm.ArgLabel:
		name := strings.TrimSpace(node.Value)
		if !validIdent(name) {
			return arg, types.NewError(types.E_XML_STRUCT, "invalid label name %q", node.Value)
		}
		return vm.Arg{Kind: vm.ArgLabel, Name: name}, nil
	case vm.ArgType:
		name := strings.TrimSpace(node.Value)
		switch name {
		case "int", "bool", "string":
			return vm.Arg{Kind: vm.ArgType, Name: name}, nil
		default:
			return arg, types.NewError(types.E_XML_STRUCT, "invalid type operand %q", node.Value)
		}
	default:
		lit, err := parseLiteral(kind, node.Value)
		if err != nil {
			return arg, err
		}
		return vm.Arg{Kind: kind, Lit: lit}, nil
	}
}

func annotate(err error, opcode string, order int) error {
	if ie, ok := err.(*types.Error); ok {
		ie.At(opcode, order)
	}
	return err
}
