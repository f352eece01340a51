// Package classfile implements the Class Image Decoder (C1): parsing one
// compiled JVM class image into a typed ClassView with no I/O beyond the
// single read the caller hands it.
//
// The binary layout follows the JVM class file format (constant pool,
// access flags, fields, methods, attributes); there is no third-party
// library in the retrieval pack for this format (see DESIGN.md), so this
// package reads the format directly with encoding/binary, in the same
// hand-rolled-binary-parsing style the corpus's own JVM-bytecode reference
// uses for the same job.
package classfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedClass is returned when a class image cannot be decoded.
// Partial ClassViews are never returned alongside this error.
var ErrMalformedClass = errors.New("classfile: malformed class image")

const classMagic = 0xCAFEBABE

// Constant pool tags, per the JVM specification §4.4.
const (
	tagUTF8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// Access flag bits, per JVM specification §4.1/§4.5/§4.6.
const (
	accPublic    = 0x0001
	accPrivate   = 0x0002
	accProtected = 0x0004
	accStatic    = 0x0008
	accFinal     = 0x0010
	accInterface = 0x0200
	accAbstract  = 0x0400
	accEnum      = 0x4000
)

// Invocation opcodes relevant to the call-edge taxonomy.
const (
	opInvokeVirtual   = 0xB6
	opInvokeSpecial   = 0xB7
	opInvokeStatic    = 0xB8
	opInvokeInterface = 0xB9
	opInvokeDynamic   = 0xBA
)

// ClassView is the decoded, in-memory representation of one class image.
type ClassView struct {
	FQN        string
	IsEnum     bool
	IsInterface bool
	Access     AccessFlags
	SuperFQN   string // empty for java.lang.Object or interfaces with no super
	Interfaces []string
	Fields     []FieldView
	Methods    []MethodView
}

// AccessFlags mirrors the subset of bytecode access flags the fact emitter
// consumes.
type AccessFlags struct {
	Public    bool
	Private   bool
	Protected bool
	Final     bool
	Abstract  bool
}

// Visibility derives the §3 visibility enum from bytecode access flags.
func (a AccessFlags) Visibility() string {
	switch {
	case a.Public:
		return "public"
	case a.Private:
		return "private"
	case a.Protected:
		return "protected"
	default:
		return "package"
	}
}

// FieldView is one decoded field with its canonicalized declared type.
type FieldView struct {
	Name string
	Type string // canonical FQN, possibly with "[]" array suffix
}

// CallSite is one method-invocation instruction found in a method body.
type CallSite struct {
	TargetFQN string // owner.method(paramTypes)
	IsNew     bool   // INVOKESPECIAL targeting <init>
	Line      int    // NoLine (-1) if no line-number attribute covers it
}

// MethodView is one decoded method, including its resolved line-number
// table and the method-invocation instructions in its body.
type MethodView struct {
	Name            string
	Access          AccessFlags
	ParamTypes      []string
	ReturnType      string
	Line            int // earliest line associated with any instruction, or NoLine
	AnnotationFQNs  []string
	Calls           []CallSite
}

// Decode parses the bytes of a compiled class image into a ClassView.
// Decoding cost is O(len(data)); the only I/O performed is the caller's own
// read into data.
func Decode(data []byte) (*ClassView, error) {
	r := &reader{buf: data}

	magic, err := r.u4()
	if err != nil || magic != classMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrMalformedClass)
	}
	if _, err := r.u2(); err != nil { // minor version
		return nil, fmt.Errorf("%w: %v", ErrMalformedClass, err)
	}
	if _, err := r.u2(); err != nil { // major version
		return nil, fmt.Errorf("%w: %v", ErrMalformedClass, err)
	}

	pool, err := readConstantPool(r)
	if err != nil {
		return nil, fmt.Errorf("%w: constant pool: %v", ErrMalformedClass, err)
	}

	accessFlags, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedClass, err)
	}
	thisClass, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedClass, err)
	}
	superClass, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedClass, err)
	}

	ifaceCount, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedClass, err)
	}
	interfaces := make([]string, 0, ifaceCount)
	for i := 0; i < int(ifaceCount); i++ {
		idx, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedClass, err)
		}
		fqn, err := pool.classFQN(idx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedClass, err)
		}
		interfaces = append(interfaces, fqn)
	}

	fieldCount, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedClass, err)
	}
	fields := make([]FieldView, 0, fieldCount)
	for i := 0; i < int(fieldCount); i++ {
		f, err := readField(r, pool)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d: %v", ErrMalformedClass, i, err)
		}
		fields = append(fields, f)
	}

	methodCount, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedClass, err)
	}
	methods := make([]MethodView, 0, methodCount)
	for i := 0; i < int(methodCount); i++ {
		m, err := readMethod(r, pool)
		if err != nil {
			return nil, fmt.Errorf("%w: method %d: %v", ErrMalformedClass, i, err)
		}
		methods = append(methods, m)
	}

	classAnnotations, err := readTopLevelAttributes(r, pool)
	if err != nil {
		return nil, fmt.Errorf("%w: class attributes: %v", ErrMalformedClass, err)
	}
	_ = classAnnotations

	thisFQN, err := pool.classFQN(thisClass)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedClass, err)
	}

	var superFQN string
	if superClass != 0 {
		s, err := pool.classFQN(superClass)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedClass, err)
		}
		if s != "java.lang.Object" {
			superFQN = s
		}
	}

	isInterface := accessFlags&accInterface != 0
	isEnum := accessFlags&accEnum != 0

	return &ClassView{
		FQN:         thisFQN,
		IsEnum:      isEnum,
		IsInterface: isInterface,
		Access:      decodeAccess(accessFlags),
		SuperFQN:    superFQN,
		Interfaces:  interfaces,
		Fields:      fields,
		Methods:     methods,
	}, nil
}

func decodeAccess(flags uint32) AccessFlags {
	return AccessFlags{
		Public:    flags&accPublic != 0,
		Private:   flags&accPrivate != 0,
		Protected: flags&accProtected != 0,
		Final:     flags&accFinal != 0,
		Abstract:  flags&accAbstract != 0,
	}
}

// reader is a forward-only byte cursor over a class image.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) u1() (uint8, error) {
	if r.pos+1 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u2() (uint32, error) {
	if r.pos+2 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return uint32(v), nil
}

func (r *reader) u4() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) bytesN(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) skip(n int) error {
	if n < 0 || r.pos+n > len(r.buf) {
		return io.ErrUnexpectedEOF
	}
	r.pos += n
	return nil
}

func readTopLevelAttributes(r *reader, pool *constantPool) ([]string, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	var annotations []string
	for i := 0; i < int(count); i++ {
		name, body, err := readAttribute(r, pool)
		if err != nil {
			return nil, err
		}
		if name == "RuntimeVisibleAnnotations" {
			annotations = append(annotations, parseAnnotationFQNs(body, pool)...)
		}
	}
	return annotations, nil
}

func readAttribute(r *reader, pool *constantPool) (name string, body []byte, err error) {
	nameIdx, err := r.u2()
	if err != nil {
		return "", nil, err
	}
	name, err = pool.utf8(nameIdx)
	if err != nil {
		return "", nil, err
	}
	length, err := r.u4()
	if err != nil {
		return "", nil, err
	}
	body, err = r.bytesN(int(length))
	if err != nil {
		return "", nil, err
	}
	return name, body, nil
}

// parseAnnotationFQNs extracts the annotation type FQNs from a
// RuntimeVisibleAnnotations attribute body, enough to detect @Override and
// the various @Transactional annotations C2 needs.
func parseAnnotationFQNs(body []byte, pool *constantPool) []string {
	br := &reader{buf: body}
	count, err := br.u2()
	if err != nil {
		return nil
	}
	var out []string
	for i := 0; i < int(count); i++ {
		typeIdx, err := br.u2()
		if err != nil {
			return out
		}
		desc, err := pool.utf8(typeIdx)
		if err != nil {
			return out
		}
		out = append(out, descriptorToFQN(desc))
		if err := skipAnnotationElementPairs(br); err != nil {
			return out
		}
	}
	return out
}

func skipAnnotationElementPairs(br *reader) error {
	pairCount, err := br.u2()
	if err != nil {
		return err
	}
	for i := 0; i < int(pairCount); i++ {
		if _, err := br.u2(); err != nil { // element_name_index
			return err
		}
		if err := skipAnnotationElementValue(br); err != nil {
			return err
		}
	}
	return nil
}

func skipAnnotationElementValue(br *reader) error {
	tag, err := br.u1()
	if err != nil {
		return err
	}
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		_, err = br.u2()
		return err
	case 'e':
		if _, err := br.u2(); err != nil {
			return err
		}
		_, err = br.u2()
		return err
	case 'c':
		_, err = br.u2()
		return err
	case '@':
		if _, err := br.u2(); err != nil {
			return err
		}
		return skipAnnotationElementPairs(br)
	case '[':
		n, err := br.u2()
		if err != nil {
			return err
		}
		for i := 0; i < int(n); i++ {
			if err := skipAnnotationElementValue(br); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown annotation element tag %q", tag)
	}
}

func readField(r *reader, pool *constantPool) (FieldView, error) {
	if _, err := r.u2(); err != nil { // access_flags (unused: visibility comes from the method/class, not fields, per §3)
		return FieldView{}, err
	}
	nameIdx, err := r.u2()
	if err != nil {
		return FieldView{}, err
	}
	descIdx, err := r.u2()
	if err != nil {
		return FieldView{}, err
	}
	name, err := pool.utf8(nameIdx)
	if err != nil {
		return FieldView{}, err
	}
	desc, err := pool.utf8(descIdx)
	if err != nil {
		return FieldView{}, err
	}

	attrCount, err := r.u2()
	if err != nil {
		return FieldView{}, err
	}
	for i := 0; i < int(attrCount); i++ {
		if _, _, err := readAttribute(r, pool); err != nil {
			return FieldView{}, err
		}
	}

	return FieldView{Name: name, Type: descriptorToFQN(desc)}, nil
}

func readMethod(r *reader, pool *constantPool) (MethodView, error) {
	accessFlags, err := r.u2()
	if err != nil {
		return MethodView{}, err
	}
	nameIdx, err := r.u2()
	if err != nil {
		return MethodView{}, err
	}
	descIdx, err := r.u2()
	if err != nil {
		return MethodView{}, err
	}
	name, err := pool.utf8(nameIdx)
	if err != nil {
		return MethodView{}, err
	}
	desc, err := pool.utf8(descIdx)
	if err != nil {
		return MethodView{}, err
	}
	params, ret := decodeMethodDescriptor(desc)

	mv := MethodView{
		Name:       name,
		Access:     decodeAccess(accessFlags),
		ParamTypes: params,
		ReturnType: ret,
		Line:       -1,
	}

	attrCount, err := r.u2()
	if err != nil {
		return MethodView{}, err
	}
	for i := 0; i < int(attrCount); i++ {
		attrName, body, err := readAttribute(r, pool)
		if err != nil {
			return MethodView{}, err
		}
		switch attrName {
		case "Code":
			calls, line, err := parseCodeAttribute(body, pool)
			if err != nil {
				return MethodView{}, err
			}
			mv.Calls = calls
			mv.Line = line
		case "RuntimeVisibleAnnotations":
			mv.AnnotationFQNs = append(mv.AnnotationFQNs, parseAnnotationFQNs(body, pool)...)
		}
	}

	return mv, nil
}

// parseCodeAttribute scans a method's Code attribute for invocation
// instructions and the earliest line in its LineNumberTable.
func parseCodeAttribute(body []byte, pool *constantPool) ([]CallSite, int, error) {
	cr := &reader{buf: body}
	if _, err := cr.u2(); err != nil { // max_stack
		return nil, -1, err
	}
	if _, err := cr.u2(); err != nil { // max_locals
		return nil, -1, err
	}
	codeLength, err := cr.u4()
	if err != nil {
		return nil, -1, err
	}
	code, err := cr.bytesN(int(codeLength))
	if err != nil {
		return nil, -1, err
	}

	exceptionTableLength, err := cr.u2()
	if err != nil {
		return nil, -1, err
	}
	if err := cr.skip(int(exceptionTableLength) * 8); err != nil {
		return nil, -1, err
	}

	attrCount, err := cr.u2()
	if err != nil {
		return nil, -1, err
	}
	lineForOffset := map[int]int{}
	for i := 0; i < int(attrCount); i++ {
		name, attrBody, err := readAttribute(cr, pool)
		if err != nil {
			return nil, -1, err
		}
		if name == "LineNumberTable" {
			lr := &reader{buf: attrBody}
			n, err := lr.u2()
			if err != nil {
				return nil, -1, err
			}
			for j := 0; j < int(n); j++ {
				offset, err := lr.u2()
				if err != nil {
					return nil, -1, err
				}
				line, err := lr.u2()
				if err != nil {
					return nil, -1, err
				}
				lineForOffset[int(offset)] = int(line)
			}
		}
	}

	calls, _ := scanInvocations(code, pool, lineForOffset)
	earliest := -1
	for _, line := range lineForOffset {
		if earliest < 0 || line < earliest {
			earliest = line
		}
	}
	return calls, earliest, nil
}

// lineAt returns the line number in effect at the given bytecode offset:
// the highest LineNumberTable entry whose offset is <= pc.
func lineAt(lineForOffset map[int]int, pc int) int {
	best := -1
	bestOffset := -1
	for offset, line := range lineForOffset {
		if offset <= pc && offset > bestOffset {
			bestOffset = offset
			best = line
		}
	}
	return best
}

func scanInvocations(code []byte, pool *constantPool, lineForOffset map[int]int) ([]CallSite, int) {
	var calls []CallSite
	earliest := -1
	pc := 0
	for pc < len(code) {
		op := code[pc]
		instrLen := opcodeLength(code, pc)
		switch op {
		case opInvokeVirtual, opInvokeSpecial, opInvokeStatic:
			if pc+3 <= len(code) {
				idx := uint32(binary.BigEndian.Uint16(code[pc+1:]))
				target, isNew, ok := pool.methodTarget(idx, op == opInvokeSpecial)
				if ok {
					line := lineAt(lineForOffset, pc)
					if line >= 0 && (earliest < 0 || line < earliest) {
						earliest = line
					}
					calls = append(calls, CallSite{TargetFQN: target, IsNew: isNew, Line: line})
				}
			}
		case opInvokeInterface:
			if pc+5 <= len(code) {
				idx := uint32(binary.BigEndian.Uint16(code[pc+1:]))
				target, _, ok := pool.interfaceMethodTarget(idx)
				if ok {
					line := lineAt(lineForOffset, pc)
					if line >= 0 && (earliest < 0 || line < earliest) {
						earliest = line
					}
					calls = append(calls, CallSite{TargetFQN: target, Line: line})
				}
			}
		}
		if instrLen <= 0 {
			break
		}
		pc += instrLen
	}
	return calls, earliest
}

// opcodeLength returns the total instruction length (opcode + operands) for
// the opcode at code[pc], covering the fixed-width subset this decoder
// needs to step past reliably, and a conservative default elsewhere.
func opcodeLength(code []byte, pc int) int {
	op := code[pc]
	switch {
	case op == 0xAA || op == 0xAB: // tableswitch / lookupswitch: variable width, not needed for call-edge extraction
		return len(code) - pc // bail to end of method; no further calls scanned past a switch
	case fixedOpcodeLen[op] > 0:
		return int(fixedOpcodeLen[op])
	default:
		return 1
	}
}

// fixedOpcodeLen gives the byte length of opcodes whose operand width this
// decoder must skip correctly to keep call-site offsets aligned; opcodes not
// present here consume exactly their opcode byte (len 1), which covers every
// zero-operand instruction and is the common case.
var fixedOpcodeLen = buildFixedOpcodeLen()

func buildFixedOpcodeLen() map[byte]int {
	m := map[byte]int{
		0x10: 2, // bipush
		0x11: 3, // sipush
		0x12: 2, // ldc
		0x13: 3, // ldc_w
		0x14: 3, // ldc2_w
		0x15: 2, // iload
		0x16: 2, // lload
		0x17: 2, // fload
		0x18: 2, // dload
		0x19: 2, // aload
		0x36: 2, // istore
		0x37: 2, // lstore
		0x38: 2, // fstore
		0x39: 2, // dstore
		0x3A: 2, // astore
		0xA9: 2, // ret
		0xB2: 3, // getstatic
		0xB3: 3, // putstatic
		0xB4: 3, // getfield
		0xB5: 3, // putfield
		0xB6: 3, // invokevirtual
		0xB7: 3, // invokespecial
		0xB8: 3, // invokestatic
		0xB9: 5, // invokeinterface
		0xBA: 5, // invokedynamic
		0xBB: 3, // new
		0xBC: 2, // newarray
		0xBD: 3, // anewarray
		0xC0: 3, // checkcast
		0xC1: 3, // instanceof
		0xC5: 4, // multianewarray
		0xC6: 3, // ifnull
		0xC7: 3, // ifnonnull
		0xA7: 3, // goto
		0xA8: 3, // jsr
		0xC8: 5, // goto_w
		0xC9: 5, // jsr_w
		0x84: 3, // iinc
	}
	for op := 0x99; op <= 0xA6; op++ { // if_* and if_icmp*/if_acmp* family
		m[byte(op)] = 3
	}
	return m
}

func readConstantPool(r *reader) (*constantPool, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	pool := &constantPool{entries: make([]cpEntry, count)}

	for i := 1; i < int(count); i++ {
		tag, err := r.u1()
		if err != nil {
			return nil, err
		}
		switch tag {
		case tagUTF8:
			length, err := r.u2()
			if err != nil {
				return nil, err
			}
			b, err := r.bytesN(int(length))
			if err != nil {
				return nil, err
			}
			pool.entries[i] = cpEntry{tag: tag, utf8: string(b)}
		case tagInteger, tagFloat:
			if _, err := r.u4(); err != nil {
				return nil, err
			}
			pool.entries[i] = cpEntry{tag: tag}
		case tagLong, tagDouble:
			if _, err := r.u4(); err != nil {
				return nil, err
			}
			if _, err := r.u4(); err != nil {
				return nil, err
			}
			pool.entries[i] = cpEntry{tag: tag}
			i++ // longs/doubles occupy two constant-pool slots
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			idx, err := r.u2()
			if err != nil {
				return nil, err
			}
			pool.entries[i] = cpEntry{tag: tag, ref1: idx}
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagDynamic, tagInvokeDynamic:
			a, err := r.u2()
			if err != nil {
				return nil, err
			}
			b, err := r.u2()
			if err != nil {
				return nil, err
			}
			pool.entries[i] = cpEntry{tag: tag, ref1: a, ref2: b}
		case tagMethodHandle:
			kind, err := r.u1()
			if err != nil {
				return nil, err
			}
			idx, err := r.u2()
			if err != nil {
				return nil, err
			}
			pool.entries[i] = cpEntry{tag: tag, ref1: uint32(kind), ref2: idx}
		default:
			return nil, fmt.Errorf("unknown constant pool tag %d at index %d", tag, i)
		}
	}
	return pool, nil
}

// cpEntry is one raw constant pool slot.
type cpEntry struct {
	tag  uint8
	utf8 string
	ref1 uint32
	ref2 uint32
}

// constantPool resolves cross-references within the class's constant pool.
type constantPool struct {
	entries []cpEntry
}

func (p *constantPool) get(idx uint32) (cpEntry, error) {
	if idx == 0 || int(idx) >= len(p.entries) {
		return cpEntry{}, fmt.Errorf("constant pool index %d out of range", idx)
	}
	return p.entries[idx], nil
}

func (p *constantPool) utf8(idx uint32) (string, error) {
	e, err := p.get(idx)
	if err != nil {
		return "", err
	}
	if e.tag != tagUTF8 {
		return "", fmt.Errorf("constant pool index %d is not UTF8", idx)
	}
	return e.utf8, nil
}

// classFQN resolves a Class constant pool entry to its canonical FQN.
func (p *constantPool) classFQN(idx uint32) (string, error) {
	e, err := p.get(idx)
	if err != nil {
		return "", err
	}
	if e.tag != tagClass {
		return "", fmt.Errorf("constant pool index %d is not Class", idx)
	}
	name, err := p.utf8(e.ref1)
	if err != nil {
		return "", err
	}
	return normalizeClassReference(name), nil
}

// methodTarget resolves an (Interface)Methodref to owner.method(params)
// and reports whether the target is a constructor invoked via
// INVOKESPECIAL (the "new" call kind of §3).
func (p *constantPool) methodTarget(idx uint32, special bool) (fqn string, isNew bool, ok bool) {
	e, err := p.get(idx)
	if err != nil || (e.tag != tagMethodref && e.tag != tagInterfaceMethodref) {
		return "", false, false
	}
	owner, err := p.classFQN(e.ref1)
	if err != nil {
		return "", false, false
	}
	nt, err := p.get(e.ref2)
	if err != nil || nt.tag != tagNameAndType {
		return "", false, false
	}
	name, err := p.utf8(nt.ref1)
	if err != nil {
		return "", false, false
	}
	desc, err := p.utf8(nt.ref2)
	if err != nil {
		return "", false, false
	}
	params, _ := decodeMethodDescriptor(desc)
	isNew = special && name == "<init>"
	return formatMethodFQN(owner, name, params), isNew, true
}

func (p *constantPool) interfaceMethodTarget(idx uint32) (fqn string, isNew bool, ok bool) {
	e, err := p.get(idx)
	if err != nil || e.tag != tagInterfaceMethodref {
		return "", false, false
	}
	owner, err := p.classFQN(e.ref1)
	if err != nil {
		return "", false, false
	}
	nt, err := p.get(e.ref2)
	if err != nil || nt.tag != tagNameAndType {
		return "", false, false
	}
	name, err := p.utf8(nt.ref1)
	if err != nil {
		return "", false, false
	}
	desc, err := p.utf8(nt.ref2)
	if err != nil {
		return "", false, false
	}
	params, _ := decodeMethodDescriptor(desc)
	return formatMethodFQN(owner, name, params), false, true
}

// formatMethodFQN builds the <owner>.<simpleName>(<paramTypes>) form of §3.
func formatMethodFQN(owner, name string, params []string) string {
	return owner + "." + name + "(" + joinParams(params) + ")"
}

func joinParams(params []string) string {
	var buf bytes.Buffer
	for i, p := range params {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(p)
	}
	return buf.String()
}

// normalizeClassReference strips the array-reference wrapper the constant
// pool sometimes uses for Class entries referring to array types
// (e.g. "[Lcom/axelor/db/Model;" or "[I"), returning the canonical element
// FQN with a "[]" suffix, or the plain internal-name-to-dotted conversion
// otherwise.
func normalizeClassReference(internalName string) string {
	if len(internalName) > 0 && internalName[0] == '[' {
		return descriptorToFQN(internalName)
	}
	return dotted(internalName)
}

func dotted(internalName string) string {
	out := make([]byte, len(internalName))
	for i := 0; i < len(internalName); i++ {
		if internalName[i] == '/' {
			out[i] = '.'
		} else {
			out[i] = internalName[i]
		}
	}
	return string(out)
}
