package analyzer

import (
	"strings"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

// vhdlAttributes may follow a tick, e.g. vector'length.
var vhdlAttributes = map[string]bool{
	"length":        true,
	"reverse_range": true,
	"range":         true,
}

// classify decides the kind and data type of the token in name. Some
// tokens are rewritten or split, so name is updated in place. Declarations
// are registered as a side effect.
func (p *parser) classify(name *string, checkVariable bool) (Kind, *types.DataType) {
	words := strings.Fields(*name)
	ctx := p.ctx
	seg := p.seg

	if *name == "" {
		if p.op == "is" && seg.Kind == Type {
			enumName := seg.LastName()
			ctx.addLocalType(strings.ToLower(enumName), types.NewEnum(enumName))
			return EnumDeclaration, types.Unknown
		}
		if p.op == "'" && vhdlAttributes[strings.ToLower(seg.Name)] {
			ctx.unresolvedSegments = removeSegment(ctx.unresolvedSegments, seg)
		}
		return EmptyName, types.Unknown
	}

	if p.op == "end" {
		return VhdlEnd, types.Unknown
	}

	kind := kindOfWord(words[0])
	switch {
	case kind == Include:
		ctx.IncludeExists = true
		return Include, types.Unknown

	case kind == Component && len(words) == 3 && strings.EqualFold(words[2], "port"):
		// "Component x port" declares the component and opens its port list.
		p.cur = []byte(words[0] + " " + words[1])
		p.lastInner = p.curStart + len(p.cur) - 1
		p.pushSegment()
		p.curStart = p.lastInner + 2
		p.lastInner = p.curStart + len(words[2]) - 1
		*name = "port"
		return Port, types.Unknown

	case kind == Port:
		p.op = ""
		return Port, types.Unknown

	case kind == Record || kind == Array:
		if p.op == "is" && seg.Kind == Type {
			if owner := seg.words(); len(owner) == 2 {
				t := types.NewArray(owner[1])
				if kind == Record {
					t = types.NewRecord(owner[1])
				}
				ctx.addLocalType(strings.ToLower(owner[1]), t)
			}
		}
		return kind, types.Unknown

	case kind == Return && len(words) == 2 && seg.Kind == Function && p.pos == posParameter:
		f := ctx.declared[seg]
		if f == nil {
			return Return, types.Unknown
		}
		dt := ctx.declaredType(words[1])
		f.Return = dt
		return Return, dt

	case kind == For:
		if len(words) > 1 {
			if _, ok := seg.Vars[strings.ToLower(words[1])]; !ok {
				seg.addVar(&types.Variable{
					Name:   words[1],
					Type:   types.Integer,
					Kind:   types.KindIterator,
					Offset: p.curStart + strings.Index(*name, words[1]),
					Owner:  seg.Name,
				})
			}
		}
		return For, types.Unknown

	case kind == Unknown || kind == NativeDataValue:
		return p.classifyValue(kind, *name, words, checkVariable)
	}
	return kind, types.Unknown
}

// classifyValue handles tokens whose first word is not a keyword: names,
// literals, declarations and the members of enum and connection lists.
func (p *parser) classifyValue(kind Kind, name string, words []string, checkVariable bool) (Kind, *types.DataType) {
	ctx := p.ctx
	seg := p.seg
	lower := strings.ToLower(name)
	lastWord := strings.ToLower(words[len(words)-1])

	isDeclaration := p.op == ":" ||
		types.IsDirection(p.op) && (seg.Parent == nil || seg.Parent.Kind != For)

	switch {
	case kind != NativeDataValue && isDeclaration:
		if p.vhdl && (seg.ConcatOp == "of" || strings.HasSuffix(lower, "port map")) {
			return Attribute, types.Unknown
		}
		return TypeUsage, p.parseDeclaration(name)

	case seg.Kind == SubType:
		dt := ctx.declaredType(name)
		if alias := strings.ToLower(seg.LastName()); alias != "" && dt != types.Unknown {
			ctx.addLocalType(alias, dt)
		}
		return TypeUsage, dt

	case p.op == "of":
		if p.vhdl && seg.Kind == Attribute {
			return DataVariable, types.Unknown
		}
		return TypeUsage, p.parseArrayDeclaration(name)

	case seg.Kind.is(For, ParFor) && p.pos == posParameter:
		iter := words[0]
		key := strings.ToLower(iter)
		if key == "variable" || key == "signal" || len(seg.Params) > 0 {
			return Unknown, types.Unknown
		}
		if _, ok := seg.Vars[key]; ok {
			return Unknown, types.Unknown
		}
		seg.addVar(&types.Variable{
			Name:   iter,
			Type:   types.Integer,
			Kind:   types.KindIterator,
			Offset: p.curStart,
			Owner:  seg.Name,
		})
		return kind, types.Unknown

	case seg.Kind.is(Connections, ConnectionsMember):
		if p.ch == ',' || p.ch == '}' {
			if seg.Kind == ConnectionsMember && p.op == "=>" {
				key := strings.Split(strings.ToLower(seg.Name), "[")[0]
				if _, ok := ctx.Connections[key]; !ok {
					ctx.Connections[key] = Connection{Name: key, Target: name}
				}
			} else {
				key := strings.Split(lower, "[")[0]
				if _, ok := ctx.Connections[key]; !ok {
					ctx.Connections[key] = Connection{Name: key}
				}
			}
		}
		return ConnectionsMember, types.Unknown
	}

	if checkVariable {
		if dt := nativeType(name); dt != types.Unknown {
			return NativeDataValue, dt
		}
	}

	if p.op == "." {
		if rec := searchVariable(seg, seg.Name); rec != nil {
			if rec.Type.Class == types.Record {
				if f, ok := rec.Type.Fields[lower]; ok {
					return DataVariable, f.Type
				}
			}
			return Unknown, types.Unknown
		}
	}

	if seg.Kind == NewComponent || p.op == "," && componentInstance(seg) {
		return ComponentMember, types.Unknown
	}

	if seg.Kind.is(EnumDeclaration, Enum) && p.pos == posParameter {
		decl := searchTopSegment(seg, EnumDeclaration)
		if decl == nil || decl.Parent == nil || !decl.Parent.Kind.is(Type, SubType) {
			return Unknown, types.Unknown
		}
		if t, ok := ctx.availTypes[strings.ToLower(decl.Parent.LastName())]; ok && t.Class == types.Enum {
			t.States = append(t.States, name)
		}
		return Enum, types.Unknown
	}

	if p.op != "'" {
		if v := searchVariable(seg, name); v != nil {
			return DataVariable, v.Type
		}
	}
	if e := searchEnum(ctx, name); e != nil {
		return DataVariable, e
	}

	switch {
	case p.ch == '(' && isBuiltin(lower):
		return CustomBuiltinFunction, types.Unknown
	case len(words) == 3 && strings.EqualFold(words[1], "range"):
		return Range, types.Unknown
	case seg.Kind.is(Include, IncludePackage):
		if len(ctx.Includes) == 0 || p.op != "." {
			ctx.Includes = append(ctx.Includes, "")
		}
		last := len(ctx.Includes) - 1
		if p.op == "." {
			ctx.Includes[last] += "."
		}
		ctx.Includes[last] += name
		return IncludePackage, types.Unknown
	case p.op == "'" && vhdlAttributes[lower]:
		return VhdlAttribute, types.Unknown
	case p.pos == posParameter && p.ch == '=' && p.next == '>':
		return VariableDeclaration, types.Unknown
	case p.vhdl && lastWord == "generate":
		return Generate, types.Unknown
	case p.vhdl && lastWord == "then":
		return Then, types.Unknown
	case words[0] == "wait":
		return VhdlFunction, types.Unknown
	}
	return Unknown, types.Unknown
}

func isBuiltin(name string) bool {
	_, ok := types.LookupBuiltin(name)
	return ok
}

// componentInstance reports whether seg belongs to the argument list of a
// NewComponent instantiation.
func componentInstance(seg *Segment) bool {
	c := searchConcatParent(seg)
	return c.Parent != nil && c.Parent.Kind == NewComponent
}

// declOwner is where a declaration lands: a segment's variable table or the
// field table of a record type.
type declOwner struct {
	seg *Segment
	rec *types.DataType
}

func (o declOwner) vars() map[string]*types.Variable {
	if o.rec != nil {
		return o.rec.Fields
	}
	return o.seg.Vars
}

func (o declOwner) String() string {
	if o.rec != nil {
		return o.rec.Name
	}
	return o.seg.Name
}

// variableOwner picks the scope that owns a declaration made at seg.
func (c *Context) variableOwner(seg *Segment, kind types.VarKind) declOwner {
	if rec := searchTopSegment(seg, Record); rec != nil && rec.Parent != nil && rec.Parent.Kind == Type {
		if t, ok := c.availTypes[strings.ToLower(rec.Parent.LastName())]; ok && t.Class == types.Record {
			return declOwner{rec: t}
		}
		return declOwner{seg: seg}
	}
	if f := searchTopSegment(seg, SeqFunction, Function); f != nil {
		return declOwner{seg: f}
	}
	if kind == types.KindVariable {
		if proc := searchTopSegment(seg, Process); proc != nil {
			return declOwner{seg: proc}
		}
	}
	if top := searchTopSegment(seg, Main, Component, Package); top != nil {
		return declOwner{seg: top}
	}
	return declOwner{seg: seg}
}

// parseDeclaration registers every name on the declaration chain ending at
// the current segment ("a, b : STD_LOGIC") and returns the declared type.
func (p *parser) parseDeclaration(typeName string) *types.DataType {
	ctx := p.ctx
	kind := types.KindUnknown
	dir, isIo := types.ParseDirection(p.op)
	if isIo {
		kind = types.KindIo
	}

	head := p.seg
	if !head.Kind.is(Unknown, VariableDeclaration, EmptyName, DataVariable, Enum, Attribute) {
		return types.Unknown
	}
	var names []*Segment
	for ; head != nil; head = head.Parent {
		if head.ConcatOp == ":" {
			continue
		}
		names = append(names, head)
		if head.ConcatOp != "," {
			if kind == types.KindUnknown {
				kind = varKindOf(head.Name)
			}
			head.Kind = VariableDeclaration
			break
		}
	}
	if head == nil {
		return types.Unknown
	}

	dt := ctx.declaredType(typeName)
	switch {
	case head.Parent != nil && head.Parent.Kind == Generic:
		kind = types.KindGeneric
	case head.Parent != nil && head.Parent.Kind == Record:
		kind = types.KindRecordMember
	}

	for _, s := range names {
		decl := strings.Fields(s.Name)
		name := s.Name
		off := s.Offset
		if len(decl) > 1 {
			name = decl[1]
			off += len(decl[0]) + 1
		}
		key := strings.ToLower(name)

		s.Type = dt
		ctx.unresolvedSegments = removeSegment(ctx.unresolvedSegments, s)

		owner := ctx.variableOwner(p.seg, kind)
		v := &types.Variable{Name: name, Type: dt, Kind: kind, Offset: off, Owner: owner.String()}

		if owner.seg != nil && owner.seg.Kind == SeqFunction {
			sf := ctx.availSeqFuncs[strings.ToLower(owner.seg.LastName())]
			if sf != nil {
				if p.pos == posParameter && v.Kind == types.KindUnknown {
					v.Kind = types.KindSignal
				}
				if _, ok := owner.seg.Vars[key]; !ok {
					owner.seg.Vars[key] = v
				}
				if p.pos == posParameter && searchParameterOwner(p.seg).Kind == SeqFunction {
					sf.Params = append(sf.Params, &types.Param{Name: key, Type: dt})
				} else {
					sf.addExposing(v)
				}
				continue
			}
		}

		if owner.seg != nil && owner.seg.Kind == Function && p.pos == posParameter && p.seg.Parent != nil {
			if f := ctx.declared[owner.seg]; f != nil && searchParameterOwner(p.seg.Parent).Kind == Function {
				f.Params = append(f.Params, &types.Param{Name: key, Type: dt})
			}
		}

		vars := owner.vars()
		if _, ok := vars[key]; ok {
			ctx.report(PhaseParse, SeverityError, off, off+len(name),
				"%s %s already defined in %s", kind, name, owner)
			continue
		}
		if kind == types.KindIo {
			v.Direction = dir
		}
		vars[key] = v
		if kind == types.KindConstant && searchTopSegment(head, Package) != nil {
			ctx.addLocalExposing(key, v)
		}
		if kind == types.KindUnknown && p.pos == posParameter &&
			p.seg.Parent != nil && p.seg.Parent.Kind.is(Component, Main) {
			ctx.report(PhaseParse, SeverityError, off, off+len(name), "I/O Type missing (IN, OUT, BUFFER)")
		}
	}
	return dt
}

// parseArrayDeclaration resolves the element type of "array (...) of T" and
// stores it on the enclosing array type.
func (p *parser) parseArrayDeclaration(name string) *types.DataType {
	dt := p.ctx.declaredType(name)
	arr := searchTopSegment(p.seg, Array)
	if arr == nil || arr.Parent == nil || arr.Parent.Kind != Type {
		return dt
	}
	if t, ok := p.ctx.availTypes[strings.ToLower(arr.Parent.LastName())]; ok && t.Class == types.Array {
		t.Element = dt
	}
	return dt
}

// declaredType looks up the type named by a declaration tail such as
// "STD_LOGIC" or "in STD_LOGIC".
func (c *Context) declaredType(name string) *types.DataType {
	words := strings.Fields(name)
	if len(words) == 0 {
		return types.Unknown
	}
	word := words[0]
	if len(words) > 1 && types.IsDirection(word) {
		word = words[1]
	}
	if t, ok := c.availTypes[strings.ToLower(word)]; ok {
		return t
	}
	return types.Unknown
}

// varKindOf reads the declaration keyword of "signal a", "variable b" etc.
func varKindOf(name string) types.VarKind {
	words := strings.Fields(name)
	if len(words) < 2 {
		return types.KindUnknown
	}
	return types.ParseVarKind(words[0])
}

// nativeType infers the type of a literal.
func nativeType(val string) *types.DataType {
	v := strings.ToLower(val)
	n := len(v)
	switch {
	case n == 0:
		return types.Unknown
	case n == 3 && v[0] == '\'' && v[2] == '\'':
		return types.StdLogic
	case isAllDigits(v):
		return types.Integer
	case isRealLiteral(v):
		return types.Real
	case n > 1 && v[n-1] == '"' && (v[0] == '"' || (v[0] == 's' || v[0] == 'x') && v[1] == '"'):
		return types.StdLogicVector
	case v == "true" || v == "false":
		return types.Boolean
	case v == "others":
		return types.Others
	case n > 1 && v[n-1] == 's':
		if allDigitOrSpace(v[:n-1]) {
			return types.Time
		}
		if n > 2 && strings.IndexByte("fmpnu", v[n-2]) >= 0 && allDigitOrSpace(v[:n-2]) {
			return types.Time
		}
	}
	return types.Unknown
}

func isRealLiteral(v string) bool {
	if v == "" || v[0] < '0' || v[0] > '9' {
		return false
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		if (c < '0' || c > '9') && c != '.' && c != 'e' {
			return false
		}
	}
	return true
}

func allDigitOrSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && (s[i] < '0' || s[i] > '9') {
			return false
		}
	}
	return true
}

func removeSegment(list []*Segment, s *Segment) []*Segment {
	for i, e := range list {
		if e == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
