package analyzer

// Nesting rules: which child kinds may appear under a parent kind, for
// statement bodies, bodies inside a Thread or SeqFunction, and parameter
// groups. Kinds absent from a table accept only the always-allowed kinds.

var validBody = buildRules(setOf(Vhdl, EmptyName), []rule{
	{setOf(Include, IncludePackage), setOf(IncludePackage)},
	{setOf(Package), setOf(Include, VariableDeclaration, Type, SubType, SeqFunction, VhdlEnd, Vhdl)},
	{setOf(AttributeDeclaration), setOf(VariableDeclaration, Type, SubType, Function, Vhdl)},
	{setOf(GlobalSegment), setOf(Main, Component, Package)},
	{setOf(Main, Component, Generate), setOf(Type, SubType, VariableDeclaration, DataVariable, Function, Process, AttributeDeclaration, SeqFunction, Connections, NewComponent, Generate, With, VhdlEnd)},
	{setOf(Function, For, While), setOf(If, Elsif, Else, Case, Type, SubType, VariableDeclaration, DataVariable, Return, For, ParFor, ParWhile, While, Null, Exit, VhdlFunction)},
	{setOf(Process, Else, Elsif, If, When), setOf(If, Elsif, Else, Case, Type, SubType, VariableDeclaration, DataVariable, Function, For, While, ParFor, ParWhile, Null, Thread, Exit, VhdlFunction)},
	{setOf(Case), setOf(When, DataVariable)},
	{setOf(VariableDeclaration), setOf(TypeUsage)},
	{setOf(DataVariable, NativeDataValue, TypeUsage, VhdlAttribute), setOf(EmptyName, NativeDataValue, DataVariable, VhdlFunction, VhdlAttribute, None)},
	{setOf(EmptyName), setOf(NativeDataValue, DataVariable, VhdlFunction, TypeUsage)},
	{setOf(VhdlFunction), setOf(NativeDataValue, DataVariable, VhdlFunction)},
	{setOf(Type), setOf(Record, Array, DataVariable, NativeDataValue, EnumDeclaration)},
	{setOf(Record), setOf(VariableDeclaration)},
	{setOf(Array), setOf(TypeUsage)},
	{setOf(With), setOf(DataVariable)},
	{setOf(Vhdl, Begin), setOf(If, Elsif, Else, Case, Type, SubType, VariableDeclaration, DataVariable, Function, Process, For, While, AttributeDeclaration, SeqFunction, Connections, NewComponent, Generate, With, VhdlEnd, Attribute)},
	{setOf(Connections, ConnectionsMember), setOf(ConnectionsMember)},
})

var validThread = buildRules(setOf(Vhdl, EmptyName), []rule{
	{setOf(Function, For, While), setOf(If, Elsif, Else, Case, Type, SubType, VariableDeclaration, DataVariable, Return, For, While, SeqWhile, SeqFor, ParWhile, ParFor, Step, NewFunction, CustomBuiltinFunction)},
	{setOf(Case), setOf(When)},
	{setOf(VariableDeclaration), setOf(TypeUsage)},
	{setOf(DataVariable, NativeDataValue, TypeUsage, VhdlAttribute), setOf(EmptyName, NativeDataValue, DataVariable, VhdlFunction, VhdlAttribute)},
	{setOf(EmptyName), setOf(NativeDataValue, DataVariable, VhdlFunction, TypeUsage)},
	{setOf(VhdlFunction), setOf(NativeDataValue, DataVariable)},
	{setOf(Type), setOf(Record, Array, DataVariable, NativeDataValue, EnumDeclaration)},
	{setOf(Record), setOf(VariableDeclaration)},
	{setOf(Array), setOf(TypeUsage)},
	{setOf(Thread, If, Elsif, Else, Step, SeqFor, When, FunctionContent, ParFor), setOf(CustomBuiltinFunction, If, Elsif, Else, Case, TypeUsage, VariableDeclaration, DataVariable, Function, For, Step, While, NewFunction, Null, VhdlFunction, SeqWhile, SeqFor, ParWhile, ParFor)},
	{setOf(SeqFunction), setOf(CustomBuiltinFunction, If, Elsif, Else, Case, TypeUsage, VariableDeclaration, DataVariable, Function, For, Step, While, SeqWhile, SeqFor, ParWhile, ParFor, NewComponent, FunctionContent, NewFunction)},
})

var validParam = buildRules(setOf(EmptyName), []rule{
	{setOf(Include), setOf(IncludePackage)},
	{setOf(Component), setOf(Generic, Package, Include, VariableDeclaration)},
	{setOf(Main), setOf(Package, Include, VariableDeclaration)},
	{setOf(Package), setOf(Type, SubType, VariableDeclaration)},
	{setOf(Function), setOf(Return, VariableDeclaration)},
	{setOf(For, While, SeqFor, SeqWhile), setOf(DataVariable, VariableDeclaration, NativeDataValue)},
	{setOf(NewComponent), setOf(ComponentMember)},
	{setOf(Process), setOf(VariableDeclaration)},
	{setOf(DataVariable, NativeDataValue, VhdlFunction, If, Elsif, Case, When, With, Return), setOf(VhdlFunction, DataVariable, NativeDataValue, Null)},
	{setOf(TypeUsage, Array), setOf(VhdlFunction, DataVariable, NativeDataValue, Range)},
	{setOf(EmptyName, NewFunction), setOf(VhdlFunction, DataVariable, NativeDataValue, VariableDeclaration)},
	{setOf(EnumDeclaration), setOf(Enum)},
	{setOf(Generate), setOf(If, For)},
	{setOf(Connections, ConnectionsMember), setOf(ConnectionsMember)},
	{setOf(SeqFunction), setOf(VariableDeclaration)},
	{setOf(CustomBuiltinFunction), setOf(NativeDataValue, DataVariable)},
	{setOf(ComponentMember), setOf(DataVariable, NativeDataValue)},
	{setOf(Generic), setOf(VariableDeclaration)},
})

type rule struct {
	parents kindSet
	allowed kindSet
}

func buildRules(always kindSet, rules []rule) [kindCount]kindSet {
	var t [kindCount]kindSet
	for k := Kind(0); k < kindCount; k++ {
		t[k] = always
		for _, r := range rules {
			if r.parents.has(k) {
				t[k] |= r.allowed
			}
		}
	}
	return t
}

// checkStructure reports a child kind that may not appear under its parent.
func (c *Context) checkStructure(parent, child *Segment, param, thread bool) {
	if child.Kind == Unknown || parent.Kind == Unknown || child.ConcatOp == "," || child.ConcatOp == "=>" {
		return
	}
	switch {
	case param:
		if !validParam[parent.Kind].has(child.Kind) {
			c.reportAt(PhaseCheck, SeverityWarning, child, "Invalid Parameter Segment %s at %s", child.Kind, parent.Kind)
		}
	case thread:
		if !validThread[parent.Kind].has(child.Kind) {
			c.reportAt(PhaseCheck, SeverityWarning, child, "Invalid Segment %s inside Thread at %s", child.Kind, parent.Kind)
		}
	default:
		if !validBody[parent.Kind].has(child.Kind) {
			c.reportAt(PhaseCheck, SeverityWarning, child, "Invalid Segment %s at %s", child.Kind, parent.Kind)
		}
	}
}
