package types

type pair struct{ from, to *DataType }

var validPairs = map[pair]bool{
	{StdLogicVector, StdLogic}: true,
	{StdLogicVector, Unsigned}: true,
	{StdLogicVector, String}:   true,
	{String, StdLogicVector}:   true,
	{Unsigned, StdLogic}:       true,
	{Integer, Unsigned}:        true,
	{Integer, Signed}:          true,
	{Integer, StdLogicVector}:  true,
	{Integer, Positive}:        true,
	{Integer, Natural}:         true,
	{Integer, Real}:            true,
	{Real, Integer}:            true,
	{Natural, Integer}:         true,
	{Natural, Positive}:        true,
	{Positive, Integer}:        true,
	{Positive, Natural}:        true,
	{Time, Integer}:            true,
}

var validConcatPairs = map[pair]bool{
	{StdLogicVector, StdLogic}: true,
	{StdLogicVector, Unsigned}: true,
	{StdLogicVector, Signed}:   true,
	{StdLogic, StdLogicVector}: true,
	{StdLogic, Signed}:         true,
	{StdLogic, Unsigned}:       true,
	{Unsigned, StdLogicVector}: true,
	{Unsigned, StdLogic}:       true,
	{Signed, StdLogicVector}:   true,
	{Bit, BitVector}:           true,
	{BitVector, Bit}:           true,
}

var validComparisonPairs = map[pair]bool{
	{Unsigned, Natural}:        true,
	{Natural, Unsigned}:        true,
	{Unsigned, StdLogicVector}: true,
	{StdLogicVector, Unsigned}: true,
}

// Compatible reports whether a value of type from may flow into to under
// operator op. Types with equal names are always compatible, as are any two
// enums. Other combinations must appear in an allow-list; the concat and
// comparison lists only apply to their operators.
func Compatible(from, to *DataType, op string) bool {
	if from.Name == to.Name {
		return true
	}
	if from.Class == Enum && to.Class == Enum {
		return true
	}
	p := pair{from, to}
	if validPairs[p] {
		return true
	}
	switch op {
	case "&":
		return validConcatPairs[p]
	case "<=", ">=", "<", ">":
		return validComparisonPairs[p]
	}
	return false
}
